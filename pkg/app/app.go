// Package app assembles the workflow store, outcome tracker, recommendation
// engine and dashboard from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/xrsl/careerflow/pkg/catalog"
	"github.com/xrsl/careerflow/pkg/config"
	"github.com/xrsl/careerflow/pkg/dashboard"
	"github.com/xrsl/careerflow/pkg/gh"
	"github.com/xrsl/careerflow/pkg/jobs"
	"github.com/xrsl/careerflow/pkg/localstore"
	clog "github.com/xrsl/careerflow/pkg/log"
	"github.com/xrsl/careerflow/pkg/metrics"
	"github.com/xrsl/careerflow/pkg/outcome"
	"github.com/xrsl/careerflow/pkg/recommend"
	"github.com/xrsl/careerflow/pkg/remote"
	"github.com/xrsl/careerflow/pkg/workflow"
)

// App holds the wired components. Call Close before exiting so pending
// completion handlers finish.
type App struct {
	Config    *config.Config
	KV        localstore.Store
	Remote    remote.Source
	Workflows *workflow.Store
	Outcomes  *outcome.Tracker
	Engine    *recommend.Engine
	Board     *dashboard.Board
	Jobs      *jobs.Tracker
	Metrics   *metrics.Metrics

	closers []func() error
}

type options struct {
	kv     localstore.Store
	remote remote.Source
	now    func() time.Time
}

// Option customises New.
type Option func(*options)

// WithKV bypasses the configured store backend.
func WithKV(kv localstore.Store) Option {
	return func(o *options) {
		o.kv = kv
	}
}

// WithRemote bypasses the configured remote backend.
func WithRemote(src remote.Source) Option {
	return func(o *options) {
		o.remote = src
	}
}

// WithClock replaces time.Now in every component.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// New opens the configured store and remote backends and wires the
// components together. Close releases what New opened.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{Config: cfg, Metrics: metrics.New()}

	a.KV = o.kv
	if a.KV == nil {
		kv, err := a.openKV(ctx, cfg.Store)
		if err != nil {
			return nil, err
		}
		a.KV = kv
	}

	a.Remote = o.remote
	if a.Remote == nil {
		src, err := a.openRemote(ctx, cfg.Remote)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.Remote = src
	}

	a.Jobs = jobs.NewTracker(a.KV, jobs.WithClock(o.now))
	a.Workflows = workflow.NewStore(a.KV,
		workflow.WithClock(o.now),
		workflow.WithStepHook(a.Metrics.StepHook),
	)
	a.Outcomes = outcome.NewTracker(a.KV, a.Workflows,
		outcome.WithJobs(a.Jobs),
		outcome.WithRemote(a.Remote),
		outcome.WithClock(o.now),
		outcome.WithTrackedHook(a.Metrics.Tracked),
	)
	a.Workflows.OnComplete(func(ctx context.Context, id catalog.WorkflowID) error {
		a.Metrics.Completed(id)
		return a.Outcomes.HandleCompleted(ctx, id)
	})
	a.Engine = recommend.NewEngine(a.Remote, a.Workflows,
		recommend.WithGoal(cfg.Goal),
		recommend.WithClock(o.now),
	)
	a.Board = dashboard.New(a.Workflows, a.Outcomes, a.Engine).WithClock(o.now)

	clog.Debug("app ready", "store", cfg.Store.Backend, "remote", cfg.Remote.Backend)
	return a, nil
}

func (a *App) openKV(ctx context.Context, sc config.StoreConfig) (localstore.Store, error) {
	switch sc.Backend {
	case "", "file":
		return localstore.NewFile(sc.Dir), nil
	case "memory":
		return localstore.NewMemory(), nil
	case "redis":
		var ropts []localstore.RedisOption
		if sc.Prefix != "" {
			ropts = append(ropts, localstore.WithPrefix(sc.Prefix))
		}
		r := localstore.NewRedis(redis.NewClient(&redis.Options{Addr: sc.RedisAddr}), ropts...)
		if err := r.Ping(ctx); err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("connect redis %s: %w", sc.RedisAddr, err)
		}
		a.closers = append(a.closers, r.Close)
		return r, nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s", sc.Backend)
	}
}

func (a *App) openRemote(ctx context.Context, rc config.RemoteConfig) (remote.Source, error) {
	switch rc.Backend {
	case "", "none":
		return &remote.Static{}, nil
	case "postgres":
		pg, err := remote.Connect(ctx, rc.DSN, rc.User)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error {
			pg.Close()
			return nil
		})
		if err := pg.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migrate remote schema: %w", err)
		}
		return pg, nil
	case "github":
		if !gh.Available() {
			clog.Warn("gh CLI not found; remote counts will be empty")
		}
		return remote.NewGitHub(gh.New(), rc.Repo, nil), nil
	default:
		return nil, fmt.Errorf("unknown remote backend: %s", rc.Backend)
	}
}

// Close waits for in-flight completion handlers and releases connections.
func (a *App) Close() error {
	if a.Workflows != nil {
		a.Workflows.Wait()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
