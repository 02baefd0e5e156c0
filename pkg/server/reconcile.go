package server

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	clog "github.com/xrsl/careerflow/pkg/log"
)

// Reconciler periodically records outcomes for completed workflows that have
// none, e.g. when a completion handler was lost.
type Reconciler struct {
	cron *cron.Cron
	run  func(ctx context.Context) int
}

// NewReconciler schedules run on schedule, a standard cron expression or
// descriptor such as "@every 1h".
func NewReconciler(schedule string, run func(ctx context.Context) int) (*Reconciler, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid reconcile schedule %q: %w", schedule, err)
	}
	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
		cron.Recover(cron.DefaultLogger),
	))
	r := &Reconciler{cron: c, run: run}
	if _, err := c.AddFunc(schedule, r.tick); err != nil {
		return nil, fmt.Errorf("schedule reconcile: %w", err)
	}
	return r, nil
}

func (r *Reconciler) tick() {
	n := r.run(context.Background())
	if n > 0 {
		clog.Info("reconciled outcomes", "tracked", n)
	}
}

// Start begins scheduling in the background.
func (r *Reconciler) Start() {
	r.cron.Start()
}

// Stop halts scheduling and waits for a running reconcile to finish.
func (r *Reconciler) Stop() {
	<-r.cron.Stop().Done()
}
