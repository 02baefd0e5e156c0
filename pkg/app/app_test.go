package app

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xrsl/careerflow/pkg/catalog"
	"github.com/xrsl/careerflow/pkg/config"
	"github.com/xrsl/careerflow/pkg/localstore"
	clog "github.com/xrsl/careerflow/pkg/log"
	"github.com/xrsl/careerflow/pkg/remote"
	"github.com/xrsl/careerflow/pkg/workflow"
)

func TestMain(m *testing.M) {
	clog.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func memoryConfig() *config.Config {
	return &config.Config{
		Store:  config.StoreConfig{Backend: "memory"},
		Remote: config.RemoteConfig{Backend: "none"},
	}
}

func TestCompletionIsTrackedAndCounted(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	a, err := New(ctx, memoryConfig(), WithClock(clock))
	require.NoError(t, err)

	wf, err := a.Workflows.Initialize(ctx, catalog.MarketIntelligence)
	require.NoError(t, err)

	now = now.Add(48 * time.Hour)
	for _, s := range wf.Steps {
		a.Workflows.UpdateStepStatus(ctx, wf.ID, s.ID, workflow.StatusCompleted, nil)
	}
	require.NoError(t, a.Close())

	outs := a.Outcomes.Outcomes(ctx)
	require.Len(t, outs, 1)
	assert.Equal(t, catalog.MarketIntelligence, outs[0].WorkflowID)
	assert.Equal(t, 2, outs[0].TimeToComplete)

	reg := a.Metrics.Registry()
	n, err := testutil.GatherAndCount(reg, "careerflow_workflow_completions_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = testutil.GatherAndCount(reg, "careerflow_outcomes_tracked_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRecommendationsUseInjectedRemote(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, memoryConfig(), WithRemote(&remote.Static{
		User:         remote.User{ID: "u1"},
		Resumes:      2,
		Applications: 6,
	}))
	require.NoError(t, err)
	defer a.Close()

	recs := a.Engine.Recommendations(ctx, 3)
	require.NotEmpty(t, recs)
	uc := a.Engine.BuildUserContext(ctx)
	assert.Equal(t, 2, uc.Documents)
	assert.Equal(t, 6, uc.Applications)
}

func TestRedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := memoryConfig()
	cfg.Store = config.StoreConfig{Backend: "redis", RedisAddr: mr.Addr(), Prefix: "test"}

	ctx := context.Background()
	a, err := New(ctx, cfg)
	require.NoError(t, err)

	_, err = a.Workflows.Initialize(ctx, catalog.InterviewPrep)
	require.NoError(t, err)
	require.NoError(t, a.Close())

	assert.True(t, mr.Exists("test:"+localstore.KeyWorkflows))
}

func TestRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := memoryConfig()
	cfg.Store = config.StoreConfig{Backend: "redis", RedisAddr: addr}
	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestFileBackend(t *testing.T) {
	dir := t.TempDir()
	cfg := memoryConfig()
	cfg.Store = config.StoreConfig{Backend: "file", Dir: dir}

	ctx := context.Background()
	a, err := New(ctx, cfg)
	require.NoError(t, err)
	_, err = a.Workflows.Initialize(ctx, catalog.SkillDevelopment)
	require.NoError(t, err)
	require.NoError(t, a.Close())

	// A second app over the same directory sees the instance.
	b, err := New(ctx, cfg)
	require.NoError(t, err)
	defer b.Close()
	active, ok := b.Workflows.Active(ctx)
	require.True(t, ok)
	assert.Equal(t, catalog.SkillDevelopment, active.ID)
}

func TestUnknownBackends(t *testing.T) {
	cfg := memoryConfig()
	cfg.Store.Backend = "sqlite"
	_, err := New(context.Background(), cfg)
	assert.Error(t, err)

	cfg = memoryConfig()
	cfg.Remote.Backend = "ldap"
	_, err = New(context.Background(), cfg)
	assert.Error(t, err)
}
