package dashboard

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/xrsl/careerflow/pkg/catalog"
	"github.com/xrsl/careerflow/pkg/localstore"
	clog "github.com/xrsl/careerflow/pkg/log"
	"github.com/xrsl/careerflow/pkg/outcome"
	"github.com/xrsl/careerflow/pkg/recommend"
	"github.com/xrsl/careerflow/pkg/remote"
	"github.com/xrsl/careerflow/pkg/workflow"
)

func TestMain(m *testing.M) {
	clog.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestSummarizeEmpty(t *testing.T) {
	a := Summarize(nil)
	if a.TotalWorkflows != 0 || a.AverageProgress != 0 || a.CompletionRate != 0 {
		t.Errorf("analytics = %+v", a)
	}
	if a.Categories == nil {
		t.Error("categories must be an empty list, not nil")
	}
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	all := []*workflow.Workflow{
		{
			ID: catalog.JobApplicationPipeline, Category: catalog.CategoryCareerHub, Progress: 100, CompletedAt: &now,
			Steps: []workflow.Step{{Status: workflow.StatusCompleted}, {Status: workflow.StatusCompleted}},
		},
		{
			ID: catalog.InterviewPrep, Category: catalog.CategoryCareerHub, Progress: 50, IsActive: true,
			Steps: []workflow.Step{{Status: workflow.StatusCompleted}, {Status: workflow.StatusSkipped}},
		},
		{
			ID: catalog.SkillDevelopment, Category: catalog.CategoryUpskilling, Progress: 0, IsActive: true,
			Steps: []workflow.Step{{Status: workflow.StatusNotStarted}},
		},
	}

	a := Summarize(all)
	if a.TotalWorkflows != 3 || a.ActiveWorkflows != 2 || a.CompletedWorkflows != 1 {
		t.Errorf("counts = %+v", a)
	}
	if a.AverageProgress != 50 {
		t.Errorf("AverageProgress = %d, want 50", a.AverageProgress)
	}
	if a.CompletionRate != 33 {
		t.Errorf("CompletionRate = %d, want 33", a.CompletionRate)
	}
	if a.StepsCompleted != 3 || a.StepsSkipped != 1 {
		t.Errorf("steps = %d completed, %d skipped", a.StepsCompleted, a.StepsSkipped)
	}

	want := []CategoryStats{
		{Category: catalog.CategoryCareerHub, Total: 2, Completed: 1, AverageProgress: 75},
		{Category: catalog.CategoryUpskilling, Total: 1, Completed: 0, AverageProgress: 0},
	}
	if len(a.Categories) != len(want) {
		t.Fatalf("categories = %+v", a.Categories)
	}
	for i := range want {
		if a.Categories[i] != want[i] {
			t.Errorf("category %d = %+v, want %+v", i, a.Categories[i], want[i])
		}
	}
}

func TestLoadReconcilesOutcomes(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	kv := localstore.NewMemory()

	store := workflow.NewStore(kv, workflow.WithClock(clock))
	tracker := outcome.NewTracker(kv, store, outcome.WithClock(clock), outcome.WithRemote(&remote.Static{}))
	engine := recommend.NewEngine(&remote.Static{}, store, recommend.WithClock(clock))
	board := New(store, tracker, engine).WithClock(clock)

	store.Initialize(ctx, catalog.MarketIntelligence)
	now = now.Add(2 * 24 * time.Hour)
	store.Complete(ctx, catalog.MarketIntelligence)
	now = now.Add(24 * time.Hour)
	store.Initialize(ctx, catalog.JobApplicationPipeline)
	now = now.Add(24 * time.Hour)

	v := board.Load(ctx, 3)
	if v.NewOutcomes != 1 {
		t.Errorf("NewOutcomes = %d, want 1", v.NewOutcomes)
	}
	if len(v.Impact) != 1 || v.Impact[0].WorkflowID != catalog.MarketIntelligence {
		t.Errorf("impact = %+v", v.Impact)
	}
	if v.Active == nil || v.Active.ID != catalog.JobApplicationPipeline {
		t.Errorf("active = %+v", v.Active)
	}
	if v.Analytics.TotalWorkflows != 2 || v.Analytics.CompletedWorkflows != 1 {
		t.Errorf("analytics = %+v", v.Analytics)
	}
	for _, r := range v.Recommendations {
		if r.WorkflowID == catalog.MarketIntelligence {
			t.Error("completed workflow recommended")
		}
	}

	rows := map[catalog.WorkflowID]Performance{}
	for _, p := range v.Performance {
		rows[p.WorkflowID] = p
	}
	mi := rows[catalog.MarketIntelligence]
	if mi.TimeToComplete == nil || *mi.TimeToComplete != 2 || mi.DaysActive != 2 {
		t.Errorf("market row = %+v", mi)
	}
	if mi.ROI == nil || mi.ROI.TimeInvested != 2 {
		t.Errorf("market ROI = %+v", mi.ROI)
	}
	jap := rows[catalog.JobApplicationPipeline]
	if jap.DaysActive != 1 || jap.TimeToComplete != nil || jap.ROI != nil {
		t.Errorf("pipeline row = %+v", jap)
	}

	if again := board.Load(ctx, 3); again.NewOutcomes != 0 {
		t.Errorf("second load reconciled %d", again.NewOutcomes)
	}
}
