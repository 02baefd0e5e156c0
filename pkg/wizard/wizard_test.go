package wizard

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/xrsl/careerflow/pkg/catalog"
	"github.com/xrsl/careerflow/pkg/localstore"
	clog "github.com/xrsl/careerflow/pkg/log"
	"github.com/xrsl/careerflow/pkg/workflow"
)

func TestMain(m *testing.M) {
	clog.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type recorder struct {
	paths []string
}

func (r *recorder) Navigate(path string) {
	r.paths = append(r.paths, path)
}

func newStore() *workflow.Store {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	return workflow.NewStore(localstore.NewMemory(), workflow.WithClock(func() time.Time { return now }))
}

func TestOpenInitializesMissing(t *testing.T) {
	ctx := context.Background()
	store := newStore()

	c, err := Open(ctx, store, nil, catalog.MarketIntelligence)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if c.Index() != 0 || c.Closed() {
		t.Errorf("index = %d, closed = %v", c.Index(), c.Closed())
	}
	if _, ok := store.Get(ctx, catalog.MarketIntelligence); !ok {
		t.Error("Open must initialize the workflow")
	}
}

func TestOpenUnknown(t *testing.T) {
	_, err := Open(context.Background(), newStore(), nil, "not-a-real-workflow")
	if !errors.Is(err, workflow.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestOpenResumesAtFirstUnresolved(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	store.Initialize(ctx, catalog.JobApplicationPipeline)
	store.UpdateStepStatus(ctx, catalog.JobApplicationPipeline, "create-resume", workflow.StatusCompleted, nil)
	store.UpdateStepStatus(ctx, catalog.JobApplicationPipeline, "write-cover-letter", workflow.StatusSkipped, nil)

	c, err := Open(ctx, store, nil, catalog.JobApplicationPipeline)
	if err != nil {
		t.Fatal(err)
	}
	if c.Index() != 2 {
		t.Errorf("index = %d, want 2", c.Index())
	}
	if c.Current().ID != "find-jobs" {
		t.Errorf("current = %s, want find-jobs", c.Current().ID)
	}
}

func TestOpenAllResolvedStartsAtZero(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	wf, _ := store.Initialize(ctx, catalog.DocumentConsistency)
	for _, s := range wf.Steps {
		store.UpdateStepStatus(ctx, catalog.DocumentConsistency, s.ID, workflow.StatusSkipped, nil)
	}

	c, err := Open(ctx, store, nil, catalog.DocumentConsistency)
	if err != nil {
		t.Fatal(err)
	}
	if c.Index() != 0 {
		t.Errorf("index = %d, want 0", c.Index())
	}
}

func TestNextPrevious(t *testing.T) {
	ctx := context.Background()
	c, err := Open(ctx, newStore(), nil, catalog.DocumentConsistency)
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Previous(); err != nil {
		t.Fatal(err)
	}
	if c.Index() != 0 {
		t.Errorf("Previous at 0 moved to %d", c.Index())
	}

	for i := 1; i <= 3; i++ {
		if err := c.Next(); err != nil {
			t.Fatal(err)
		}
		if c.Index() != i {
			t.Errorf("index = %d, want %d", c.Index(), i)
		}
	}
	if !c.Last() || c.Closed() {
		t.Fatal("expected to be on the last step, still open")
	}

	if err := c.Previous(); err != nil || c.Index() != 2 {
		t.Errorf("Previous = %v, index %d", err, c.Index())
	}
	c.Next()
	if err := c.Next(); err != nil {
		t.Fatal(err)
	}
	if !c.Closed() {
		t.Error("Next on the last step must close the wizard")
	}
	if c.Index() != 3 {
		t.Errorf("closing must not move the cursor, index = %d", c.Index())
	}
	if err := c.Next(); !errors.Is(err, ErrClosed) {
		t.Errorf("error = %v, want ErrClosed", err)
	}
}

func TestStartNavigatesAndCloses(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	nav := &recorder{}
	c, err := Open(ctx, store, nav, catalog.InterviewPrep)
	if err != nil {
		t.Fatal(err)
	}
	c.Next()

	if err := c.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if !c.Closed() {
		t.Error("Start must close the wizard")
	}
	if len(nav.paths) != 1 || nav.paths[0] != "/career/interview/questions" {
		t.Errorf("navigated to %v", nav.paths)
	}

	wf, _ := store.Get(ctx, catalog.InterviewPrep)
	step := wf.Step("review-questions")
	if step.Status != workflow.StatusInProgress {
		t.Errorf("status = %s, want in-progress", step.Status)
	}
	if step.Metadata.StartedAt == nil {
		t.Error("expected startedAt metadata")
	}
	if wf.Completed() {
		t.Error("starting a step must not complete the workflow")
	}
	bag := store.Context(ctx)
	if bag.String(workflow.CtxSourceWorkflow) != string(catalog.InterviewPrep) || bag.String(workflow.CtxSourceStep) != "review-questions" {
		t.Errorf("context bag = %v, want source interview-prep/review-questions", bag)
	}
	if err := c.Start(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("error = %v, want ErrClosed", err)
	}
}

func TestStartLastStepDoesNotComplete(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	wf, _ := store.Initialize(ctx, catalog.DocumentConsistency)
	for _, s := range wf.Steps[:3] {
		store.UpdateStepStatus(ctx, catalog.DocumentConsistency, s.ID, workflow.StatusCompleted, nil)
	}

	c, err := Open(ctx, store, NavigatorFunc(func(string) {}), catalog.DocumentConsistency)
	if err != nil {
		t.Fatal(err)
	}
	if !c.Last() {
		t.Fatalf("index = %d, want last", c.Index())
	}
	c.Start(ctx)

	wf, _ = store.Get(ctx, catalog.DocumentConsistency)
	if wf.Completed() || wf.Progress != 75 {
		t.Errorf("progress = %d, completed = %v", wf.Progress, wf.Completed())
	}
}

func TestSkipToEnd(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	if _, err := store.Initialize(ctx, catalog.DocumentConsistency); err != nil {
		t.Fatal(err)
	}

	c, err := Open(ctx, store, nil, catalog.DocumentConsistency)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		if c.Closed() {
			t.Fatalf("closed early after %d skips", i)
		}
		if err := c.Skip(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if !c.Closed() {
		t.Error("wizard must close after the 4th skip")
	}

	wf, _ := store.Get(ctx, catalog.DocumentConsistency)
	for _, s := range wf.Steps {
		if s.Status != workflow.StatusSkipped {
			t.Errorf("step %s: status %s, want skipped", s.ID, s.Status)
		}
	}
	if wf.Progress != 0 {
		t.Errorf("progress = %d, want 0", wf.Progress)
	}
	if wf.Completed() {
		t.Error("skipping every step must not complete the workflow")
	}
	if c.Workflow().Progress != 0 {
		t.Error("cached workflow out of date")
	}
}
