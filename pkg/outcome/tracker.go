// Package outcome attributes real-world results to completed workflows.
//
// Tracking is idempotent per (workflow id, completion time) and every metric
// gatherer is isolated: a failing data source only drops its own metrics.
package outcome

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xrsl/careerflow/pkg/catalog"
	"github.com/xrsl/careerflow/pkg/jobs"
	"github.com/xrsl/careerflow/pkg/localstore"
	clog "github.com/xrsl/careerflow/pkg/log"
	"github.com/xrsl/careerflow/pkg/remote"
	"github.com/xrsl/careerflow/pkg/workflow"
)

// ErrNotTracked is returned by HandleCompleted when the workflow is absent
// or not completed.
var ErrNotTracked = errors.New("workflow outcome not tracked")

// WorkflowReader is the part of the workflow store the tracker reads.
type WorkflowReader interface {
	Get(ctx context.Context, id catalog.WorkflowID) (*workflow.Workflow, bool)
	All(ctx context.Context) []*workflow.Workflow
	Context(ctx context.Context) workflow.Context
}

// JobSource provides tracked jobs and interview sessions.
type JobSource interface {
	List(ctx context.Context) ([]jobs.Job, error)
	Sessions(ctx context.Context) ([]jobs.Session, error)
}

// Tracker records and projects workflow outcomes.
type Tracker struct {
	kv        localstore.Store
	workflows WorkflowReader
	jobs      JobSource
	src       remote.Source
	now       func() time.Time
	onTracked func(Outcome)

	mu sync.Mutex
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithJobs sets the tracked jobs source.
func WithJobs(j JobSource) Option {
	return func(t *Tracker) {
		t.jobs = j
	}
}

// WithRemote sets the remote data source.
func WithRemote(src remote.Source) Option {
	return func(t *Tracker) {
		t.src = src
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// WithTrackedHook registers a function called for each new outcome.
func WithTrackedHook(fn func(Outcome)) Option {
	return func(t *Tracker) {
		t.onTracked = fn
	}
}

// NewTracker returns a tracker persisting to kv.
func NewTracker(kv localstore.Store, workflows WorkflowReader, opts ...Option) *Tracker {
	t := &Tracker{kv: kv, workflows: workflows, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// HandleCompleted adapts Track to workflow.CompletionHandler.
func (t *Tracker) HandleCompleted(ctx context.Context, id catalog.WorkflowID) error {
	if _, ok := t.Track(ctx, id); !ok {
		return fmt.Errorf("%w: %s", ErrNotTracked, id)
	}
	return nil
}

// Track records the outcome of a completed workflow. It returns false when
// the workflow does not exist or has not completed. Tracking the same
// completion again returns the existing record.
func (t *Tracker) Track(ctx context.Context, id catalog.WorkflowID) (*Outcome, bool) {
	w, ok := t.workflows.Get(ctx, id)
	if !ok || w.CompletedAt == nil {
		clog.Debug("outcome not tracked: workflow not completed", "workflow", id)
		return nil, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	all := t.load(ctx)
	for i := range all {
		if all[i].WorkflowID == id && all[i].CompletedAt.Equal(*w.CompletedAt) {
			return &all[i], true
		}
	}

	start := t.now()
	if w.StartedAt != nil {
		start = *w.StartedAt
	}
	completed := *w.CompletedAt

	o := Outcome{
		ID:             uuid.NewString(),
		WorkflowID:     id,
		WorkflowName:   w.Name,
		CompletedAt:    completed,
		TimeToComplete: daysBetween(start, completed),
		StepsCompleted: w.CompletedSteps(),
		TotalSteps:     len(w.Steps),
	}

	in := gatherInput{
		workflow: w,
		from:     w.StartedAt,
		to:       completed,
		bag:      t.workflows.Context(ctx),
	}
	kind := catalog.ProfileOf(id).Metrics
	o.Metrics, o.Metadata = t.gather(ctx, kind, in)

	all = append(all, o)
	t.save(ctx, all)
	clog.Info("workflow outcome tracked", "workflow", id, "days", o.TimeToComplete, "metrics", kind)

	if t.onTracked != nil {
		t.onTracked(o)
	}
	return &o, true
}

// Outcomes returns every recorded outcome. Read failures yield none.
func (t *Tracker) Outcomes(ctx context.Context) []Outcome {
	t.mu.Lock()
	defer t.mu.Unlock()
	if all := t.load(ctx); all != nil {
		return all
	}
	return []Outcome{}
}

// latest returns the most recent outcome for id.
func (t *Tracker) latest(ctx context.Context, id catalog.WorkflowID) (*Outcome, bool) {
	var found *Outcome
	all := t.Outcomes(ctx)
	for i := range all {
		if all[i].WorkflowID != id {
			continue
		}
		if found == nil || all[i].CompletedAt.After(found.CompletedAt) {
			found = &all[i]
		}
	}
	return found, found != nil
}

// ImpactMetrics projects the most recent outcome for id.
func (t *Tracker) ImpactMetrics(ctx context.Context, id catalog.WorkflowID) (*Impact, bool) {
	o, ok := t.latest(ctx, id)
	if !ok {
		return nil, false
	}
	im := project(*o)
	return &im, true
}

// AllImpactMetrics projects every outcome, newest first.
func (t *Tracker) AllImpactMetrics(ctx context.Context) []Impact {
	all := t.Outcomes(ctx)
	slices.SortStableFunc(all, func(a, b Outcome) int {
		return b.CompletedAt.Compare(a.CompletedAt)
	})
	out := make([]Impact, 0, len(all))
	for _, o := range all {
		out = append(out, project(o))
	}
	return out
}

// CalculateROI values the most recent outcome for id.
func (t *Tracker) CalculateROI(ctx context.Context, id catalog.WorkflowID) (*ROI, bool) {
	o, ok := t.latest(ctx, id)
	if !ok {
		return nil, false
	}
	r := ComputeROI(*o)
	return &r, true
}

// ComputeROI values an outcome. ROI is 0 when no time was invested.
func ComputeROI(o Outcome) ROI {
	m := o.Metrics
	value := 0.0
	if m.ApplicationsSubmitted != nil {
		value += float64(*m.ApplicationsSubmitted * ValuePerApplication)
	}
	if m.InterviewsScheduled != nil {
		value += float64(*m.InterviewsScheduled * ValuePerInterview)
	}
	if m.SkillsImproved != nil {
		value += float64(*m.SkillsImproved * ValuePerSkill)
	}
	if m.CertificationsEarned != nil {
		value += float64(*m.CertificationsEarned * ValuePerCertification)
	}
	if m.BrandScoreIncrease != nil {
		value += float64(*m.BrandScoreIncrease * ValuePerBrandPoint)
	}
	if m.SalaryIncrease != nil {
		value += *m.SalaryIncrease
	}

	r := ROI{TimeInvested: o.TimeToComplete, EstimatedValue: value}
	if o.TimeToComplete > 0 {
		r.ROI = int(math.Round(value / float64(o.TimeToComplete) * 100))
	}
	return r
}

// CheckAndTrack tracks every completed, inactive workflow that has no
// outcome yet and returns the new records.
func (t *Tracker) CheckAndTrack(ctx context.Context) []Outcome {
	seen := make(map[catalog.WorkflowID]bool)
	for _, o := range t.Outcomes(ctx) {
		seen[o.WorkflowID] = true
	}

	tracked := []Outcome{}
	for _, w := range t.workflows.All(ctx) {
		if !w.Completed() || w.IsActive || seen[w.ID] {
			continue
		}
		if o, ok := t.Track(ctx, w.ID); ok {
			tracked = append(tracked, *o)
		}
	}
	if len(tracked) > 0 {
		clog.Info("reconciled workflow outcomes", "tracked", len(tracked))
	}
	return tracked
}

func (t *Tracker) load(ctx context.Context) []Outcome {
	raw, ok, err := t.kv.Get(ctx, localstore.KeyOutcomes)
	if err != nil {
		clog.Warn("failed to read outcomes", "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	var all []Outcome
	if err := json.Unmarshal([]byte(raw), &all); err != nil {
		clog.Warn("failed to decode outcomes", "error", err)
		return nil
	}
	return all
}

func (t *Tracker) save(ctx context.Context, all []Outcome) {
	data, err := json.Marshal(all)
	if err != nil {
		clog.Warn("failed to encode outcomes", "error", err)
		return
	}
	if err := t.kv.Set(ctx, localstore.KeyOutcomes, string(data)); err != nil {
		clog.Warn("failed to write outcomes", "error", err)
	}
}

// daysBetween returns whole days from start to end, never negative.
func daysBetween(start, end time.Time) int {
	d := end.Sub(start)
	if d <= 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}
