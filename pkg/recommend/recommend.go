// Package recommend ranks catalog workflows for the current user.
//
// Scoring is additive from a base of 10 and clamped to [0, 100]. Completed
// workflows always score 0 and active ones a flat 5. Everything else is driven
// by the per-workflow catalog.Profile, the user's document and application
// counts, the career goal and how long the user has been idle.
package recommend

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/xrsl/careerflow/pkg/catalog"
	clog "github.com/xrsl/careerflow/pkg/log"
	"github.com/xrsl/careerflow/pkg/remote"
	"github.com/xrsl/careerflow/pkg/workflow"
)

// Priority buckets a score.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// IdleSentinel is the idle-days value used when no step was ever completed.
const IdleSentinel = 9999

// Recommendation is one ranked suggestion. It is computed per request and
// never persisted.
type Recommendation struct {
	WorkflowID    catalog.WorkflowID   `json:"workflowId"`
	Name          string               `json:"name"`
	Score         int                  `json:"score"`
	Reason        string               `json:"reason"`
	Priority      Priority             `json:"priority"`
	Prerequisites []catalog.WorkflowID `json:"prerequisites,omitempty"`
	EstimatedTime string               `json:"estimatedTime"`
	Category      catalog.Category     `json:"category"`
	Tags          []string             `json:"tags,omitempty"`
	// Path is the target of the workflow's first step.
	Path string `json:"path,omitempty"`
}

// UserContext is the input of the scoring function.
type UserContext struct {
	Documents    int `json:"documents"`
	Applications int `json:"applications"`
	CoverLetters int `json:"coverLetters"`
	// BrandScore is nil when the user has no brand audit.
	BrandScore        *int                 `json:"brandScore,omitempty"`
	Completed         []catalog.WorkflowID `json:"completedWorkflows"`
	Active            []catalog.WorkflowID `json:"activeWorkflows"`
	DaysSinceActivity int                  `json:"daysSinceActivity"`
	Goal              string               `json:"careerGoal,omitempty"`
}

// DefaultUserContext is the context used when nothing can be assembled.
func DefaultUserContext() UserContext {
	return UserContext{DaysSinceActivity: IdleSentinel}
}

func (uc UserContext) signals() catalog.Signals {
	return catalog.Signals{
		Documents:    uc.Documents,
		Applications: uc.Applications,
		CoverLetters: uc.CoverLetters,
		BrandScore:   uc.BrandScore,
	}
}

// WorkflowReader is the part of the workflow store the engine reads.
type WorkflowReader interface {
	All(ctx context.Context) []*workflow.Workflow
	Context(ctx context.Context) workflow.Context
}

// Engine computes recommendations.
type Engine struct {
	src   remote.Source
	store WorkflowReader
	goal  string
	now   func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithGoal sets the career goal used when the context bag has none.
func WithGoal(goal string) Option {
	return func(e *Engine) {
		e.goal = goal
	}
}

// WithClock sets the time source used for idle days.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine returns an engine over the remote source and the workflow store.
// A nil source behaves like a user with no data.
func NewEngine(src remote.Source, store WorkflowReader, opts ...Option) *Engine {
	if src == nil {
		src = &remote.Static{}
	}
	e := &Engine{src: src, store: store, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Recommendations returns at most limit suggestions with a positive score,
// highest first. Ties keep catalog order.
func (e *Engine) Recommendations(ctx context.Context, limit int) []Recommendation {
	uc := e.BuildUserContext(ctx)

	recs := []Recommendation{}
	for _, id := range catalog.IDs() {
		score := Score(id, uc)
		if score <= 0 {
			continue
		}
		recs = append(recs, build(id, score, uc))
	}
	slices.SortStableFunc(recs, func(a, b Recommendation) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if limit >= 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	clog.Debug("recommendations computed", "count", len(recs), "limit", limit)
	return recs
}

// BuildUserContext assembles the scoring input. Each remote metric that fails
// degrades to zero or absent on its own.
func (e *Engine) BuildUserContext(ctx context.Context) UserContext {
	uc := DefaultUserContext()

	uc.Documents = e.count(ctx, "resumes", e.src.CountResumes)
	uc.Applications = e.count(ctx, "applications", e.src.CountApplications)
	uc.CoverLetters = e.count(ctx, "cover letters", e.src.CountCoverLetters)
	uc.BrandScore = remote.LatestBrandScore(ctx, e.src)

	if e.store == nil {
		uc.Goal = e.goal
		return uc
	}

	var last *time.Time
	for _, w := range e.store.All(ctx) {
		if w.Completed() {
			uc.Completed = append(uc.Completed, w.ID)
		} else if w.IsActive {
			uc.Active = append(uc.Active, w.ID)
		}
		if t := w.LastActivity(); t != nil && (last == nil || t.After(*last)) {
			last = t
		}
	}
	if last != nil {
		uc.DaysSinceActivity = max(0, int(e.now().Sub(*last)/(24*time.Hour)))
	}

	uc.Goal = e.store.Context(ctx).String(workflow.CtxCareerGoal)
	if uc.Goal == "" {
		uc.Goal = e.goal
	}
	return uc
}

func (e *Engine) count(ctx context.Context, what string, fn func(context.Context) (int, error)) int {
	n, err := fn(ctx)
	if err != nil {
		clog.Warn("remote count unavailable", "metric", what, "error", err)
		return 0
	}
	return n
}

func build(id catalog.WorkflowID, score int, uc UserContext) Recommendation {
	def, _ := catalog.Lookup(id)
	p := catalog.ProfileOf(id)
	rec := Recommendation{
		WorkflowID:    id,
		Name:          def.Name,
		Score:         score,
		Reason:        Reason(id, uc),
		Priority:      PriorityFor(score),
		Prerequisites: slices.Clone(p.Dependencies),
		EstimatedTime: p.Estimate(),
		Category:      def.Category,
		Tags:          slices.Clone(p.Tags),
	}
	if steps, err := catalog.Steps(id); err == nil && len(steps) > 0 {
		rec.Path = steps[0].Path
	}
	return rec
}

// PriorityFor maps a score to its priority bucket.
func PriorityFor(score int) Priority {
	switch {
	case score >= 60:
		return PriorityHigh
	case score >= 35:
		return PriorityMedium
	default:
		return PriorityLow
	}
}
