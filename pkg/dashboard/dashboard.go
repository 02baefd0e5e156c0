// Package dashboard computes the read-only views over workflow and outcome
// state shown by the CLI and the dashboard server.
package dashboard

import (
	"context"
	"math"
	"time"

	"github.com/xrsl/careerflow/pkg/catalog"
	"github.com/xrsl/careerflow/pkg/outcome"
	"github.com/xrsl/careerflow/pkg/recommend"
	"github.com/xrsl/careerflow/pkg/workflow"
)

// CategoryStats aggregates the workflows of one category.
type CategoryStats struct {
	Category        catalog.Category `json:"category"`
	Total           int              `json:"total"`
	Completed       int              `json:"completed"`
	AverageProgress int              `json:"averageProgress"`
}

// Analytics summarises every workflow instance.
type Analytics struct {
	TotalWorkflows     int             `json:"totalWorkflows"`
	ActiveWorkflows    int             `json:"activeWorkflows"`
	CompletedWorkflows int             `json:"completedWorkflows"`
	AverageProgress    int             `json:"averageProgress"`
	CompletionRate     int             `json:"completionRate"`
	StepsCompleted     int             `json:"stepsCompleted"`
	StepsSkipped       int             `json:"stepsSkipped"`
	Categories         []CategoryStats `json:"categories"`
}

// Performance is one row of the per-workflow performance table.
type Performance struct {
	WorkflowID     catalog.WorkflowID `json:"workflowId"`
	Name           string             `json:"name"`
	Category       catalog.Category   `json:"category"`
	Progress       int                `json:"progress"`
	IsActive       bool               `json:"isActive"`
	DaysActive     int                `json:"daysActive"`
	TimeToComplete *int               `json:"timeToComplete,omitempty"`
	ROI            *outcome.ROI       `json:"roi,omitempty"`
}

// View is everything the dashboard renders.
type View struct {
	Analytics       Analytics                  `json:"analytics"`
	Performance     []Performance              `json:"performance"`
	Impact          []outcome.Impact           `json:"impact"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
	Active          *workflow.Workflow         `json:"active,omitempty"`
	NewOutcomes     int                        `json:"newOutcomes"`
}

// Workflows is the part of the workflow store the dashboard reads.
type Workflows interface {
	All(ctx context.Context) []*workflow.Workflow
	Active(ctx context.Context) (*workflow.Workflow, bool)
}

// Board builds dashboard views.
type Board struct {
	workflows Workflows
	outcomes  *outcome.Tracker
	engine    *recommend.Engine
	now       func() time.Time
}

// New returns a board. outcomes and engine may be nil.
func New(workflows Workflows, outcomes *outcome.Tracker, engine *recommend.Engine) *Board {
	return &Board{workflows: workflows, outcomes: outcomes, engine: engine, now: time.Now}
}

// WithClock sets the time source used for days active.
func (b *Board) WithClock(now func() time.Time) *Board {
	b.now = now
	return b
}

// Load reconciles missing outcomes, then assembles the full view.
func (b *Board) Load(ctx context.Context, limit int) View {
	var v View
	if b.outcomes != nil {
		v.NewOutcomes = len(b.outcomes.CheckAndTrack(ctx))
	}

	all := b.workflows.All(ctx)
	v.Analytics = Summarize(all)
	v.Performance = b.performance(ctx, all)
	v.Impact = []outcome.Impact{}
	if b.outcomes != nil {
		v.Impact = b.outcomes.AllImpactMetrics(ctx)
	}
	v.Recommendations = []recommend.Recommendation{}
	if b.engine != nil {
		v.Recommendations = b.engine.Recommendations(ctx, limit)
	}
	if active, ok := b.workflows.Active(ctx); ok {
		v.Active = active
	}
	return v
}

// Analytics summarises the stored workflows.
func (b *Board) Analytics(ctx context.Context) Analytics {
	return Summarize(b.workflows.All(ctx))
}

// Performance returns one row per stored workflow.
func (b *Board) Performance(ctx context.Context) []Performance {
	return b.performance(ctx, b.workflows.All(ctx))
}

func (b *Board) performance(ctx context.Context, all []*workflow.Workflow) []Performance {
	now := b.now()
	rows := make([]Performance, 0, len(all))
	for _, w := range all {
		row := Performance{
			WorkflowID: w.ID,
			Name:       w.Name,
			Category:   w.Category,
			Progress:   w.Progress,
			IsActive:   w.IsActive,
		}
		if w.StartedAt != nil {
			end := now
			if w.CompletedAt != nil {
				end = *w.CompletedAt
				days := wholeDays(end.Sub(*w.StartedAt))
				row.TimeToComplete = &days
			}
			row.DaysActive = wholeDays(end.Sub(*w.StartedAt))
		}
		if b.outcomes != nil && w.Completed() {
			if roi, ok := b.outcomes.CalculateROI(ctx, w.ID); ok {
				row.ROI = roi
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// Summarize computes analytics over all. Categories follow catalog order and
// only include categories with at least one workflow.
func Summarize(all []*workflow.Workflow) Analytics {
	a := Analytics{TotalWorkflows: len(all), Categories: []CategoryStats{}}
	if len(all) == 0 {
		return a
	}

	byCat := map[catalog.Category]*CategoryStats{}
	progress := map[catalog.Category]int{}
	total := 0
	for _, w := range all {
		if w.Completed() {
			a.CompletedWorkflows++
		} else if w.IsActive {
			a.ActiveWorkflows++
		}
		a.StepsCompleted += w.CountStatus(workflow.StatusCompleted)
		a.StepsSkipped += w.CountStatus(workflow.StatusSkipped)
		total += w.Progress

		cs, ok := byCat[w.Category]
		if !ok {
			cs = &CategoryStats{Category: w.Category}
			byCat[w.Category] = cs
		}
		cs.Total++
		if w.Completed() {
			cs.Completed++
		}
		progress[w.Category] += w.Progress
	}

	a.AverageProgress = roundDiv(total, len(all))
	a.CompletionRate = workflow.Progress(a.CompletedWorkflows, a.TotalWorkflows)

	seen := map[catalog.Category]bool{}
	for _, def := range catalog.Definitions() {
		cs, ok := byCat[def.Category]
		if !ok || seen[def.Category] {
			continue
		}
		seen[def.Category] = true
		cs.AverageProgress = roundDiv(progress[def.Category], cs.Total)
		a.Categories = append(a.Categories, *cs)
	}
	return a
}

func roundDiv(sum, n int) int {
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(n)))
}

func wholeDays(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}
