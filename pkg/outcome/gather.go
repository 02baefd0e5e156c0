package outcome

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xrsl/careerflow/pkg/catalog"
	clog "github.com/xrsl/careerflow/pkg/log"
	"github.com/xrsl/careerflow/pkg/remote"
	"github.com/xrsl/careerflow/pkg/workflow"
)

var (
	errNoJobs   = errors.New("no job tracker configured")
	errNoRemote = errors.New("no remote source configured")
)

// brandAuditWindow is how many recent audits the brand delta looks at.
const brandAuditWindow = 10

// Metadata keys written by gatherers.
const (
	MetaPracticeSessions      = "practiceSessions"
	MetaImprovementIterations = "improvementIterations"
	MetaMarketReports         = "marketReports"
	MetaBrandAudits           = "brandAudits"
)

type gatherInput struct {
	workflow *workflow.Workflow
	// from is nil when the workflow has no recorded start.
	from *time.Time
	to   time.Time
	bag  workflow.Context
}

func (in gatherInput) within(t *time.Time) bool {
	if t == nil {
		return false
	}
	if in.from != nil && t.Before(*in.from) {
		return false
	}
	return !t.After(in.to)
}

type gatherer func(t *Tracker, ctx context.Context, in gatherInput) (Metrics, map[string]any, error)

var gatherers = map[catalog.MetricsKind]gatherer{
	catalog.MetricsJobApplications:    (*Tracker).gatherJobApplications,
	catalog.MetricsSkillDevelopment:   (*Tracker).gatherSkillDevelopment,
	catalog.MetricsBrandBuilding:      (*Tracker).gatherBrandBuilding,
	catalog.MetricsInterviewPrep:      (*Tracker).gatherInterviewPrep,
	catalog.MetricsImprovementLoop:    (*Tracker).gatherImprovementLoop,
	catalog.MetricsMarketIntelligence: (*Tracker).gatherMarketIntelligence,
}

// gather runs the gatherer for kind. Failures and panics degrade to no
// metrics.
func (t *Tracker) gather(ctx context.Context, kind catalog.MetricsKind, in gatherInput) (m Metrics, meta map[string]any) {
	g, ok := gatherers[kind]
	if !ok {
		return Metrics{}, nil
	}
	defer func() {
		if r := recover(); r != nil {
			clog.Warn("outcome gatherer panicked", "workflow", in.workflow.ID, "metrics", kind, "panic", r)
			m, meta = Metrics{}, nil
		}
	}()
	m, meta, err := g(t, ctx, in)
	if err != nil {
		clog.Warn("outcome metrics unavailable", "workflow", in.workflow.ID, "metrics", kind, "error", err)
		return Metrics{}, nil
	}
	return m, meta
}

func (t *Tracker) gatherJobApplications(ctx context.Context, in gatherInput) (Metrics, map[string]any, error) {
	if t.jobs == nil {
		if t.src == nil {
			return Metrics{}, nil, errNoJobs
		}
		n, err := t.src.CountApplications(ctx)
		if err != nil {
			return Metrics{}, nil, fmt.Errorf("count applications: %w", err)
		}
		return Metrics{ApplicationsSubmitted: &n}, nil, nil
	}

	list, err := t.jobs.List(ctx)
	if err != nil {
		return Metrics{}, nil, fmt.Errorf("list jobs: %w", err)
	}
	applied, interviews := 0, 0
	var scoreSum float64
	scored := 0
	for _, j := range list {
		if in.within(j.AppliedAt) {
			applied++
			if j.MatchScore != nil {
				scoreSum += *j.MatchScore
				scored++
			}
		}
		if in.within(j.InterviewAt) {
			interviews++
		}
	}
	m := Metrics{ApplicationsSubmitted: &applied, InterviewsScheduled: &interviews}
	if scored > 0 {
		avg := scoreSum / float64(scored)
		m.AverageMatchScore = &avg
	}
	return m, nil, nil
}

func (t *Tracker) gatherSkillDevelopment(ctx context.Context, in gatherInput) (Metrics, map[string]any, error) {
	if t.src == nil {
		return Metrics{}, nil, errNoRemote
	}
	skills, err := t.src.SkillWatchlist(ctx)
	if err != nil {
		return Metrics{}, nil, fmt.Errorf("skill watchlist: %w", err)
	}
	improved, certified := 0, 0
	for _, s := range skills {
		if s.Status == remote.SkillAcquired {
			improved++
		}
		if s.Certified {
			certified++
		}
	}
	if n, ok := in.bag.Int(workflow.CtxSkillsImproved); ok && n > improved {
		improved = n
	}
	if n, ok := in.bag.Int(workflow.CtxCertificationsEarned); ok {
		certified = n
	}
	return Metrics{SkillsImproved: &improved, CertificationsEarned: &certified}, nil, nil
}

func (t *Tracker) gatherBrandBuilding(ctx context.Context, _ gatherInput) (Metrics, map[string]any, error) {
	if t.src == nil {
		return Metrics{}, nil, errNoRemote
	}
	audits, err := t.src.RecentBrandAudits(ctx, brandAuditWindow)
	if err != nil {
		return Metrics{}, nil, fmt.Errorf("brand audits: %w", err)
	}
	content, err := t.src.CountContent(ctx)
	if err != nil {
		return Metrics{}, nil, fmt.Errorf("count content: %w", err)
	}

	m := Metrics{ContentCreated: &content}
	if len(audits) >= 2 {
		// newest first
		delta := audits[0].Score - audits[len(audits)-1].Score
		m.BrandScoreIncrease = &delta
	}
	return m, map[string]any{MetaBrandAudits: len(audits)}, nil
}

func (t *Tracker) gatherInterviewPrep(ctx context.Context, in gatherInput) (Metrics, map[string]any, error) {
	if t.jobs == nil {
		return Metrics{}, nil, errNoJobs
	}
	sessions, err := t.jobs.Sessions(ctx)
	if err != nil {
		return Metrics{}, nil, fmt.Errorf("list sessions: %w", err)
	}
	list, err := t.jobs.List(ctx)
	if err != nil {
		return Metrics{}, nil, fmt.Errorf("list jobs: %w", err)
	}

	practiced := 0
	for _, s := range sessions {
		if in.within(&s.CreatedAt) {
			practiced++
		}
	}
	interviews := 0
	for _, j := range list {
		if in.within(j.InterviewAt) {
			interviews++
		}
	}
	return Metrics{InterviewsScheduled: &interviews}, map[string]any{MetaPracticeSessions: practiced}, nil
}

func (t *Tracker) gatherImprovementLoop(_ context.Context, in gatherInput) (Metrics, map[string]any, error) {
	var m Metrics
	meta := map[string]any{}
	if v, ok := in.bag.Float(workflow.CtxAverageMatchScore); ok {
		m.AverageMatchScore = &v
	}
	if n, ok := in.bag.Int(workflow.CtxImprovementIterations); ok {
		meta[MetaImprovementIterations] = n
	}
	return m, nilIfEmpty(meta), nil
}

func (t *Tracker) gatherMarketIntelligence(_ context.Context, in gatherInput) (Metrics, map[string]any, error) {
	var m Metrics
	meta := map[string]any{}
	if v, ok := in.bag.Float(workflow.CtxSalaryIncrease); ok {
		m.SalaryIncrease = &v
	}
	if n, ok := in.bag.Int(workflow.CtxMarketReports); ok {
		meta[MetaMarketReports] = n
	}
	return m, nilIfEmpty(meta), nil
}

func nilIfEmpty(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	return m
}
