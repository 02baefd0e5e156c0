package recommend

import (
	"context"
	"errors"
	"io"
	"os"
	"slices"
	"testing"
	"time"

	"github.com/xrsl/careerflow/pkg/catalog"
	"github.com/xrsl/careerflow/pkg/localstore"
	clog "github.com/xrsl/careerflow/pkg/log"
	"github.com/xrsl/careerflow/pkg/remote"
	"github.com/xrsl/careerflow/pkg/workflow"
)

func TestMain(m *testing.M) {
	clog.SetOutput(io.Discard)
	os.Exit(m.Run())
}

var base = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func intPtr(n int) *int { return &n }

func TestFreshStart(t *testing.T) {
	store := workflow.NewStore(localstore.NewMemory(), workflow.WithClock(func() time.Time { return base }))
	e := NewEngine(&remote.Static{}, store, WithClock(func() time.Time { return base }))

	recs := e.Recommendations(context.Background(), 3)
	if len(recs) != 3 {
		t.Fatalf("got %d recommendations, want 3", len(recs))
	}

	want := []struct {
		id    catalog.WorkflowID
		score int
	}{
		{catalog.JobApplicationPipeline, 70},
		{catalog.MarketIntelligence, 40},
		{catalog.SkillDevelopment, 40},
	}
	for i, w := range want {
		if recs[i].WorkflowID != w.id || recs[i].Score != w.score {
			t.Errorf("recs[%d] = %s/%d, want %s/%d", i, recs[i].WorkflowID, recs[i].Score, w.id, w.score)
		}
	}
	if recs[0].Priority != PriorityHigh {
		t.Errorf("top priority = %s, want high", recs[0].Priority)
	}
	if recs[0].Path != "/editor" {
		t.Errorf("top path = %q, want /editor", recs[0].Path)
	}
	if recs[0].EstimatedTime != "1-2 weeks" {
		t.Errorf("estimated time = %q", recs[0].EstimatedTime)
	}
}

func TestFreshStartScores(t *testing.T) {
	uc := DefaultUserContext()
	tests := []struct {
		id   catalog.WorkflowID
		want int
	}{
		{catalog.JobApplicationPipeline, 70},
		{catalog.InterviewPrep, 0},
		{catalog.MarketIntelligence, 40},
		{catalog.SkillDevelopment, 40},
		{catalog.ImprovementLoop, 0},
		{catalog.BrandBuilding, 0},
		{catalog.DocumentConsistency, 5},
	}
	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			if got := Score(tt.id, uc); got != tt.want {
				t.Errorf("Score = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExperiencedUserScores(t *testing.T) {
	uc := UserContext{
		Documents:         2,
		Applications:      4,
		CoverLetters:      1,
		BrandScore:        intPtr(45),
		Completed:         []catalog.WorkflowID{catalog.JobApplicationPipeline},
		DaysSinceActivity: 2,
		Goal:              "Grow my brand visibility",
	}

	tests := []struct {
		id   catalog.WorkflowID
		want int
	}{
		// base 10, applications met 15, dependency 20, ready 10, boost 20
		{catalog.InterviewPrep, 75},
		// base 10, documents met 15, brand met 10, ready 10, goal 15, boost 15
		{catalog.BrandBuilding, 75},
		// base 10, goal 15
		{catalog.SkillDevelopment, 25},
		{catalog.JobApplicationPipeline, 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			if got := Score(tt.id, uc); got != tt.want {
				t.Errorf("Score = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScoreCompletedAndActive(t *testing.T) {
	uc := UserContext{
		Documents:    5,
		Applications: 20,
		Completed:    []catalog.WorkflowID{catalog.ImprovementLoop},
		Active:       []catalog.WorkflowID{catalog.InterviewPrep},
	}
	if got := Score(catalog.ImprovementLoop, uc); got != 0 {
		t.Errorf("completed score = %d, want 0", got)
	}
	if got := Score(catalog.InterviewPrep, uc); got != 5 {
		t.Errorf("active score = %d, want 5", got)
	}
	if got := Score("not-a-real-workflow", uc); got != 0 {
		t.Errorf("unknown score = %d, want 0", got)
	}
}

func TestScoreBounds(t *testing.T) {
	counts := []int{0, 1, 3, 5, 10, 50}
	brands := []*int{nil, intPtr(0), intPtr(40), intPtr(99)}
	goals := []string{"", "job career position brand visibility network skill learn grow"}
	idles := []int{0, 8, IdleSentinel}

	for _, id := range catalog.IDs() {
		for _, docs := range counts {
			for _, apps := range counts {
				for _, brand := range brands {
					for _, goal := range goals {
						for _, idle := range idles {
							uc := UserContext{
								Documents:         docs,
								Applications:      apps,
								CoverLetters:      docs,
								BrandScore:        brand,
								Goal:              goal,
								DaysSinceActivity: idle,
								Completed:         []catalog.WorkflowID{catalog.JobApplicationPipeline},
							}
							got := Score(id, uc)
							if got < 0 || got > 100 {
								t.Fatalf("Score(%s, %+v) = %d out of range", id, uc, got)
							}
						}
					}
				}
			}
		}
	}
}

func TestRecommendationsOrdering(t *testing.T) {
	src := &remote.Static{Resumes: 2, Applications: 6, CoverLetters: 1, BrandAudits: []remote.BrandAudit{{Score: 30}}}
	e := NewEngine(src, nil, WithGoal("learn new skills"))

	all := e.Recommendations(context.Background(), 100)
	if len(all) > len(catalog.IDs()) {
		t.Fatalf("got %d recommendations for %d workflows", len(all), len(catalog.IDs()))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Score > all[i-1].Score {
			t.Errorf("not sorted at %d: %d > %d", i, all[i].Score, all[i-1].Score)
		}
	}
	for _, r := range all {
		if r.Score <= 0 {
			t.Errorf("%s has non-positive score %d", r.WorkflowID, r.Score)
		}
		if r.Priority != PriorityFor(r.Score) {
			t.Errorf("%s priority %s does not match score %d", r.WorkflowID, r.Priority, r.Score)
		}
	}

	two := e.Recommendations(context.Background(), 2)
	if len(two) != 2 {
		t.Fatalf("got %d, want 2", len(two))
	}
	if two[0].WorkflowID != all[0].WorkflowID || two[1].WorkflowID != all[1].WorkflowID {
		t.Error("truncated list must be a prefix of the full ranking")
	}

	if got := e.Recommendations(context.Background(), 0); len(got) != 0 {
		t.Errorf("limit 0 returned %d", len(got))
	}
}

func TestBuildUserContext(t *testing.T) {
	ctx := context.Background()
	now := base
	store := workflow.NewStore(localstore.NewMemory(), workflow.WithClock(func() time.Time { return now }))

	if _, err := store.Initialize(ctx, catalog.DocumentConsistency); err != nil {
		t.Fatal(err)
	}
	store.UpdateStepStatus(ctx, catalog.DocumentConsistency, "review-resume", workflow.StatusCompleted, nil)
	if _, err := store.Initialize(ctx, catalog.MarketIntelligence); err != nil {
		t.Fatal(err)
	}
	store.Complete(ctx, catalog.MarketIntelligence)
	store.Wait()

	src := &remote.Static{
		Resumes:      3,
		Applications: 7,
		CoverLetters: 2,
		BrandAudits:  []remote.BrandAudit{{Score: 61}, {Score: 40}},
	}
	e := NewEngine(src, store,
		WithGoal("configured goal"),
		WithClock(func() time.Time { return base.Add(10*24*time.Hour + 5*time.Hour) }),
	)

	uc := e.BuildUserContext(ctx)
	if uc.Documents != 3 || uc.Applications != 7 || uc.CoverLetters != 2 {
		t.Errorf("counts = %d/%d/%d", uc.Documents, uc.Applications, uc.CoverLetters)
	}
	if uc.BrandScore == nil || *uc.BrandScore != 61 {
		t.Errorf("brand score = %v, want 61", uc.BrandScore)
	}
	if !slices.Equal(uc.Completed, []catalog.WorkflowID{catalog.MarketIntelligence}) {
		t.Errorf("completed = %v", uc.Completed)
	}
	if !slices.Equal(uc.Active, []catalog.WorkflowID{catalog.DocumentConsistency}) {
		t.Errorf("active = %v", uc.Active)
	}
	if uc.DaysSinceActivity != 10 {
		t.Errorf("idle days = %d, want 10", uc.DaysSinceActivity)
	}
	if uc.Goal != "configured goal" {
		t.Errorf("goal = %q, want configured fallback", uc.Goal)
	}

	store.SetContext(ctx, workflow.Context{workflow.CtxCareerGoal: "land a staff position"})
	if got := e.BuildUserContext(ctx).Goal; got != "land a staff position" {
		t.Errorf("goal = %q, want context bag value", got)
	}
}

func TestBuildUserContextDegrades(t *testing.T) {
	boom := errors.New("backend down")
	src := &remote.Static{
		Resumes:      4,
		Applications: 2,
		BrandAudits:  []remote.BrandAudit{{Score: 70}},
		Errors: map[string]error{
			remote.MethodCountResumes:      boom,
			remote.MethodRecentBrandAudits: boom,
		},
	}
	e := NewEngine(src, nil)

	uc := e.BuildUserContext(context.Background())
	if uc.Documents != 0 {
		t.Errorf("documents = %d, want 0 on failure", uc.Documents)
	}
	if uc.Applications != 2 {
		t.Errorf("applications = %d, want 2", uc.Applications)
	}
	if uc.BrandScore != nil {
		t.Errorf("brand score = %d, want nil on failure", *uc.BrandScore)
	}
	if uc.DaysSinceActivity != IdleSentinel {
		t.Errorf("idle days = %d, want sentinel", uc.DaysSinceActivity)
	}
}

func TestPriorityFor(t *testing.T) {
	tests := []struct {
		score int
		want  Priority
	}{
		{100, PriorityHigh},
		{60, PriorityHigh},
		{59, PriorityMedium},
		{35, PriorityMedium},
		{34, PriorityLow},
		{1, PriorityLow},
	}
	for _, tt := range tests {
		if got := PriorityFor(tt.score); got != tt.want {
			t.Errorf("PriorityFor(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestReason(t *testing.T) {
	fresh := DefaultUserContext()
	tests := []struct {
		name string
		id   catalog.WorkflowID
		uc   UserContext
		want string
	}{
		{
			name: "category fallback",
			id:   catalog.JobApplicationPipeline,
			uc:   fresh,
			want: "Keeps your job search moving forward.",
		},
		{
			name: "prerequisites unmet",
			id:   catalog.ImprovementLoop,
			uc:   fresh,
			want: "Create 1 document first to get the most out of it. Works best after 3 job applications.",
		},
		{
			name: "inactivity",
			id:   catalog.MarketIntelligence,
			uc:   fresh,
			want: "A quick way to get back on track after some time away.",
		},
		{
			name: "dependencies and goal",
			id:   catalog.InterviewPrep,
			uc: UserContext{
				Applications: 2,
				Completed:    []catalog.WorkflowID{catalog.JobApplicationPipeline},
				Goal:         "Senior position in fintech",
			},
			want: "Builds on workflows you have already completed. Matches your career goal.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Reason(tt.id, tt.uc); got != tt.want {
				t.Errorf("Reason = %q\nwant %q", got, tt.want)
			}
		})
	}
}
