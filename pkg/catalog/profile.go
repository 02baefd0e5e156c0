package catalog

// MetricsKind selects which outcome gatherer collects real-world results for
// a completed workflow.
type MetricsKind int

const (
	MetricsNone MetricsKind = iota
	MetricsJobApplications
	MetricsSkillDevelopment
	MetricsBrandBuilding
	MetricsInterviewPrep
	MetricsImprovementLoop
	MetricsMarketIntelligence
)

func (k MetricsKind) String() string {
	switch k {
	case MetricsJobApplications:
		return "job-applications"
	case MetricsSkillDevelopment:
		return "skill-development"
	case MetricsBrandBuilding:
		return "brand-building"
	case MetricsInterviewPrep:
		return "interview-prep"
	case MetricsImprovementLoop:
		return "improvement-loop"
	case MetricsMarketIntelligence:
		return "market-intelligence"
	default:
		return "none"
	}
}

// Signals are the user counts a profile's Boost heuristic looks at.
type Signals struct {
	Documents    int
	Applications int
	CoverLetters int
	// BrandScore is nil when the user never ran a brand audit.
	BrandScore *int
}

// Prerequisites are soft thresholds. Meeting one earns a bonus; missing a
// document or application minimum costs a penalty.
type Prerequisites struct {
	MinDocuments    int
	MinApplications int
	MinBrandScore   int
}

// Profile is the single per-workflow configuration record shared by the
// recommendation engine and the outcome tracker.
type Profile struct {
	Prerequisites Prerequisites
	// Dependencies are workflows this one builds on.
	Dependencies  []WorkflowID
	Tags          []string
	EstimatedTime string
	// BeginnerFriendly workflows are boosted for users with no documents
	// and no applications.
	BeginnerFriendly bool
	// EasyRestart workflows are boosted for users idle for over a week.
	EasyRestart bool
	// Boost applies workflow-specific heuristics; nil means none.
	Boost   func(Signals) int
	Metrics MetricsKind
}

// DefaultEstimatedTime is used when a profile has no estimate.
const DefaultEstimatedTime = "1-2 weeks"

// Estimate returns the estimated time label, falling back to the default.
func (p Profile) Estimate() string {
	if p.EstimatedTime == "" {
		return DefaultEstimatedTime
	}
	return p.EstimatedTime
}

// Adjust runs the Boost heuristic, returning 0 when there is none.
func (p Profile) Adjust(s Signals) int {
	if p.Boost == nil {
		return 0
	}
	return p.Boost(s)
}
