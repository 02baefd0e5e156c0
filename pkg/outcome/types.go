package outcome

import (
	"time"

	"github.com/xrsl/careerflow/pkg/catalog"
)

// Metrics are the real-world results attributed to a workflow. Absent
// metrics were not gathered for the workflow's category.
type Metrics struct {
	ApplicationsSubmitted *int     `json:"applicationsSubmitted,omitempty"`
	InterviewsScheduled   *int     `json:"interviewsScheduled,omitempty"`
	SkillsImproved        *int     `json:"skillsImproved,omitempty"`
	CertificationsEarned  *int     `json:"certificationsEarned,omitempty"`
	ContentCreated        *int     `json:"contentCreated,omitempty"`
	BrandScoreIncrease    *int     `json:"brandScoreIncrease,omitempty"`
	AverageMatchScore     *float64 `json:"averageMatchScore,omitempty"`
	SalaryIncrease        *float64 `json:"estimatedSalaryIncrease,omitempty"`
}

// IsZero reports whether no metric is present.
func (m Metrics) IsZero() bool {
	return m == Metrics{}
}

// Outcome is the snapshot recorded once per (workflow, completion) pair.
type Outcome struct {
	ID           string             `json:"id"`
	WorkflowID   catalog.WorkflowID `json:"workflowId"`
	WorkflowName string             `json:"workflowName"`
	CompletedAt  time.Time          `json:"completedAt"`
	Metrics      Metrics            `json:"metrics"`
	// TimeToComplete is in whole days.
	TimeToComplete int            `json:"timeToComplete"`
	StepsCompleted int            `json:"stepsCompleted"`
	TotalSteps     int            `json:"totalSteps"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// Highlight is one display line of an impact summary.
type Highlight struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Impact is the display projection of an outcome.
type Impact struct {
	WorkflowID     catalog.WorkflowID `json:"workflowId"`
	WorkflowName   string             `json:"workflowName"`
	CompletedAt    time.Time          `json:"completedAt"`
	DaysToComplete int                `json:"daysToComplete"`
	StepsCompleted int                `json:"stepsCompleted"`
	TotalSteps     int                `json:"totalSteps"`
	CompletionRate int                `json:"completionRate"`
	Highlights     []Highlight        `json:"highlights"`
}

// ROI is the synthetic value per time figure of an outcome.
type ROI struct {
	TimeInvested   int     `json:"timeInvested"`
	EstimatedValue float64 `json:"estimatedValue"`
	ROI            int     `json:"roi"`
}

// Dollar value per unit of each metric.
const (
	ValuePerApplication   = 50
	ValuePerInterview     = 200
	ValuePerSkill         = 1000
	ValuePerCertification = 500
	ValuePerBrandPoint    = 20
)
