package outcome

import (
	"fmt"
	"strconv"

	"github.com/xrsl/careerflow/pkg/workflow"
)

func project(o Outcome) Impact {
	im := Impact{
		WorkflowID:     o.WorkflowID,
		WorkflowName:   o.WorkflowName,
		CompletedAt:    o.CompletedAt,
		DaysToComplete: o.TimeToComplete,
		StepsCompleted: o.StepsCompleted,
		TotalSteps:     o.TotalSteps,
		CompletionRate: workflow.Progress(o.StepsCompleted, o.TotalSteps),
		Highlights:     []Highlight{},
	}

	m := o.Metrics
	add := func(label string, v *int) {
		if v != nil {
			im.Highlights = append(im.Highlights, Highlight{Label: label, Value: strconv.Itoa(*v)})
		}
	}
	add("Applications submitted", m.ApplicationsSubmitted)
	add("Interviews scheduled", m.InterviewsScheduled)
	add("Skills improved", m.SkillsImproved)
	add("Certifications earned", m.CertificationsEarned)
	add("Content created", m.ContentCreated)
	if m.BrandScoreIncrease != nil {
		im.Highlights = append(im.Highlights, Highlight{Label: "Brand score increase", Value: fmt.Sprintf("%+d", *m.BrandScoreIncrease)})
	}
	if m.AverageMatchScore != nil {
		im.Highlights = append(im.Highlights, Highlight{Label: "Average match score", Value: fmt.Sprintf("%.0f%%", *m.AverageMatchScore)})
	}
	if m.SalaryIncrease != nil {
		im.Highlights = append(im.Highlights, Highlight{Label: "Estimated salary increase", Value: fmt.Sprintf("$%.0f", *m.SalaryIncrease)})
	}
	return im
}
