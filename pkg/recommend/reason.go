package recommend

import (
	"fmt"
	"strings"

	"github.com/xrsl/careerflow/pkg/catalog"
)

var categoryReasons = map[catalog.Category]string{
	catalog.CategoryCareerHub:     "Keeps your job search moving forward.",
	catalog.CategoryBrandBuilding: "Raises your professional visibility.",
	catalog.CategoryUpskilling:    "Builds the skills employers are asking for.",
	catalog.CategoryDocuments:     "Keeps your documents consistent and current.",
}

// Reason explains a recommendation in one or more sentences.
func Reason(id catalog.WorkflowID, uc UserContext) string {
	p := catalog.ProfileOf(id)
	pre := p.Prerequisites
	var parts []string

	if uc.Documents < pre.MinDocuments {
		parts = append(parts, fmt.Sprintf("Create %s first to get the most out of it.", plural(pre.MinDocuments, "document")))
	}
	if uc.Applications < pre.MinApplications {
		parts = append(parts, fmt.Sprintf("Works best after %s.", plural(pre.MinApplications, "job application")))
	}
	if n := len(p.Dependencies); n > 0 && completedDependencies(p, uc) == n {
		parts = append(parts, "Builds on workflows you have already completed.")
	}
	if p.EasyRestart && uc.DaysSinceActivity > idleDays {
		parts = append(parts, "A quick way to get back on track after some time away.")
	}
	if goalMatches(id, uc.Goal) {
		parts = append(parts, "Matches your career goal.")
	}

	if len(parts) == 0 {
		def, err := catalog.Lookup(id)
		if err != nil {
			return ""
		}
		return categoryReasons[def.Category]
	}
	return strings.Join(parts, " ")
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
