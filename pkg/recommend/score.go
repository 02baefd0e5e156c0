package recommend

import (
	"math"
	"slices"
	"strings"

	"github.com/xrsl/careerflow/pkg/catalog"
)

const (
	baseScore      = 10
	activeScore    = 5
	idleDays       = 7
	dependencyMax  = 20
	beginnerBonus  = 20
	readyBonus     = 10
	goalBonus      = 15
	restartBonus   = 10
	docsBonus      = 15
	appsBonus      = 15
	brandBonus     = 10
	docsPenalty    = 15
	appsPenalty    = 10
	minUpskillApps = 5
)

var goalKeywords = []struct {
	words []string
	ids   []catalog.WorkflowID
}{
	{[]string{"job", "career", "position"}, []catalog.WorkflowID{catalog.JobApplicationPipeline, catalog.InterviewPrep}},
	{[]string{"brand", "visibility", "network"}, []catalog.WorkflowID{catalog.BrandBuilding}},
	{[]string{"skill", "learn", "grow"}, []catalog.WorkflowID{catalog.SkillDevelopment}},
}

// Score rates how strongly id should be suggested, in [0, 100].
func Score(id catalog.WorkflowID, uc UserContext) int {
	if slices.Contains(uc.Completed, id) {
		return 0
	}
	if slices.Contains(uc.Active, id) {
		return activeScore
	}

	def, err := catalog.Lookup(id)
	if err != nil {
		return 0
	}
	p := catalog.ProfileOf(id)
	pre := p.Prerequisites
	score := baseScore

	if pre.MinDocuments > 0 && uc.Documents >= pre.MinDocuments {
		score += docsBonus
	}
	if pre.MinApplications > 0 && uc.Applications >= pre.MinApplications {
		score += appsBonus
	}
	if pre.MinBrandScore > 0 && uc.BrandScore != nil && *uc.BrandScore >= pre.MinBrandScore {
		score += brandBonus
	}

	if n := len(p.Dependencies); n > 0 {
		done := completedDependencies(p, uc)
		score += int(math.Round(dependencyMax * float64(done) / float64(n)))
	}

	if p.BeginnerFriendly && uc.Documents == 0 && uc.Applications == 0 {
		score += beginnerBonus
	}
	if readyFor(def.Category, uc) {
		score += readyBonus
	}
	if goalMatches(id, uc.Goal) {
		score += goalBonus
	}
	if p.EasyRestart && uc.DaysSinceActivity > idleDays {
		score += restartBonus
	}

	score += p.Adjust(uc.signals())

	if uc.Documents < pre.MinDocuments {
		score -= docsPenalty
	}
	if uc.Applications < pre.MinApplications {
		score -= appsPenalty
	}

	return min(100, max(0, score))
}

func completedDependencies(p catalog.Profile, uc UserContext) int {
	done := 0
	for _, dep := range p.Dependencies {
		if slices.Contains(uc.Completed, dep) {
			done++
		}
	}
	return done
}

func readyFor(c catalog.Category, uc UserContext) bool {
	switch c {
	case catalog.CategoryCareerHub:
		return uc.Documents >= 1
	case catalog.CategoryBrandBuilding:
		return uc.Documents >= 1 && uc.Applications >= 1
	case catalog.CategoryUpskilling:
		return uc.Applications >= minUpskillApps
	}
	return false
}

func goalMatches(id catalog.WorkflowID, goal string) bool {
	if goal == "" {
		return false
	}
	goal = strings.ToLower(goal)
	for _, g := range goalKeywords {
		if !slices.Contains(g.ids, id) {
			continue
		}
		for _, w := range g.words {
			if strings.Contains(goal, w) {
				return true
			}
		}
	}
	return false
}
