package workflow

import (
	"encoding/json"
	"strconv"
)

// Known context bag keys. Anything else is carried through untouched.
const (
	// CtxCareerGoal is the user's free-text career goal.
	CtxCareerGoal = "careerGoal"
	// CtxSourceWorkflow and CtxSourceStep record which step navigated away.
	CtxSourceWorkflow = "sourceWorkflow"
	CtxSourceStep     = "sourceStep"
	// Counters written by features and read by the outcome tracker.
	CtxCertificationsEarned  = "certificationsEarned"
	CtxSkillsImproved        = "skillsImproved"
	CtxImprovementIterations = "improvementIterations"
	CtxAverageMatchScore     = "averageMatchScore"
	CtxSalaryIncrease        = "salaryIncrease"
	CtxMarketReports         = "marketReports"
)

// Context is the auxiliary key-value bag passed between a workflow step and
// the feature it links to. Values round-trip through JSON, so numbers come
// back as float64; use the typed accessors.
type Context map[string]any

// String returns the value for key if it is a string.
func (c Context) String(key string) string {
	s, _ := c[key].(string)
	return s
}

// Float returns the numeric value for key. Numeric strings are accepted.
func (c Context) Float(key string) (float64, bool) {
	switch v := c[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}

// Int returns the numeric value for key truncated to an int.
func (c Context) Int(key string) (int, bool) {
	f, ok := c.Float(key)
	return int(f), ok
}
