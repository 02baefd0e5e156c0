package workflow

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"time"

	"github.com/xrsl/careerflow/pkg/catalog"
)

// StepStatus is the state of a single step.
type StepStatus string

const (
	StatusNotStarted StepStatus = "not-started"
	StatusInProgress StepStatus = "in-progress"
	StatusCompleted  StepStatus = "completed"
	StatusSkipped    StepStatus = "skipped"
)

// Valid reports whether s is a known status.
func (s StepStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted, StatusSkipped:
		return true
	}
	return false
}

// Resolved reports whether the step needs no further action.
func (s StepStatus) Resolved() bool {
	return s == StatusCompleted || s == StatusSkipped
}

// ParseStatus parses a status name.
func ParseStatus(s string) (StepStatus, error) {
	st := StepStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown step status %q (valid: not-started, in-progress, completed, skipped)", s)
	}
	return st, nil
}

// StepMetadata is a step's metadata. StartedAt is the one key careerflow
// itself maintains; Extra holds anything else callers attach. Both are
// serialized into a single flat JSON object.
type StepMetadata struct {
	StartedAt *time.Time
	Extra     map[string]any
}

// MetaStartedAt is the metadata key StartedAt is stored under.
const MetaStartedAt = "startedAt"

// IsZero reports whether the metadata carries nothing.
func (m StepMetadata) IsZero() bool {
	return m.StartedAt == nil && len(m.Extra) == 0
}

// Merge copies every field set in patch over m. The startedAt key is
// reserved for StartedAt and ignored in patch.Extra.
func (m *StepMetadata) Merge(patch StepMetadata) {
	if patch.StartedAt != nil {
		t := *patch.StartedAt
		m.StartedAt = &t
	}
	for k, v := range patch.Extra {
		if k == MetaStartedAt {
			continue
		}
		if m.Extra == nil {
			m.Extra = make(map[string]any, len(patch.Extra))
		}
		m.Extra[k] = v
	}
}

// MarshalJSON flattens StartedAt and Extra into one object. StartedAt wins
// over an Extra entry of the same name.
func (m StepMetadata) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m.Extra)+1)
	maps.Copy(out, m.Extra)
	if m.StartedAt != nil {
		out[MetaStartedAt] = m.StartedAt.UTC().Format(time.RFC3339Nano)
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a flat metadata object. A startedAt value that is not
// an RFC 3339 timestamp stays in Extra rather than failing the document.
func (m *StepMetadata) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = StepMetadata{}
	if s, ok := raw[MetaStartedAt].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			m.StartedAt = &t
			delete(raw, MetaStartedAt)
		}
	}
	if len(raw) > 0 {
		m.Extra = raw
	}
	return nil
}

// Step is one step of a workflow instance.
type Step struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Feature     string       `json:"feature"`
	Path        string       `json:"path"`
	Status      StepStatus   `json:"status"`
	CompletedAt *time.Time   `json:"completedAt,omitempty"`
	Metadata    StepMetadata `json:"metadata,omitzero"`
}

// Workflow is a user's instance of a catalog workflow.
type Workflow struct {
	ID          catalog.WorkflowID `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Category    catalog.Category   `json:"category"`
	Steps       []Step             `json:"steps"`
	StartedAt   *time.Time         `json:"startedAt,omitempty"`
	CompletedAt *time.Time         `json:"completedAt,omitempty"`
	Progress    int                `json:"progress"`
	IsActive    bool               `json:"isActive"`
}

// Progress returns round(100 * completed / total), or 0 for no steps.
func Progress(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// CountStatus returns how many steps have status st.
func (w *Workflow) CountStatus(st StepStatus) int {
	n := 0
	for _, s := range w.Steps {
		if s.Status == st {
			n++
		}
	}
	return n
}

// CompletedSteps returns the number of completed steps.
func (w *Workflow) CompletedSteps() int {
	return w.CountStatus(StatusCompleted)
}

// Step returns the step with the given id, or nil.
func (w *Workflow) Step(id string) *Step {
	for i := range w.Steps {
		if w.Steps[i].ID == id {
			return &w.Steps[i]
		}
	}
	return nil
}

// NextStepIndex returns the index of the first unresolved step, or -1.
func (w *Workflow) NextStepIndex() int {
	for i, s := range w.Steps {
		if !s.Status.Resolved() {
			return i
		}
	}
	return -1
}

// Completed reports whether the workflow has been stamped completed.
func (w *Workflow) Completed() bool {
	return w.CompletedAt != nil
}

// LastActivity returns the most recent step completion time, or nil.
func (w *Workflow) LastActivity() *time.Time {
	var last *time.Time
	for _, s := range w.Steps {
		if s.CompletedAt != nil && (last == nil || s.CompletedAt.After(*last)) {
			last = s.CompletedAt
		}
	}
	return last
}

func (w *Workflow) recomputeProgress() {
	w.Progress = Progress(w.CompletedSteps(), len(w.Steps))
}

// Clone returns a deep copy.
func (w *Workflow) Clone() *Workflow {
	c := *w
	c.Steps = make([]Step, len(w.Steps))
	for i, s := range w.Steps {
		s.CompletedAt = cloneTime(s.CompletedAt)
		s.Metadata.StartedAt = cloneTime(s.Metadata.StartedAt)
		s.Metadata.Extra = maps.Clone(s.Metadata.Extra)
		c.Steps[i] = s
	}
	c.StartedAt = cloneTime(w.StartedAt)
	c.CompletedAt = cloneTime(w.CompletedAt)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
