// Package catalog is the static registry of career workflows: their
// definitions, ordered step templates, and the per-workflow profile used by
// recommendation scoring and outcome tracking.
//
// The catalog is keyed by the closed WorkflowID enum. Changing step templates
// is a content change: persisted workflow instances keep their old step ids,
// which simply stop matching any template.
package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a workflow id is not part of the catalog.
var ErrNotFound = errors.New("workflow not found")

// WorkflowID identifies a catalog workflow.
type WorkflowID string

const (
	JobApplicationPipeline WorkflowID = "job-application-pipeline"
	InterviewPrep          WorkflowID = "interview-prep"
	MarketIntelligence     WorkflowID = "market-intelligence"
	SkillDevelopment       WorkflowID = "skill-development"
	ImprovementLoop        WorkflowID = "improvement-loop"
	BrandBuilding          WorkflowID = "brand-building"
	DocumentConsistency    WorkflowID = "document-consistency"
)

// Category groups workflows for display and scoring.
type Category string

const (
	CategoryCareerHub     Category = "Career Hub"
	CategoryBrandBuilding Category = "Brand Building"
	CategoryUpskilling    Category = "Upskilling"
	CategoryDocuments     Category = "Document Management"
)

// Definition is the immutable description of a workflow.
type Definition struct {
	ID          WorkflowID `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description" yaml:"description"`
	Category    Category   `json:"category" yaml:"category"`
}

// StepTemplate describes one step of a workflow and the product feature it
// links to.
type StepTemplate struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Feature string `json:"feature" yaml:"feature"`
	Path    string `json:"path" yaml:"path"`
}

type entry struct {
	def     Definition
	steps   []StepTemplate
	profile Profile
}

// order is the canonical catalog order; ties in ranking fall back to it.
var order = []WorkflowID{
	JobApplicationPipeline,
	InterviewPrep,
	MarketIntelligence,
	SkillDevelopment,
	ImprovementLoop,
	BrandBuilding,
	DocumentConsistency,
}

// IDs returns every workflow id in catalog order.
func IDs() []WorkflowID {
	ids := make([]WorkflowID, len(order))
	copy(ids, order)
	return ids
}

// ParseID converts a string to a WorkflowID, failing for ids outside the catalog.
func ParseID(s string) (WorkflowID, error) {
	id := WorkflowID(s)
	if _, ok := entries[id]; !ok {
		return "", fmt.Errorf("%w: %q", ErrNotFound, s)
	}
	return id, nil
}

// Valid reports whether id is part of the catalog.
func (id WorkflowID) Valid() bool {
	_, ok := entries[id]
	return ok
}

func (id WorkflowID) String() string {
	return string(id)
}

// Lookup returns the definition for id.
func Lookup(id WorkflowID) (Definition, error) {
	e, ok := entries[id]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return e.def, nil
}

// Definitions returns every definition in catalog order.
func Definitions() []Definition {
	defs := make([]Definition, 0, len(order))
	for _, id := range order {
		defs = append(defs, entries[id].def)
	}
	return defs
}

// Steps returns a copy of the ordered step templates for id.
func Steps(id WorkflowID) ([]StepTemplate, error) {
	e, ok := entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	steps := make([]StepTemplate, len(e.steps))
	copy(steps, e.steps)
	return steps, nil
}

// ProfileOf returns the scoring and tracking profile for id.
// Unknown ids get the zero profile.
func ProfileOf(id WorkflowID) Profile {
	return entries[id].profile
}
