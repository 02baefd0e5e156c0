// Package localstore provides the key-value capability the workflow store,
// outcome tracker and job tracker persist through. Values are serialized
// JSON documents; each key is read and written as a whole.
package localstore

import (
	"context"
	"errors"
)

// Keys used by careerflow.
const (
	KeyWorkflows         = "workflows"
	KeyActiveWorkflow    = "activeWorkflow"
	KeyWorkflowContext   = "workflowContext"
	KeyOutcomes          = "outcomes"
	KeyJobs              = "jobs"
	KeyInterviewSessions = "interviewSessions"
)

// ErrClosed is returned by stores used after Close.
var ErrClosed = errors.New("store closed")

// Store is a whole-value key-value store.
type Store interface {
	// Get returns the value for key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set replaces the value for key.
	Set(ctx context.Context, key, value string) error
}
