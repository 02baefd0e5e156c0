// Package wizard walks a user through the steps of one workflow.
//
// The controller only tracks a cursor. Step statuses change through the
// workflow store, and the wizard never decides that a workflow is complete.
package wizard

import (
	"context"
	"errors"
	"fmt"

	"github.com/xrsl/careerflow/pkg/catalog"
	clog "github.com/xrsl/careerflow/pkg/log"
	"github.com/xrsl/careerflow/pkg/workflow"
)

// ErrClosed is returned by transitions after the wizard has closed.
var ErrClosed = errors.New("wizard is closed")

// Navigator hands control to the feature behind a path.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Store is the part of the workflow store the wizard uses.
type Store interface {
	Get(ctx context.Context, id catalog.WorkflowID) (*workflow.Workflow, bool)
	Initialize(ctx context.Context, id catalog.WorkflowID) (*workflow.Workflow, error)
	UpdateStepStatus(ctx context.Context, id catalog.WorkflowID, stepID string, status workflow.StepStatus, patch *workflow.StepMetadata) *workflow.Workflow
	Context(ctx context.Context) workflow.Context
	SetContext(ctx context.Context, bag workflow.Context)
}

// Controller is a cursor over the steps of one workflow.
type Controller struct {
	store  Store
	nav    Navigator
	wf     *workflow.Workflow
	index  int
	closed bool
}

// Open loads the workflow, initializing it when absent, and positions the
// cursor on the first unresolved step (or the first step when all are
// resolved).
func Open(ctx context.Context, store Store, nav Navigator, id catalog.WorkflowID) (*Controller, error) {
	wf, ok := store.Get(ctx, id)
	if !ok {
		var err error
		if wf, err = store.Initialize(ctx, id); err != nil {
			return nil, fmt.Errorf("open wizard: %w", err)
		}
	}
	if len(wf.Steps) == 0 {
		return nil, fmt.Errorf("open wizard: workflow %s has no steps", id)
	}

	c := &Controller{store: store, nav: nav, wf: wf}
	if i := wf.NextStepIndex(); i >= 0 {
		c.index = i
	}
	clog.Debug("wizard opened", "workflow", id, "index", c.index)
	return c, nil
}

// Workflow returns the last known state of the workflow.
func (c *Controller) Workflow() *workflow.Workflow {
	return c.wf
}

// Index returns the cursor position.
func (c *Controller) Index() int {
	return c.index
}

// Current returns the step under the cursor.
func (c *Controller) Current() workflow.Step {
	return c.wf.Steps[c.index]
}

// Closed reports whether the wizard has finished.
func (c *Controller) Closed() bool {
	return c.closed
}

// Last reports whether the cursor is on the final step.
func (c *Controller) Last() bool {
	return c.index == len(c.wf.Steps)-1
}

// Next advances the cursor. On the last step it closes the wizard instead.
func (c *Controller) Next() error {
	if c.closed {
		return ErrClosed
	}
	if c.Last() {
		c.close("finished")
		return nil
	}
	c.index++
	return nil
}

// Previous moves the cursor back, stopping at the first step.
func (c *Controller) Previous() error {
	if c.closed {
		return ErrClosed
	}
	if c.index > 0 {
		c.index--
	}
	return nil
}

// Start marks the current step in progress, records it as the source in the
// context bag, navigates to it and closes.
func (c *Controller) Start(ctx context.Context) error {
	if c.closed {
		return ErrClosed
	}
	step := c.Current()
	c.apply(ctx, step.ID, workflow.StatusInProgress)

	bag := c.store.Context(ctx)
	bag[workflow.CtxSourceWorkflow] = string(c.wf.ID)
	bag[workflow.CtxSourceStep] = step.ID
	c.store.SetContext(ctx, bag)

	if c.nav != nil {
		c.nav.Navigate(step.Path)
	}
	c.close("started " + step.ID)
	return nil
}

// Skip marks the current step skipped and advances, closing after the last
// step.
func (c *Controller) Skip(ctx context.Context) error {
	if c.closed {
		return ErrClosed
	}
	c.apply(ctx, c.Current().ID, workflow.StatusSkipped)
	if c.Last() {
		c.close("skipped last step")
		return nil
	}
	c.index++
	return nil
}

// apply updates a step through the store. A store that rejects the update
// leaves the cached workflow unchanged.
func (c *Controller) apply(ctx context.Context, stepID string, status workflow.StepStatus) {
	if wf := c.store.UpdateStepStatus(ctx, c.wf.ID, stepID, status, nil); wf != nil {
		c.wf = wf
	}
}

func (c *Controller) close(reason string) {
	c.closed = true
	clog.Debug("wizard closed", "workflow", c.wf.ID, "reason", reason)
}
