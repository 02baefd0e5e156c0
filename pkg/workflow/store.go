package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/xrsl/careerflow/pkg/catalog"
	"github.com/xrsl/careerflow/pkg/localstore"
	clog "github.com/xrsl/careerflow/pkg/log"
)

// ErrNotFound is returned by Initialize for ids outside the catalog.
var ErrNotFound = catalog.ErrNotFound

// CompletionHandler is called once when a workflow becomes completed.
// It runs on its own goroutine; a returned error is logged.
type CompletionHandler func(ctx context.Context, id catalog.WorkflowID) error

// StepHook observes every applied step update.
type StepHook func(id catalog.WorkflowID, stepID string, status StepStatus)

// Store owns workflow instances and their persisted form.
type Store struct {
	kv  localstore.Store
	now func() time.Time

	mu         sync.Mutex
	onComplete CompletionHandler
	onStep     StepHook

	pending sync.WaitGroup
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithCompletionHandler sets the handler fired on completion.
func WithCompletionHandler(h CompletionHandler) Option {
	return func(s *Store) {
		s.onComplete = h
	}
}

// WithStepHook sets a hook observing step updates. The hook runs with the
// store locked and must not call back into the store.
func WithStepHook(h StepHook) Option {
	return func(s *Store) {
		s.onStep = h
	}
}

// NewStore returns a store persisting through kv.
func NewStore(kv localstore.Store, opts ...Option) *Store {
	s := &Store{
		kv:  kv,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnComplete replaces the completion handler. It lets the composition root
// wire a handler that itself depends on the store.
func (s *Store) OnComplete(h CompletionHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onComplete = h
}

// Wait blocks until every in-flight completion handler has returned.
func (s *Store) Wait() {
	s.pending.Wait()
}

// Initialize creates a fresh instance of id, replacing any existing one, and
// makes it the active workflow.
func (s *Store) Initialize(ctx context.Context, id catalog.WorkflowID) (*Workflow, error) {
	def, err := catalog.Lookup(id)
	if err != nil {
		return nil, fmt.Errorf("initialize workflow: %w", err)
	}
	templates, err := catalog.Steps(id)
	if err != nil {
		return nil, fmt.Errorf("initialize workflow: %w", err)
	}

	now := s.now()
	wf := &Workflow{
		ID:          def.ID,
		Name:        def.Name,
		Description: def.Description,
		Category:    def.Category,
		Steps:       make([]Step, len(templates)),
		StartedAt:   &now,
		Progress:    0,
		IsActive:    true,
	}
	for i, t := range templates {
		wf.Steps[i] = Step{
			ID:      t.ID,
			Name:    t.Name,
			Feature: t.Feature,
			Path:    t.Path,
			Status:  StatusNotStarted,
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.load(ctx)
	replaced := false
	for i, existing := range all {
		if existing.ID == id {
			all[i] = wf
			replaced = true
			break
		}
	}
	if !replaced {
		all = append(all, wf)
	}
	s.save(ctx, all)
	s.writeJSON(ctx, localstore.KeyActiveWorkflow, id)

	clog.Debug("workflow initialized", "workflow", id, "steps", len(wf.Steps))
	return wf.Clone(), nil
}

// All returns every persisted instance. Read failures yield an empty list.
func (s *Store) All(ctx context.Context) []*Workflow {
	s.mu.Lock()
	defer s.mu.Unlock()
	if all := s.load(ctx); all != nil {
		return all
	}
	return []*Workflow{}
}

// Get returns the instance for id.
func (s *Store) Get(ctx context.Context, id catalog.WorkflowID) (*Workflow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return find(s.load(ctx), id)
}

// Active returns the most recently initialized instance, if it still exists.
func (s *Store) Active(ctx context.Context) (*Workflow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var id catalog.WorkflowID
	if !s.readJSON(ctx, localstore.KeyActiveWorkflow, &id) || id == "" {
		return nil, false
	}
	return find(s.load(ctx), id)
}

// NextStep returns the first step that is not-started or in-progress.
func (s *Store) NextStep(ctx context.Context, id catalog.WorkflowID) (*Step, bool) {
	wf, ok := s.Get(ctx, id)
	if !ok {
		return nil, false
	}
	i := wf.NextStepIndex()
	if i < 0 {
		return nil, false
	}
	step := wf.Steps[i]
	return &step, true
}

// UpdateStepStatus sets a step's status, merges patch into its metadata,
// recomputes progress and completes the workflow when progress reaches 100.
// Unknown workflows, unknown steps and invalid statuses are logged and
// ignored; the returned instance is nil in that case.
func (s *Store) UpdateStepStatus(ctx context.Context, id catalog.WorkflowID, stepID string, status StepStatus, patch *StepMetadata) *Workflow {
	if !status.Valid() {
		clog.Warn("ignoring step update with invalid status", "workflow", id, "step", stepID, "status", status)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.load(ctx)
	wf, ok := find(all, id)
	if !ok {
		clog.Warn("step update for unknown workflow", "workflow", id, "step", stepID)
		return nil
	}
	step := wf.Step(stepID)
	if step == nil {
		clog.Warn("step update for unknown step", "workflow", id, "step", stepID)
		return nil
	}

	now := s.now()
	step.Status = status
	switch status {
	case StatusCompleted:
		t := now
		step.CompletedAt = &t
	default:
		step.CompletedAt = nil
	}
	if status == StatusInProgress && step.Metadata.StartedAt == nil {
		t := now
		step.Metadata.StartedAt = &t
	}
	if patch != nil {
		step.Metadata.Merge(*patch)
	}

	wf.recomputeProgress()
	justCompleted := false
	if wf.Progress == 100 && wf.CompletedAt == nil {
		t := now
		wf.CompletedAt = &t
		wf.IsActive = false
		justCompleted = true
	}

	s.save(ctx, all)

	if s.onStep != nil {
		s.onStep(id, stepID, status)
	}
	if justCompleted {
		clog.Info("workflow completed", "workflow", id)
		s.fireCompleted(ctx, id)
	}
	return wf.Clone()
}

// Complete force-completes id regardless of step states. A workflow that is
// already completed keeps its original completion time and does not fire the
// handler again.
func (s *Store) Complete(ctx context.Context, id catalog.WorkflowID) (*Workflow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.load(ctx)
	wf, ok := find(all, id)
	if !ok {
		clog.Warn("complete for unknown workflow", "workflow", id)
		return nil, false
	}

	first := wf.CompletedAt == nil
	if first {
		now := s.now()
		wf.CompletedAt = &now
	}
	wf.IsActive = false
	wf.Progress = 100

	s.save(ctx, all)
	if first {
		s.fireCompleted(ctx, id)
	}
	return wf.Clone(), true
}

// Context returns the context bag; absent or unreadable bags are empty.
func (s *Store) Context(ctx context.Context) Context {
	s.mu.Lock()
	defer s.mu.Unlock()

	var bag Context
	if !s.readJSON(ctx, localstore.KeyWorkflowContext, &bag) || bag == nil {
		return Context{}
	}
	return bag
}

// SetContext replaces the context bag.
func (s *Store) SetContext(ctx context.Context, bag Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if bag == nil {
		bag = Context{}
	}
	s.writeJSON(ctx, localstore.KeyWorkflowContext, bag)
}

// ClearContext empties the context bag.
func (s *Store) ClearContext(ctx context.Context) {
	s.SetContext(ctx, Context{})
}

// fireCompleted must be called with s.mu held.
func (s *Store) fireCompleted(ctx context.Context, id catalog.WorkflowID) {
	h := s.onComplete
	if h == nil {
		return
	}
	hctx := context.WithoutCancel(ctx)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		defer func() {
			if r := recover(); r != nil {
				clog.Error("completion handler panicked", "workflow", id, "panic", r)
			}
		}()
		if err := h(hctx, id); err != nil {
			clog.Warn("completion handler failed", "workflow", id, "error", err)
		}
	}()
}

func (s *Store) load(ctx context.Context) []*Workflow {
	var all []*Workflow
	if !s.readJSON(ctx, localstore.KeyWorkflows, &all) {
		return nil
	}
	return all
}

func (s *Store) save(ctx context.Context, all []*Workflow) {
	if all == nil {
		all = []*Workflow{}
	}
	s.writeJSON(ctx, localstore.KeyWorkflows, all)
}

// readJSON decodes key into v. It reports false when the key is absent or
// cannot be read; failures are logged, never returned.
func (s *Store) readJSON(ctx context.Context, key string, v any) bool {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		clog.Warn("failed to read local store", "key", key, "error", err)
		return false
	}
	if !ok || raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		clog.Warn("failed to decode local store value", "key", key, "error", err)
		return false
	}
	return true
}

func (s *Store) writeJSON(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		clog.Warn("failed to encode local store value", "key", key, "error", err)
		return
	}
	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		if errors.Is(err, localstore.ErrClosed) {
			clog.Error("local store closed, change not persisted", "key", key)
			return
		}
		clog.Warn("failed to write local store", "key", key, "error", err)
	}
}

func find(all []*Workflow, id catalog.WorkflowID) (*Workflow, bool) {
	for _, wf := range all {
		if wf != nil && wf.ID == id {
			return wf, true
		}
	}
	return nil, false
}
