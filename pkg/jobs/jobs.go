// Package jobs tracks job applications and interview practice sessions. Both
// collections live in the local store next to the workflow state, so the
// outcome tracker can attribute them to completed workflows.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xrsl/careerflow/pkg/localstore"
)

var (
	ErrNotFound  = errors.New("job not found")
	ErrAmbiguous = errors.New("job id is ambiguous")
	ErrInvalid   = errors.New("invalid job")
)

// Status is the stage of an application.
type Status string

const (
	StatusSaved        Status = "saved"
	StatusApplied      Status = "applied"
	StatusInterviewing Status = "interviewing"
	StatusOffer        Status = "offer"
	StatusRejected     Status = "rejected"
)

// Statuses lists every status in pipeline order.
func Statuses() []Status {
	return []Status{StatusSaved, StatusApplied, StatusInterviewing, StatusOffer, StatusRejected}
}

// ParseStatus validates s.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Statuses(), st) {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalid, s)
	}
	return st, nil
}

// Job is one tracked posting.
type Job struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company,omitempty"`
	URL         string     `json:"url,omitempty"`
	Status      Status     `json:"status"`
	MatchScore  *float64   `json:"matchScore,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	AppliedAt   *time.Time `json:"appliedAt,omitempty"`
	InterviewAt *time.Time `json:"interviewAt,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

// Session kinds.
const (
	SessionPractice = "practice"
	SessionMock     = "mock"
)

// Session is one interview practice session.
type Session struct {
	ID        string    `json:"id"`
	JobID     string    `json:"jobId,omitempty"`
	Kind      string    `json:"kind"`
	Score     *float64  `json:"score,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Tracker stores jobs and sessions.
type Tracker struct {
	kv  localstore.Store
	now func() time.Time
	mu  sync.Mutex
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// NewTracker returns a tracker over kv.
func NewTracker(kv localstore.Store, opts ...Option) *Tracker {
	t := &Tracker{kv: kv, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Add stores a new job. ID, CreatedAt and a missing status are filled in.
func (t *Tracker) Add(ctx context.Context, job Job) (Job, error) {
	if strings.TrimSpace(job.Title) == "" {
		return Job{}, fmt.Errorf("%w: title is required", ErrInvalid)
	}
	if job.Status == "" {
		job.Status = StatusSaved
	}
	if _, err := ParseStatus(string(job.Status)); err != nil {
		return Job{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	all, err := t.loadJobs(ctx)
	if err != nil {
		return Job{}, err
	}
	now := t.now().UTC()
	job.ID = uuid.NewString()
	job.CreatedAt = now
	stamp(&job, now)
	all = append(all, job)
	if err := t.save(ctx, localstore.KeyJobs, all); err != nil {
		return Job{}, err
	}
	return job, nil
}

// List returns every tracked job in insertion order.
func (t *Tracker) List(ctx context.Context) ([]Job, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loadJobs(ctx)
}

// Get finds a job by id or unique id prefix.
func (t *Tracker) Get(ctx context.Context, ref string) (Job, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	all, err := t.loadJobs(ctx)
	if err != nil {
		return Job{}, err
	}
	i, err := resolve(all, ref)
	if err != nil {
		return Job{}, err
	}
	return all[i], nil
}

// SetStatus moves a job to status. Applied and interviewing stamp their
// timestamps the first time they are reached.
func (t *Tracker) SetStatus(ctx context.Context, ref string, status Status) (Job, error) {
	if _, err := ParseStatus(string(status)); err != nil {
		return Job{}, err
	}
	return t.update(ctx, ref, func(j *Job) error {
		j.Status = status
		stamp(j, t.now().UTC())
		return nil
	})
}

// SetMatchScore records a 0-100 match score.
func (t *Tracker) SetMatchScore(ctx context.Context, ref string, score float64) (Job, error) {
	if score < 0 || score > 100 {
		return Job{}, fmt.Errorf("%w: match score %.1f out of range", ErrInvalid, score)
	}
	return t.update(ctx, ref, func(j *Job) error {
		j.MatchScore = &score
		return nil
	})
}

// AddSession records an interview practice session.
func (t *Tracker) AddSession(ctx context.Context, s Session) (Session, error) {
	if s.Kind == "" {
		s.Kind = SessionPractice
	}
	if s.Kind != SessionPractice && s.Kind != SessionMock {
		return Session{}, fmt.Errorf("%w: unknown session kind %q", ErrInvalid, s.Kind)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	var all []Session
	if err := t.load(ctx, localstore.KeyInterviewSessions, &all); err != nil {
		return Session{}, err
	}
	s.ID = uuid.NewString()
	s.CreatedAt = t.now().UTC()
	all = append(all, s)
	if err := t.save(ctx, localstore.KeyInterviewSessions, all); err != nil {
		return Session{}, err
	}
	return s, nil
}

// Sessions returns every recorded session.
func (t *Tracker) Sessions(ctx context.Context) ([]Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var all []Session
	if err := t.load(ctx, localstore.KeyInterviewSessions, &all); err != nil {
		return nil, err
	}
	return all, nil
}

func (t *Tracker) update(ctx context.Context, ref string, fn func(*Job) error) (Job, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	all, err := t.loadJobs(ctx)
	if err != nil {
		return Job{}, err
	}
	i, err := resolve(all, ref)
	if err != nil {
		return Job{}, err
	}
	if err := fn(&all[i]); err != nil {
		return Job{}, err
	}
	if err := t.save(ctx, localstore.KeyJobs, all); err != nil {
		return Job{}, err
	}
	return all[i], nil
}

func (t *Tracker) loadJobs(ctx context.Context) ([]Job, error) {
	var all []Job
	if err := t.load(ctx, localstore.KeyJobs, &all); err != nil {
		return nil, err
	}
	return all, nil
}

func (t *Tracker) load(ctx context.Context, key string, v any) error {
	raw, ok, err := t.kv.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (t *Tracker) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := t.kv.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func stamp(j *Job, now time.Time) {
	switch j.Status {
	case StatusApplied:
		if j.AppliedAt == nil {
			j.AppliedAt = &now
		}
	case StatusInterviewing:
		if j.AppliedAt == nil {
			j.AppliedAt = &now
		}
		if j.InterviewAt == nil {
			j.InterviewAt = &now
		}
	}
}

func resolve(all []Job, ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return -1, fmt.Errorf("%w: empty id", ErrNotFound)
	}
	found := -1
	for i, j := range all {
		if j.ID == ref {
			return i, nil
		}
		if strings.HasPrefix(j.ID, ref) {
			if found >= 0 {
				return -1, fmt.Errorf("%w: %s", ErrAmbiguous, ref)
			}
			found = i
		}
	}
	if found < 0 {
		return -1, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	return found, nil
}
