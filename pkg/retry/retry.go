// Package retry repeats calls to services careerflow does not control on a
// capped exponential schedule, and paces them with a token bucket.
package retry

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	clog "github.com/xrsl/careerflow/pkg/log"
)

// Backoff is a retry schedule.
type Backoff struct {
	Attempts int           // total calls, the first included
	Initial  time.Duration // wait before the first retry
	Max      time.Duration // cap on any single wait
	Jitter   float64       // fraction of each wait randomised either way
}

// Remote is the schedule for product database and gh queries. It gives up
// quickly because every caller treats a failed query as zero.
var Remote = Backoff{Attempts: 3, Initial: 50 * time.Millisecond, Max: time.Second, Jitter: 0.2}

// Rewrite is the schedule for text rewrite calls to AI providers.
var Rewrite = Backoff{Attempts: 4, Initial: time.Second, Max: 30 * time.Second, Jitter: 0.1}

// Delay returns the wait before retry n, counting from zero: Initial doubled
// n times and capped at Max, without jitter.
func (b Backoff) Delay(n int) time.Duration {
	d := b.Initial
	for range n {
		if d >= b.Max/2 {
			return b.Max
		}
		d *= 2
	}
	return min(d, b.Max)
}

func (b Backoff) wait(n int) time.Duration {
	d := b.Delay(n)
	if b.Jitter <= 0 || d <= 0 {
		return d
	}
	spread := float64(d) * b.Jitter
	return d + time.Duration(spread*(2*rand.Float64()-1))
}

// TransientError marks a failure that may succeed when repeated, such as a
// dropped connection or a rate limit.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return e.Err.Error() }

func (e *TransientError) Unwrap() error { return e.Err }

// Transient marks err as worth repeating. Transient(nil) is nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// IsTransient reports whether err carries the transient mark.
func IsTransient(err error) bool {
	var t *TransientError
	return errors.As(err, &t)
}

// Do calls fn until it succeeds, fails permanently, ctx ends or the attempts
// run out. The returned error never carries the transient mark, so callers
// see the underlying failure.
func Do[T any](ctx context.Context, b Backoff, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	attempts := max(b.Attempts, 1)

	var err error
	for n := range attempts {
		var v T
		if v, err = fn(ctx); err == nil {
			return v, nil
		}
		if !IsTransient(err) || n == attempts-1 {
			break
		}

		d := b.wait(n)
		clog.Debug("transient failure, retrying", "attempt", n+1, "of", attempts, "wait", d, "error", err)
		timer := time.NewTimer(d)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	var t *TransientError
	if errors.As(err, &t) {
		return zero, t.Err
	}
	return zero, err
}
