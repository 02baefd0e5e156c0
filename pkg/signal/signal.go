// Package signal cancels command contexts on SIGINT and SIGTERM.
package signal

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	clog "github.com/xrsl/careerflow/pkg/log"
)

// WithInterrupt returns a context that is cancelled when an interrupt signal
// (SIGINT or SIGTERM) is received. Callers must call the returned cancel
// function to release the signal subscription.
func WithInterrupt(parent context.Context) (context.Context, context.CancelFunc) {
	return watch(parent, os.Interrupt, syscall.SIGTERM)
}

func watch(parent context.Context, sigs ...os.Signal) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, sigs...)

	go func() {
		defer signal.Stop(sigCh)
		select {
		case sig := <-sigCh:
			clog.Debug("received signal", "signal", sig)
			cancel(&Interrupted{Signal: sig})
		case <-ctx.Done():
		}
	}()

	return ctx, func() { cancel(context.Canceled) }
}

// Interrupted is the cancellation cause recorded when a signal arrives.
type Interrupted struct {
	Signal os.Signal
}

func (e *Interrupted) Error() string {
	return "interrupted by " + e.Signal.String()
}

// NotifyContext is WithInterrupt over context.Background.
func NotifyContext() (context.Context, context.CancelFunc) {
	return WithInterrupt(context.Background())
}
