package resilience

import (
	"context"
	"errors"
	"time"
)

// TimeoutConfig configures the timeout guard.
type TimeoutConfig struct {
	// Timeout is the maximum duration for one operation.
	// Default: 30s
	Timeout time.Duration
}

// Timeout bounds an operation with a per-call deadline. When the deadline
// fires first the call returns ErrTimeout, even when the operation ignores
// its context; a straggler keeps running in its goroutine and its eventual
// result is discarded. Cancellation arriving from the caller's context is
// reported as ctx.Err(), never as ErrTimeout.
//
// ErrTimeout is retryable under DefaultRetryIf, so composing Timeout inside
// Retry (as Executor does) gives each attempt its own deadline.
type Timeout struct {
	config TimeoutConfig
}

// NewTimeout creates a new timeout guard.
func NewTimeout(config TimeoutConfig) *Timeout {
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	return &Timeout{config: config}
}

// Execute runs the operation under the configured deadline.
func (t *Timeout) Execute(ctx context.Context, op func(context.Context) error) error {
	tctx, cancel := context.WithTimeout(ctx, t.config.Timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- op(tctx)
	}()

	select {
	case err := <-done:
		// An operation that honors tctx surfaces the deadline as
		// context.DeadlineExceeded; report it uniformly as ErrTimeout
		// unless the caller's own context expired.
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return ErrTimeout
		}
		return err
	case <-tctx.Done():
		if err := ctx.Err(); err != nil {
			return err
		}
		return ErrTimeout
	}
}

// Config returns the timeout configuration.
func (t *Timeout) Config() TimeoutConfig {
	return t.config
}

// ExecuteWithTimeout is a convenience function to run one operation under a
// deadline without constructing a Timeout.
func ExecuteWithTimeout(ctx context.Context, timeout time.Duration, op func(context.Context) error) error {
	t := NewTimeout(TimeoutConfig{Timeout: timeout})
	return t.Execute(ctx, op)
}
