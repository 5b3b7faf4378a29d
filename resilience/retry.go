package resilience

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/keelworks/keel/observe"
)

// RetryConfig configures the retry behavior.
type RetryConfig struct {
	// MaxRetries is the number of retries after the initial attempt,
	// so the total attempt count is MaxRetries+1. A negative value
	// disables retries entirely: the operation runs exactly once.
	// Default: 2
	MaxRetries int

	// InitialDelay is the delay before the first retry.
	// Default: 100ms
	InitialDelay time.Duration

	// MaxDelay caps the delay between retries.
	// Default: 30s
	MaxDelay time.Duration

	// Multiplier is the exponential backoff multiplier.
	// Default: 2.0
	Multiplier float64

	// Jitter scales each delay by a bounded random factor so that
	// independent callers do not retry in lockstep.
	Jitter bool

	// RetryIf determines whether an error should trigger a retry.
	// Default: DefaultRetryIf (everything except cancellation).
	RetryIf func(err error) bool

	// Logger receives a warning-level record per retry. Nil disables logging.
	Logger observe.Logger

	// OnRetry is called before each retry attempt.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// DefaultRetryIf retries every error except cancellation. Cancellation is
// a caller decision, not a transient fault, and is never retried.
func DefaultRetryIf(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// Retry executes operations with exponential backoff. A Retry carries no
// per-call state and may be shared by any number of goroutines; attempts
// within one Execute call run strictly sequentially.
type Retry struct {
	config RetryConfig
}

// NewRetry creates a new retry policy.
func NewRetry(config RetryConfig) *Retry {
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	} else if config.MaxRetries == 0 {
		config.MaxRetries = 2
	}
	if config.InitialDelay <= 0 {
		config.InitialDelay = 100 * time.Millisecond
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 30 * time.Second
	}
	if config.Multiplier <= 0 {
		config.Multiplier = 2.0
	}
	if config.RetryIf == nil {
		config.RetryIf = DefaultRetryIf
	}

	return &Retry{config: config}
}

// Execute runs the operation, retrying on failure up to MaxRetries times.
//
// The last error is returned unwrapped so callers can match on the original
// error kind. Cancellation aborts immediately, whether it arrives during an
// attempt or during an inter-attempt wait, and surfaces as ctx.Err().
func (r *Retry) Execute(ctx context.Context, op func(context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= r.config.MaxRetries+1; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := op(ctx)
		if err == nil {
			return nil
		}

		// Cancellation observed mid-attempt wins over the attempt's error.
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}

		lastErr = err

		if !r.config.RetryIf(err) {
			return err
		}

		if attempt > r.config.MaxRetries {
			break
		}

		delay := r.calculateDelay(attempt)

		if r.config.Logger != nil {
			r.config.Logger.Warn(ctx, "retrying after failure",
				observe.Field{Key: "attempt", Value: attempt},
				observe.Field{Key: "delay_ms", Value: float64(delay.Milliseconds())},
				observe.Field{Key: "error", Value: err.Error()},
			)
		}

		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}

// calculateDelay returns the delay after the given attempt (1-indexed):
// InitialDelay * Multiplier^(attempt-1), capped at MaxDelay.
func (r *Retry) calculateDelay(attempt int) time.Duration {
	multiplier := math.Pow(r.config.Multiplier, float64(attempt-1))
	delay := time.Duration(float64(r.config.InitialDelay) * multiplier)

	if delay > r.config.MaxDelay {
		delay = r.config.MaxDelay
	}

	if r.config.Jitter && delay >= 4 {
		// Up to 25% extra.
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		delay += time.Duration(rand.Int63n(int64(delay / 4)))
	}

	return delay
}

// Config returns the retry configuration.
func (r *Retry) Config() RetryConfig {
	return r.config
}

// RetryValue runs a value-returning operation under the given retry policy.
// On failure the zero value is returned together with the last error.
func RetryValue[T any](ctx context.Context, r *Retry, op func(context.Context) (T, error)) (T, error) {
	var result T
	err := r.Execute(ctx, func(ctx context.Context) error {
		v, err := op(ctx)
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
