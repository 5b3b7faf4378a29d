package resilience

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"
)

// Executor composes multiple resilience patterns around one operation.
type Executor struct {
	circuitBreaker *CircuitBreaker
	retry          *Retry
	rateLimiter    *RateLimiter
	sem            *semaphore.Weighted
	timeout        *Timeout
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// NewExecutor creates a new resilience executor.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithCircuitBreaker adds a circuit breaker to the executor.
func WithCircuitBreaker(cb *CircuitBreaker) ExecutorOption {
	return func(e *Executor) {
		e.circuitBreaker = cb
	}
}

// WithRetry adds retry logic to the executor.
func WithRetry(r *Retry) ExecutorOption {
	return func(e *Executor) {
		e.retry = r
	}
}

// WithRateLimiter adds rate limiting to the executor.
func WithRateLimiter(rl *RateLimiter) ExecutorOption {
	return func(e *Executor) {
		e.rateLimiter = rl
	}
}

// WithMaxConcurrent caps the number of calls executing simultaneously
// through this executor.
func WithMaxConcurrent(n int) ExecutorOption {
	return func(e *Executor) {
		if n > 0 {
			e.sem = semaphore.NewWeighted(int64(n))
		}
	}
}

// WithTimeout bounds each call (each individual attempt, when combined with
// retry) through a Timeout guard. A timed-out attempt fails with ErrTimeout,
// which the default retry predicate treats as retryable, so retry + timeout
// composes into per-attempt deadlines.
func WithTimeout(timeout time.Duration) ExecutorOption {
	return func(e *Executor) {
		if timeout > 0 {
			e.timeout = NewTimeout(TimeoutConfig{Timeout: timeout})
		}
	}
}

// Execute runs the operation through all configured resilience patterns.
//
// The execution order is:
//  1. Rate limiter - rejects with ErrRateLimitExceeded when drained
//  2. Concurrency cap - waits for a slot, honoring cancellation
//  3. Circuit breaker - rejects with ErrCircuitOpen while open
//  4. Retry - retries failures per policy
//  5. Timeout - bounds each attempt with ErrTimeout (innermost)
func (e *Executor) Execute(ctx context.Context, op func(context.Context) error) error {
	execute := op

	if e.timeout != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.timeout.Execute(ctx, inner)
		}
	}

	if e.retry != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.retry.Execute(ctx, inner)
		}
	}

	if e.circuitBreaker != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.circuitBreaker.Execute(ctx, inner)
		}
	}

	if e.sem != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			if err := e.sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer e.sem.Release(1)
			return inner(ctx)
		}
	}

	if e.rateLimiter != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.rateLimiter.Execute(ctx, inner)
		}
	}

	return execute(ctx)
}
