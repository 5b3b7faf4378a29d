// Package resilience provides in-process guards around failure-prone
// operations.
//
// Every guard is an independently constructed instance with no shared global
// state, safe for an arbitrary number of concurrent callers, and every entry
// point that can wait accepts a context and aborts promptly on cancellation.
//
// # Guards
//
//   - Retry: retries a failing operation with exponential backoff and
//     optional jitter. Cancellation is never retried and the final error is
//     propagated unwrapped.
//
//   - RateLimiter: token bucket with lazy, on-access refill. Supports both
//     non-blocking TryAcquire and waiting Acquire.
//
//   - SlidingWindowRateLimiter: admits requests by counting admissions in a
//     trailing time window.
//
//   - CircuitBreaker: fails fast after a threshold of consecutive failures,
//     periodically allowing a half-open trial call to detect recovery.
//
//   - Timeout: bounds one operation with a deadline, returning ErrTimeout
//     when it fires first.
//
// # Usage
//
// Guards can be used independently or composed through an Executor:
//
//	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	    MaxFailures:  5,
//	    ResetTimeout: time.Minute,
//	})
//
//	retry := resilience.NewRetry(resilience.RetryConfig{
//	    MaxRetries:   3,
//	    InitialDelay: 100 * time.Millisecond,
//	    Multiplier:   2.0,
//	    Jitter:       true,
//	})
//
//	executor := resilience.NewExecutor(
//	    resilience.WithCircuitBreaker(cb),
//	    resilience.WithRetry(retry),
//	    resilience.WithTimeout(5*time.Second),
//	)
//
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return callFlakyThing(ctx)
//	})
//
// Bounded-parallel helpers for batches of operations live in the parallel
// package; memoization of expensive computations lives in the memo package.
package resilience
