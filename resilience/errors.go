package resilience

import "errors"

// Sentinel errors for resilience operations.
var (
	// ErrCircuitOpen is returned when the circuit breaker rejects a call
	// without invoking the operation.
	ErrCircuitOpen = errors.New("resilience: circuit breaker is open")

	// ErrRateLimitExceeded is returned when the rate limit is exceeded.
	ErrRateLimitExceeded = errors.New("resilience: rate limit exceeded")

	// ErrLimiterClosed is returned by limiter calls after Close.
	ErrLimiterClosed = errors.New("resilience: limiter is closed")

	// ErrTimeout is returned by the Timeout guard when the deadline fires
	// before the operation completes.
	ErrTimeout = errors.New("resilience: operation timed out")
)
