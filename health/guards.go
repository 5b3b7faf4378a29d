package health

import (
	"context"
	"fmt"
	"runtime"

	"github.com/keelworks/keel/resilience"
)

// BreakerChecker reports the state of a circuit breaker: Healthy while
// closed, Degraded while half-open (a trial is pending or in flight) and
// Unhealthy while open.
type BreakerChecker struct {
	name    string
	breaker *resilience.CircuitBreaker
}

// NewBreakerChecker creates a checker for the given breaker.
func NewBreakerChecker(name string, breaker *resilience.CircuitBreaker) *BreakerChecker {
	return &BreakerChecker{name: name, breaker: breaker}
}

// Name returns the name of this checker.
func (c *BreakerChecker) Name() string {
	return c.name
}

// Check reports the breaker's current state and failure count.
func (c *BreakerChecker) Check(ctx context.Context) Result {
	m := c.breaker.Metrics()

	details := map[string]any{
		"state":    m.State.String(),
		"failures": m.Failures,
	}
	if !m.LastFailure.IsZero() {
		details["last_failure"] = m.LastFailure
	}
	if m.LastError != nil {
		details["last_error"] = m.LastError.Error()
	}

	switch m.State {
	case resilience.StateOpen:
		return Unhealthy(
			fmt.Sprintf("circuit open after %d failures", m.Failures),
			m.LastError,
		).WithDetails(details)
	case resilience.StateHalfOpen:
		return Degraded("circuit half-open, probing recovery").WithDetails(details)
	default:
		return Healthy("circuit closed").WithDetails(details)
	}
}

// LimiterChecker reports the headroom of a token bucket rate limiter:
// Degraded when the bucket is drained, Healthy otherwise.
type LimiterChecker struct {
	name    string
	limiter *resilience.RateLimiter
}

// NewLimiterChecker creates a checker for the given rate limiter.
func NewLimiterChecker(name string, limiter *resilience.RateLimiter) *LimiterChecker {
	return &LimiterChecker{name: name, limiter: limiter}
}

// Name returns the name of this checker.
func (c *LimiterChecker) Name() string {
	return c.name
}

// Check reports the limiter's current token count.
func (c *LimiterChecker) Check(ctx context.Context) Result {
	tokens := c.limiter.Tokens()

	details := map[string]any{"tokens": tokens}

	if tokens == 0 {
		return Degraded("rate limiter drained").WithDetails(details)
	}
	return Healthy(fmt.Sprintf("%d tokens available", tokens)).WithDetails(details)
}

// GoroutineCheckerConfig configures the goroutine checker.
type GoroutineCheckerConfig struct {
	// WarningThreshold is the goroutine count that triggers degraded status.
	// Default: 5000
	WarningThreshold int

	// CriticalThreshold is the goroutine count that triggers unhealthy status.
	// Default: 20000
	CriticalThreshold int
}

// GoroutineChecker watches the process goroutine count. Hosts that fan out
// heavily through the parallel helpers can use it to catch leaks.
type GoroutineChecker struct {
	config GoroutineCheckerConfig
}

// NewGoroutineChecker creates a new goroutine checker.
func NewGoroutineChecker(config GoroutineCheckerConfig) *GoroutineChecker {
	if config.WarningThreshold <= 0 {
		config.WarningThreshold = 5000
	}
	if config.CriticalThreshold <= config.WarningThreshold {
		config.CriticalThreshold = config.WarningThreshold * 4
	}
	return &GoroutineChecker{config: config}
}

// Name returns the name of this checker.
func (c *GoroutineChecker) Name() string {
	return "goroutines"
}

// Check reports the current goroutine count against the thresholds.
func (c *GoroutineChecker) Check(ctx context.Context) Result {
	n := runtime.NumGoroutine()

	details := map[string]any{
		"goroutines":         n,
		"warning_threshold":  c.config.WarningThreshold,
		"critical_threshold": c.config.CriticalThreshold,
	}

	switch {
	case n >= c.config.CriticalThreshold:
		return Unhealthy(
			fmt.Sprintf("goroutine count critical: %d", n),
			ErrCheckFailed,
		).WithDetails(details)
	case n >= c.config.WarningThreshold:
		return Degraded(fmt.Sprintf("goroutine count high: %d", n)).WithDetails(details)
	default:
		return Healthy(fmt.Sprintf("goroutine count normal: %d", n)).WithDetails(details)
	}
}
