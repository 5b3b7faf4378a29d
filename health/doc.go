// Package health provides diagnostics checkers for resilience guards.
//
// A Checker is any component that can report its status: Healthy, Degraded
// or Unhealthy. Ready-made checkers surface the observable state of
// resilience primitives - an open circuit breaker reports Unhealthy, a
// drained rate limiter reports Degraded - and a GoroutineChecker watches
// for goroutine leaks in hosts that fan out heavily.
//
// Use Aggregator to combine multiple checkers into a composite check:
//
//	agg := health.NewAggregator()
//	agg.Register("upstream-breaker", health.NewBreakerChecker("upstream-breaker", cb))
//	agg.Register("ingest-limiter", health.NewLimiterChecker("ingest-limiter", rl))
//
//	results := agg.CheckAll(ctx)
//	overall := agg.OverallStatus(results)
//
// The package exposes no HTTP surface; hosts serve the aggregated results
// however they see fit.
package health
