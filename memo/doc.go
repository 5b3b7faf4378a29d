// Package memo provides single-value memoization of expensive asynchronous
// computations.
//
// All variants share the same mechanism: the first caller claims the right
// to run the factory inside a short critical section that installs a shared
// future, then runs the factory outside any lock. Every concurrent or later
// caller awaits that same future, so the factory runs exactly once per
// computation regardless of caller count. A caller's context cancels only
// its own wait, never the shared computation.
//
//   - Memo: computes once for the instance's lifetime, caching the value or
//     the failure.
//
//   - ResettableMemo: adds Reset, discarding the current computation so the
//     next access recomputes.
//
//   - ExpiringMemo: adds a TTL; an access past expiry installs a fresh
//     computation, and a stale value is never served.
package memo
