package resilience

import (
	"context"
	"sync"
	"time"
)

// RateLimiterConfig configures the token bucket rate limiter.
type RateLimiterConfig struct {
	// MaxTokens is the bucket capacity.
	// Default: 10
	MaxTokens int

	// RefillInterval is how often the bucket is refilled.
	// Default: 1s
	RefillInterval time.Duration

	// RefillAmount is how many tokens each refill adds.
	// Default: 1
	RefillAmount int
}

// RateLimiter is a token bucket rate limiter. Tokens are refilled lazily on
// access from the elapsed time since the last refill; there is no background
// timer. The token count never exceeds MaxTokens and never goes negative.
type RateLimiter struct {
	config RateLimiterConfig

	mu         sync.Mutex
	tokens     int
	lastRefill time.Time
	closed     bool
	done       chan struct{}
}

// NewRateLimiter creates a new rate limiter with a full bucket.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.MaxTokens <= 0 {
		config.MaxTokens = 10
	}
	if config.RefillInterval <= 0 {
		config.RefillInterval = time.Second
	}
	if config.RefillAmount <= 0 {
		config.RefillAmount = 1
	}

	return &RateLimiter{
		config:     config,
		tokens:     config.MaxTokens,
		lastRefill: time.Now(),
		done:       make(chan struct{}),
	}
}

// TryAcquire consumes one token if available. It never waits.
func (rl *RateLimiter) TryAcquire() bool {
	return rl.TryAcquireN(1)
}

// TryAcquireN consumes n tokens if available. It never waits and returns
// false after Close.
func (rl *RateLimiter) TryAcquireN(n int) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.closed {
		return false
	}

	rl.refillLocked()

	if rl.tokens >= n {
		rl.tokens -= n
		return true
	}

	return false
}

// Acquire waits until one token is available, then consumes it.
func (rl *RateLimiter) Acquire(ctx context.Context) error {
	return rl.AcquireN(ctx, 1)
}

// AcquireN waits until n tokens are available, then consumes them. The wait
// sleeps until the next refill is due rather than polling. It returns
// ctx.Err() on cancellation and ErrLimiterClosed once the limiter is closed.
func (rl *RateLimiter) AcquireN(ctx context.Context, n int) error {
	if n > rl.config.MaxTokens {
		return ErrRateLimitExceeded
	}

	for {
		rl.mu.Lock()
		if rl.closed {
			rl.mu.Unlock()
			return ErrLimiterClosed
		}

		rl.refillLocked()

		if rl.tokens >= n {
			rl.tokens -= n
			rl.mu.Unlock()
			return nil
		}

		wait := rl.config.RefillInterval - time.Since(rl.lastRefill)
		rl.mu.Unlock()

		if wait <= 0 {
			wait = time.Millisecond
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-rl.done:
			timer.Stop()
			return ErrLimiterClosed
		case <-timer.C:
		}
	}
}

// Tokens returns the current token count after applying any due refill.
// It returns 0 once the limiter is closed.
func (rl *RateLimiter) Tokens() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.closed {
		return 0
	}

	rl.refillLocked()
	return rl.tokens
}

// Execute runs the operation if a token can be consumed immediately,
// otherwise returns ErrRateLimitExceeded.
func (rl *RateLimiter) Execute(ctx context.Context, op func(context.Context) error) error {
	if !rl.TryAcquire() {
		rl.mu.Lock()
		closed := rl.closed
		rl.mu.Unlock()
		if closed {
			return ErrLimiterClosed
		}
		return ErrRateLimitExceeded
	}
	return op(ctx)
}

// refillLocked credits every whole interval elapsed since the last refill
// and advances the refill clock by exactly the intervals consumed, so no
// fractional interval is lost or double counted.
func (rl *RateLimiter) refillLocked() {
	elapsed := time.Since(rl.lastRefill)
	if elapsed < rl.config.RefillInterval {
		return
	}

	intervals := int64(elapsed / rl.config.RefillInterval)
	rl.tokens += int(intervals) * rl.config.RefillAmount
	if rl.tokens > rl.config.MaxTokens {
		rl.tokens = rl.config.MaxTokens
	}
	rl.lastRefill = rl.lastRefill.Add(time.Duration(intervals) * rl.config.RefillInterval)
}

// Close releases the limiter. Waiters blocked in AcquireN are woken with
// ErrLimiterClosed and all later calls fail. Close is idempotent.
func (rl *RateLimiter) Close() error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.closed {
		return nil
	}
	rl.closed = true
	rl.tokens = 0
	close(rl.done)
	return nil
}
