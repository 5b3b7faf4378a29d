package resilience

import (
	"sync"
	"time"
)

// SlidingWindowConfig configures the sliding window rate limiter.
type SlidingWindowConfig struct {
	// MaxRequests is the number of admissions allowed per window.
	// Default: 10
	MaxRequests int

	// Window is the trailing window size.
	// Default: 1s
	Window time.Duration
}

// SlidingWindowRateLimiter admits a request only when fewer than MaxRequests
// admissions fall inside the trailing window. Admission timestamps are kept
// in arrival order and evicted strictly FIFO.
//
// Boundary: a timestamp is still counted while now-ts < Window; at exactly
// Window old it is evicted.
type SlidingWindowRateLimiter struct {
	config SlidingWindowConfig

	mu     sync.Mutex
	stamps []time.Time
	closed bool
}

// NewSlidingWindowRateLimiter creates a new sliding window rate limiter.
func NewSlidingWindowRateLimiter(config SlidingWindowConfig) *SlidingWindowRateLimiter {
	if config.MaxRequests <= 0 {
		config.MaxRequests = 10
	}
	if config.Window <= 0 {
		config.Window = time.Second
	}

	return &SlidingWindowRateLimiter{
		config: config,
		stamps: make([]time.Time, 0, config.MaxRequests),
	}
}

// TryAcquire evicts expired timestamps, then admits the request if the
// window has room, recording the admission time. It returns false when the
// window is full or the limiter is closed.
func (sw *SlidingWindowRateLimiter) TryAcquire() bool {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if sw.closed {
		return false
	}

	now := time.Now()
	sw.evictLocked(now)

	if len(sw.stamps) >= sw.config.MaxRequests {
		return false
	}

	sw.stamps = append(sw.stamps, now)
	return true
}

// Len returns the number of admissions currently inside the window.
func (sw *SlidingWindowRateLimiter) Len() int {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if sw.closed {
		return 0
	}

	sw.evictLocked(time.Now())
	return len(sw.stamps)
}

func (sw *SlidingWindowRateLimiter) evictLocked(now time.Time) {
	i := 0
	for i < len(sw.stamps) && now.Sub(sw.stamps[i]) >= sw.config.Window {
		i++
	}
	if i > 0 {
		sw.stamps = append(sw.stamps[:0], sw.stamps[i:]...)
	}
}

// Close releases the limiter. All later calls fail. Close is idempotent.
func (sw *SlidingWindowRateLimiter) Close() error {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if sw.closed {
		return nil
	}
	sw.closed = true
	sw.stamps = nil
	return nil
}
