package memo

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrClosed is returned by ExpiringMemo calls after Close.
var ErrClosed = errors.New("memo: closed")

// expiringFuture carries the completion time alongside the result.
// expiresAt is written before done is closed and read only afterwards.
type expiringFuture[T any] struct {
	*future[T]
	cancel    context.CancelFunc
	expiresAt time.Time
}

// ExpiringMemo memoizes an asynchronous computation for a fixed duration.
// Expiry is evaluated on access from the cached value's age; there is no
// background timer. An access past expiry installs a replacement
// computation, and the stale value is never served again. Concurrent
// accesses during a recomputation share the same in-flight factory call.
type ExpiringMemo[T any] struct {
	factory func(context.Context) (T, error)
	ttl     time.Duration

	mu     sync.Mutex
	f      *expiringFuture[T]
	closed bool
}

// NewExpiring creates an expiring memoized value with the given TTL.
func NewExpiring[T any](factory func(context.Context) (T, error), ttl time.Duration) *ExpiringMemo[T] {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &ExpiringMemo[T]{factory: factory, ttl: ttl}
}

// Get returns the cached value, recomputing when nothing is cached yet or
// the cached result's age has reached the TTL. The caller's context cancels
// only its own wait, not the shared computation.
func (m *ExpiringMemo[T]) Get(ctx context.Context) (T, error) {
	var zero T

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return zero, ErrClosed
	}

	f := m.f
	if f == nil || (f.completed() && !time.Now().Before(f.expiresAt)) {
		fctx, cancel := context.WithCancel(context.Background())
		f = &expiringFuture[T]{future: newFuture[T](), cancel: cancel}
		m.f = f
		m.mu.Unlock()
		go func() {
			v, err := m.factory(fctx)
			f.expiresAt = time.Now().Add(m.ttl)
			f.complete(v, err)
			cancel()
		}()
	} else {
		m.mu.Unlock()
	}

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-f.done:
		return f.val, f.err
	}
}

// Close releases the memo. An in-flight factory invocation is cancelled
// through its invocation context and all later calls fail with ErrClosed.
// Close is idempotent.
func (m *ExpiringMemo[T]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	if m.f != nil {
		if !m.f.completed() {
			m.f.cancel()
		}
		m.f = nil
	}
	return nil
}
