package memo

import (
	"context"
	"sync"
)

// cancellableFuture pairs a future with the cancel func of its factory
// invocation's context.
type cancellableFuture[T any] struct {
	*future[T]
	cancel context.CancelFunc
}

// ResettableMemo memoizes an asynchronous computation and can be reset so
// the next access recomputes. The factory receives a per-invocation context
// that is cancelled when the invocation is discarded by Reset.
type ResettableMemo[T any] struct {
	factory func(context.Context) (T, error)

	mu sync.Mutex
	f  *cancellableFuture[T]
}

// NewResettable creates a resettable memoized value.
func NewResettable[T any](factory func(context.Context) (T, error)) *ResettableMemo[T] {
	return &ResettableMemo[T]{factory: factory}
}

// Get returns the current memoized value, triggering the factory when no
// computation is current. Concurrent callers share one in-flight
// computation; the caller's context cancels only its own wait.
func (m *ResettableMemo[T]) Get(ctx context.Context) (T, error) {
	m.mu.Lock()
	f := m.f
	if f == nil {
		fctx, cancel := context.WithCancel(context.Background())
		f = &cancellableFuture[T]{future: newFuture[T](), cancel: cancel}
		m.f = f
		m.mu.Unlock()
		go func() {
			f.complete(m.factory(fctx))
			cancel()
		}()
	} else {
		m.mu.Unlock()
	}

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case <-f.done:
		return f.val, f.err
	}
}

// Reset discards the current computation so the next Get triggers a fresh
// factory invocation. A computation still in flight is cancelled through
// its invocation context and its result dropped; the swap is atomic, so
// there is never more than one current computation. Waiters already blocked
// on the discarded computation still observe its outcome.
func (m *ResettableMemo[T]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.f != nil {
		if !m.f.completed() {
			m.f.cancel()
		}
		m.f = nil
	}
}

// Faulted reports whether the current computation has completed with an
// error.
func (m *ResettableMemo[T]) Faulted() bool {
	m.mu.Lock()
	f := m.f
	m.mu.Unlock()

	return f != nil && f.completed() && f.err != nil
}
