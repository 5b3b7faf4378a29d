package memo

import (
	"context"
	"sync"
)

// future is the shared result holder a computation's waiters select on.
// val and err are written exactly once, before done is closed.
type future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

func newFuture[T any]() *future[T] {
	return &future[T]{done: make(chan struct{})}
}

func (f *future[T]) complete(val T, err error) {
	f.val = val
	f.err = err
	close(f.done)
}

// completed reports whether the computation has resolved. Safe to call
// without holding any lock.
func (f *future[T]) completed() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Memo memoizes one asynchronous computation. The factory is invoked
// exactly once for the instance's lifetime; whether it produced a value or
// a failure, every Get observes that same outcome. Failures are never
// retried.
type Memo[T any] struct {
	factory func(context.Context) (T, error)

	mu sync.Mutex
	f  *future[T]
}

// New creates a memoized value. The factory does not run until the first Get.
func New[T any](factory func(context.Context) (T, error)) *Memo[T] {
	return &Memo[T]{factory: factory}
}

// Get returns the memoized value, triggering the factory on first access.
// Callers arriving mid-computation await the same in-flight result. The
// context cancels only this caller's wait; the computation itself keeps
// running for the benefit of other waiters.
func (m *Memo[T]) Get(ctx context.Context) (T, error) {
	m.mu.Lock()
	f := m.f
	if f == nil {
		f = newFuture[T]()
		m.f = f
		m.mu.Unlock()
		go func() {
			f.complete(m.factory(context.Background()))
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

// Faulted reports whether the single factory invocation has completed with
// an error.
func (m *Memo[T]) Faulted() bool {
	m.mu.Lock()
	f := m.f
	m.mu.Unlock()

	return f != nil && f.completed() && f.err != nil
}

// Started reports whether the factory has been triggered.
func (m *Memo[T]) Started() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.f != nil
}
