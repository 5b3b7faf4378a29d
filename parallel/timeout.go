package parallel

import (
	"context"
	"sync"
	"time"
)

// CollectTimeout runs all operations concurrently under one shared timeout.
// Slot i holds the result of operation i when it finished in time and the
// zero value otherwise; a slow operation never discards results already
// obtained from the others. Errors likewise leave the zero value in place.
func CollectTimeout[T any](ctx context.Context, timeout time.Duration, ops []Op[T]) []T {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var mu sync.Mutex
	results := make([]T, len(ops))

	var wg sync.WaitGroup
	for i, op := range ops {
		i, op := i, op
		wg.Add(1)
		go func() {
			defer wg.Done()

			v, err := op(tctx)
			if err != nil {
				return
			}

			// A result arriving after the deadline is dropped; the snapshot
			// below may already have been taken.
			mu.Lock()
			defer mu.Unlock()
			select {
			case <-tctx.Done():
			default:
				results[i] = v
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-tctx.Done():
	}

	mu.Lock()
	defer mu.Unlock()
	snapshot := make([]T, len(results))
	copy(snapshot, results)
	return snapshot
}
