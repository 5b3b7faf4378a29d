package parallel

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Batch partitions items into consecutive batches of batchSize and applies
// fn to each item, with at most limit invocations in flight across and
// within batches. Result slot i always corresponds to item i.
//
// A failing item leaves the zero value in its slot instead of aborting the
// batch; the errors of all failed items are joined into the returned error.
// Cancellation aborts between batches and is returned as ctx.Err().
func Batch[T, R any](ctx context.Context, items []T, batchSize, limit int, fn func(context.Context, T) (R, error)) ([]R, error) {
	results := make([]R, len(items))

	if batchSize <= 0 {
		batchSize = len(items)
	}

	var mu sync.Mutex
	var errs []error

	for start := 0; start < len(items); start += batchSize {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		end := min(start+batchSize, len(items))

		g := new(errgroup.Group)
		if limit > 0 {
			g.SetLimit(limit)
		}

		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				v, err := fn(ctx, items[i])
				if err != nil {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
					return nil
				}
				results[i] = v
				return nil
			})
		}

		// Per-item errors are collected, never returned from the group.
		_ = g.Wait()
	}

	return results, errors.Join(errs...)
}
