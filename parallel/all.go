package parallel

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Op is a cancellable operation producing a value.
type Op[T any] func(context.Context) (T, error)

// All runs every operation with at most limit active simultaneously and
// returns their results in input order. A limit <= 0 means unbounded.
//
// On failure the first encountered error is returned after in-flight
// operations drain; operations not yet started are skipped via context
// cancellation, and no partial results are returned.
func All[T any](ctx context.Context, limit int, ops []Op[T]) ([]T, error) {
	results := make([]T, len(ops))

	if limit <= 0 {
		limit = len(ops)
	}
	sem := semaphore.NewWeighted(int64(limit))

	g, gctx := errgroup.WithContext(ctx)
	for i, op := range ops {
		i, op := i, op
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			v, err := op(gctx)
			if err != nil {
				return err
			}
			results[i] = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
