package parallel

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ForEach applies fn to every item with at most limit invocations running
// simultaneously, returning once all items have been processed. A limit <= 0
// means unbounded.
//
// The first failure is propagated after already-started work drains; items
// not yet started observe the cancelled group context through fn's ctx.
func ForEach[T any](ctx context.Context, limit int, items []T, fn func(context.Context, T) error) error {
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for _, item := range items {
		item := item
		g.Go(func() error {
			return fn(gctx, item)
		})
	}

	return g.Wait()
}
