package parallel

import (
	"context"
	"errors"
)

// ErrNoOperations is returned by Race when called with no operations.
var ErrNoOperations = errors.New("parallel: no operations")

// Race starts every operation concurrently and returns the value of
// whichever succeeds first, cancelling the rest. Failures are discarded
// unless every operation fails, in which case the first-received failure is
// propagated.
func Race[T any](ctx context.Context, ops []Op[T]) (T, error) {
	var zero T

	if len(ops) == 0 {
		return zero, ErrNoOperations
	}

	rctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type outcome struct {
		val T
		err error
	}

	// Buffered so losers never block after the winner returns.
	ch := make(chan outcome, len(ops))
	for _, op := range ops {
		op := op
		go func() {
			v, err := op(rctx)
			ch <- outcome{val: v, err: err}
		}()
	}

	var firstErr error
	for range ops {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case out := <-ch:
			if out.err == nil {
				return out.val, nil
			}
			if firstErr == nil {
				firstErr = out.err
			}
		}
	}

	return zero, firstErr
}
