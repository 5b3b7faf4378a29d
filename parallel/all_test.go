package parallel

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"
)

func TestAll_ResultsInInputOrder(t *testing.T) {
	ops := make([]Op[int], 10)
	for i := range ops {
		i := i
		ops[i] = func(ctx context.Context) (int, error) {
			// Later operations finish first.
			time.Sleep(time.Duration(10-i) * time.Millisecond)
			return i * 10, nil
		}
	}

	results, err := All(context.Background(), 0, ops)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	for i, got := range results {
		if got != i*10 {
			t.Errorf("results[%d] = %d, want %d", i, got, i*10)
		}
	}
}

func TestAll_RespectsConcurrencyLimit(t *testing.T) {
	var active, maxActive atomic.Int32

	ops := make([]Op[int], 10)
	for i := range ops {
		i := i
		ops[i] = func(ctx context.Context) (int, error) {
			cur := active.Add(1)
			for {
				prev := maxActive.Load()
				if cur <= prev || maxActive.CompareAndSwap(prev, cur) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			active.Add(-1)
			return i, nil
		}
	}

	if _, err := All(context.Background(), 3, ops); err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if got := maxActive.Load(); got > 3 {
		t.Errorf("max simultaneous operations = %d, want <= 3", got)
	}
}

func TestAll_FirstErrorWinsNoPartialResults(t *testing.T) {
	testErr := errors.New("op 2 failed")
	ops := []Op[string]{
		func(ctx context.Context) (string, error) { return "a", nil },
		func(ctx context.Context) (string, error) { return "b", nil },
		func(ctx context.Context) (string, error) { return "", testErr },
	}

	results, err := All(context.Background(), 0, ops)
	if !errors.Is(err, testErr) {
		t.Errorf("All() error = %v, want %v", err, testErr)
	}
	if results != nil {
		t.Errorf("results = %v, want nil on failure", results)
	}
}

func TestAll_ErrorCancelsPendingOps(t *testing.T) {
	var started atomic.Int32
	testErr := errors.New("boom")

	ops := make([]Op[int], 20)
	ops[0] = func(ctx context.Context) (int, error) {
		return 0, testErr
	}
	for i := 1; i < len(ops); i++ {
		i := i
		ops[i] = func(ctx context.Context) (int, error) {
			started.Add(1)
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(50 * time.Millisecond):
				return i, nil
			}
		}
	}

	start := time.Now()
	_, err := All(context.Background(), 1, ops)
	if !errors.Is(err, testErr) && !errors.Is(err, context.Canceled) {
		t.Errorf("All() error = %v, want the failing op's error or cancellation", err)
	}
	// With limit 1 and 20 ops, running them all would take a second.
	if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
		t.Errorf("All() took %v, want early abort after failure", elapsed)
	}
}

func TestAll_EmptyInput(t *testing.T) {
	results, err := All[int](context.Background(), 4, nil)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("len(results) = %d, want 0", len(results))
	}
}

func ExampleAll() {
	ops := []Op[string]{
		func(ctx context.Context) (string, error) { return "users", nil },
		func(ctx context.Context) (string, error) { return "orders", nil },
		func(ctx context.Context) (string, error) { return "invoices", nil },
	}

	results, err := All(context.Background(), 2, ops)
	fmt.Println(results, err)
	// Output:
	// [users orders invoices] <nil>
}
