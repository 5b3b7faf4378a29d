package parallel

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestForEach_ProcessesEveryItemExactlyOnce(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	var mu sync.Mutex
	seen := make(map[int]int)

	err := ForEach(context.Background(), 2, items, func(ctx context.Context, n int) error {
		mu.Lock()
		seen[n]++
		mu.Unlock()
		return nil
	})
	if err != nil {
		t.Fatalf("ForEach() error = %v", err)
	}

	for _, n := range items {
		if seen[n] != 1 {
			t.Errorf("item %d processed %d times, want 1", n, seen[n])
		}
	}
}

func TestForEach_RespectsConcurrencyLimit(t *testing.T) {
	var active, maxActive atomic.Int32

	items := make([]int, 10)
	err := ForEach(context.Background(), 3, items, func(ctx context.Context, _ int) error {
		cur := active.Add(1)
		for {
			prev := maxActive.Load()
			if cur <= prev || maxActive.CompareAndSwap(prev, cur) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		active.Add(-1)
		return nil
	})
	if err != nil {
		t.Fatalf("ForEach() error = %v", err)
	}
	if got := maxActive.Load(); got > 3 {
		t.Errorf("max simultaneous invocations = %d, want <= 3", got)
	}
}

func TestForEach_FirstErrorPropagates(t *testing.T) {
	testErr := errors.New("item 3 failed")
	items := []int{1, 2, 3, 4, 5}

	err := ForEach(context.Background(), 1, items, func(ctx context.Context, n int) error {
		if n == 3 {
			return testErr
		}
		return nil
	})
	if !errors.Is(err, testErr) {
		t.Errorf("ForEach() error = %v, want %v", err, testErr)
	}
}

func TestForEach_LaterItemsSeeCancelledContext(t *testing.T) {
	testErr := errors.New("boom")
	var cancelledSeen atomic.Bool

	items := make([]int, 20)
	for i := range items {
		items[i] = i
	}

	ForEach(context.Background(), 1, items, func(ctx context.Context, n int) error {
		if n == 0 {
			return testErr
		}
		if ctx.Err() != nil {
			cancelledSeen.Store(true)
		}
		return nil
	})

	if !cancelledSeen.Load() {
		t.Error("no item observed the cancelled group context after failure")
	}
}

func TestForEach_UnboundedWhenLimitZero(t *testing.T) {
	items := make([]int, 8)

	var active atomic.Int32
	allRunning := make(chan struct{})

	err := ForEach(context.Background(), 0, items, func(ctx context.Context, _ int) error {
		if active.Add(1) == int32(len(items)) {
			close(allRunning)
		}
		<-allRunning
		return nil
	})
	if err != nil {
		t.Fatalf("ForEach() error = %v", err)
	}
}
