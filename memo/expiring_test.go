package memo

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewExpiring_DefaultTTL(t *testing.T) {
	m := NewExpiring(func(ctx context.Context) (int, error) { return 0, nil }, 0)
	if m.ttl != time.Minute {
		t.Errorf("ttl = %v, want 1m default", m.ttl)
	}
}

func TestExpiringMemo_CachesWithinTTL(t *testing.T) {
	var invocations atomic.Int32
	m := NewExpiring(func(ctx context.Context) (int32, error) {
		return invocations.Add(1), nil
	}, time.Minute)
	defer m.Close()

	ctx := context.Background()
	for i := 0; i < 4; i++ {
		v, err := m.Get(ctx)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if v != 1 {
			t.Errorf("Get() = %d, want 1", v)
		}
	}
	if got := invocations.Load(); got != 1 {
		t.Errorf("factory invocations = %d, want 1", got)
	}
}

func TestExpiringMemo_RecomputesAfterExpiry(t *testing.T) {
	var invocations atomic.Int32
	m := NewExpiring(func(ctx context.Context) (int32, error) {
		return invocations.Add(1), nil
	}, 30*time.Millisecond)
	defer m.Close()

	ctx := context.Background()
	v, err := m.Get(ctx)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if v != 1 {
		t.Fatalf("Get() = %d, want 1", v)
	}

	time.Sleep(50 * time.Millisecond)

	v, err = m.Get(ctx)
	if err != nil {
		t.Fatalf("Get() after expiry error = %v", err)
	}
	if v != 2 {
		t.Errorf("Get() after expiry = %d, want fresh value 2", v)
	}
}

func TestExpiringMemo_ConcurrentRecomputeShared(t *testing.T) {
	var invocations atomic.Int32
	gate := make(chan struct{})

	m := NewExpiring(func(ctx context.Context) (int32, error) {
		n := invocations.Add(1)
		if n > 1 {
			<-gate
		}
		return n, nil
	}, 20*time.Millisecond)
	defer m.Close()

	ctx := context.Background()
	if _, err := m.Get(ctx); err != nil {
		t.Fatalf("initial Get() error = %v", err)
	}

	time.Sleep(40 * time.Millisecond)

	// Several callers arrive after expiry; one recompute serves them all.
	results := make(chan int32, 6)
	for i := 0; i < 6; i++ {
		go func() {
			v, err := m.Get(ctx)
			if err != nil {
				t.Errorf("Get() error = %v", err)
			}
			results <- v
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(gate)

	for i := 0; i < 6; i++ {
		if v := <-results; v != 2 {
			t.Errorf("Get() = %d, want shared recomputed value 2", v)
		}
	}
	if got := invocations.Load(); got != 2 {
		t.Errorf("factory invocations = %d, want 2", got)
	}
}

func TestExpiringMemo_ExpiredFailureRetried(t *testing.T) {
	var invocations atomic.Int32
	m := NewExpiring(func(ctx context.Context) (int, error) {
		if invocations.Add(1) == 1 {
			return 0, errors.New("flaky")
		}
		return 5, nil
	}, 20*time.Millisecond)
	defer m.Close()

	ctx := context.Background()
	if _, err := m.Get(ctx); err == nil {
		t.Fatal("first Get() error = nil, want failure")
	}

	time.Sleep(40 * time.Millisecond)

	v, err := m.Get(ctx)
	if err != nil {
		t.Fatalf("Get() after expiry error = %v", err)
	}
	if v != 5 {
		t.Errorf("Get() after expiry = %d, want 5", v)
	}
}

func TestExpiringMemo_CloseRejectsLaterCalls(t *testing.T) {
	m := NewExpiring(func(ctx context.Context) (int, error) { return 1, nil }, time.Minute)

	if _, err := m.Get(context.Background()); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if err := m.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}

	if _, err := m.Get(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Get() after Close error = %v, want ErrClosed", err)
	}
}

func TestExpiringMemo_CloseCancelsInFlightComputation(t *testing.T) {
	cancelled := make(chan struct{})
	m := NewExpiring(func(ctx context.Context) (int, error) {
		<-ctx.Done()
		close(cancelled)
		return 0, ctx.Err()
	}, time.Minute)

	go m.Get(context.Background())
	time.Sleep(10 * time.Millisecond)

	m.Close()

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("in-flight factory never saw cancellation after Close")
	}
}
