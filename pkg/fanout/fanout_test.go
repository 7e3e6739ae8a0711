package fanout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestJoinAll_PreservesOrder(t *testing.T) {
	got, err := JoinAll(context.Background(), 5, func(_ context.Context, i int) (string, error) {
		// later indexes finish first
		time.Sleep(time.Duration(5-i) * time.Millisecond)
		return fmt.Sprintf("r%d", i), nil
	})
	if err != nil {
		t.Fatalf("JoinAll: %v", err)
	}
	for i, r := range got {
		if want := fmt.Sprintf("r%d", i); r != want {
			t.Errorf("result[%d] = %q, want %q", i, r, want)
		}
	}
}

func TestJoinAll_Empty(t *testing.T) {
	var calls atomic.Int32
	got, err := JoinAll(context.Background(), 0, func(_ context.Context, _ int) (int, error) {
		calls.Add(1)
		return 0, nil
	})
	if err != nil {
		t.Fatalf("JoinAll: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
	if calls.Load() != 0 {
		t.Errorf("fn called %d times, want 0", calls.Load())
	}
}

func TestJoinAll_FailureWaitsForAll(t *testing.T) {
	boom := errors.New("boom")
	var completed atomic.Int32

	got, err := JoinAll(context.Background(), 4, func(_ context.Context, i int) (int, error) {
		if i == 0 {
			return 0, boom
		}
		time.Sleep(20 * time.Millisecond)
		completed.Add(1)
		return i, nil
	})

	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if got != nil {
		t.Errorf("results = %v, want nil on failure", got)
	}
	if completed.Load() != 3 {
		t.Errorf("completed = %d, want 3 (failure must not cancel siblings)", completed.Load())
	}
}

func TestJoinAll_RunsConcurrently(t *testing.T) {
	const n = 4
	var (
		mu      sync.Mutex
		active  int
		maxSeen int
	)
	_, err := JoinAll(context.Background(), n, func(_ context.Context, _ int) (struct{}, error) {
		mu.Lock()
		active++
		if active > maxSeen {
			maxSeen = active
		}
		mu.Unlock()
		time.Sleep(30 * time.Millisecond)
		mu.Lock()
		active--
		mu.Unlock()
		return struct{}{}, nil
	})
	if err != nil {
		t.Fatalf("JoinAll: %v", err)
	}
	if maxSeen < 2 {
		t.Errorf("max concurrent tasks = %d, expected tasks to overlap", maxSeen)
	}
}

func TestJoinAll_PassesContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")
	_, err := JoinAll(ctx, 2, func(ctx context.Context, _ int) (string, error) {
		if ctx.Value(key{}) != "v" {
			return "", errors.New("context not propagated")
		}
		return "", nil
	})
	if err != nil {
		t.Fatal(err)
	}
}
