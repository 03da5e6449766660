package rest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestProcessBatchChunksAndOrder(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}

	var mu sync.Mutex
	var started []int
	rec := &sleepRecorder{}
	opts := BatchOptions{Size: 10, Delay: 50 * time.Millisecond, sleep: rec.sleep}

	results, err := ProcessBatch(context.Background(), items, opts, func(ctx context.Context, n int) (int, error) {
		mu.Lock()
		started = append(started, n)
		mu.Unlock()
		return n * 2, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 25 {
		t.Fatalf("results = %d, want 25", len(results))
	}
	for i, r := range results {
		if r != i*2 {
			t.Errorf("results[%d] = %d, want %d", i, r, i*2)
		}
	}

	// Chunks run strictly one after another: 10, 10, 5. Within a chunk the
	// start order is free, so only chunk membership is checked.
	if len(started) != 25 {
		t.Fatalf("started = %d items", len(started))
	}
	for pos, n := range started {
		if n/10 != pos/10 {
			t.Fatalf("item %d observed at position %d, outside its chunk", n, pos)
		}
	}

	// Delay between chunks, never after the last one.
	if got := len(rec.recorded()); got != 2 {
		t.Errorf("sleeps = %d, want 2", got)
	}
	for _, d := range rec.recorded() {
		if d != 50*time.Millisecond {
			t.Errorf("sleep = %v, want 50ms", d)
		}
	}
}

func TestProcessBatchFailFast(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6, 7, 8}
	boom := errors.New("boom")

	var mu sync.Mutex
	ran := map[int]bool{}
	opts := BatchOptions{Size: 3}

	_, err := ProcessBatch(context.Background(), items, opts, func(ctx context.Context, n int) (int, error) {
		mu.Lock()
		ran[n] = true
		mu.Unlock()
		if n == 1 {
			return 0, fmt.Errorf("item %d: %w", n, boom)
		}
		return n, nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}

	// Later chunks never start once a chunk has failed.
	mu.Lock()
	defer mu.Unlock()
	for n := range ran {
		if n >= 3 {
			t.Errorf("item %d from a later chunk ran after failure", n)
		}
	}
}

func TestProcessBatchAllCollectsOutcomes(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6}
	opts := BatchOptions{Size: 2}

	results, err := ProcessBatchAll(context.Background(), items, opts, func(ctx context.Context, n int) (string, error) {
		if n%3 == 0 {
			return "", fmt.Errorf("item %d failed", n)
		}
		return fmt.Sprintf("ok-%d", n), nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 6 {
		t.Fatalf("results = %d, want 6", len(results))
	}

	for i, n := range items {
		if n%3 == 0 {
			if results[i].Err == nil {
				t.Errorf("item %d should carry its error", n)
			}
			continue
		}
		if results[i].Err != nil {
			t.Errorf("item %d: unexpected error %v", n, results[i].Err)
		}
		if want := fmt.Sprintf("ok-%d", n); results[i].Value != want {
			t.Errorf("item %d = %q, want %q", n, results[i].Value, want)
		}
	}
}

func TestProcessBatchEmptyInput(t *testing.T) {
	results, err := ProcessBatch(context.Background(), nil, BatchOptions{Size: 10}, func(ctx context.Context, n int) (int, error) {
		t.Error("work function should not run")
		return 0, nil
	})
	if err != nil || results != nil {
		t.Errorf("got %v, %v", results, err)
	}
}

func TestProcessBatchSizeLargerThanInput(t *testing.T) {
	rec := &sleepRecorder{}
	opts := BatchOptions{Size: 100, Delay: time.Second, sleep: rec.sleep}

	results, err := ProcessBatch(context.Background(), []int{1, 2, 3}, opts, func(ctx context.Context, n int) (int, error) {
		return n, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("results = %d, want 3", len(results))
	}
	if len(rec.recorded()) != 0 {
		t.Errorf("single chunk should not sleep, got %v", rec.recorded())
	}
}

func TestProcessBatchCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ProcessBatchAll(ctx, []int{1, 2, 3}, BatchOptions{Size: 2}, func(ctx context.Context, n int) (int, error) {
		return n, ctx.Err()
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
