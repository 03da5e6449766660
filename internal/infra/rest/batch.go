package rest

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// BatchFunc runs one work item.
type BatchFunc[T, R any] func(ctx context.Context, item T) (R, error)

// BatchOptions paces a batch: items run in chunks of Size, all items within
// a chunk concurrently, with Delay slept between chunks but never after the
// last one.
type BatchOptions struct {
	Size  int
	Delay time.Duration

	sleep func(ctx context.Context, d time.Duration) error
}

func (o BatchOptions) sleepFunc() func(context.Context, time.Duration) error {
	if o.sleep != nil {
		return o.sleep
	}
	return sleepContext
}

// ProcessBatch runs fn over items in paced concurrent chunks and returns
// results in input order. The first failure cancels the chunk in flight and
// aborts the whole batch.
func ProcessBatch[T, R any](ctx context.Context, items []T, opts BatchOptions, fn BatchFunc[T, R]) ([]R, error) {
	if len(items) == 0 {
		return nil, nil
	}
	size := opts.Size
	if size <= 0 {
		size = len(items)
	}
	sleep := opts.sleepFunc()

	results := make([]R, len(items))
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			g.Go(func() error {
				r, err := fn(gctx, items[i])
				if err != nil {
					return err
				}
				results[i] = r
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		if opts.Delay > 0 && end < len(items) {
			if err := sleep(ctx, opts.Delay); err != nil {
				return nil, err
			}
		}
	}
	return results, nil
}

// BatchItem is one item's outcome in collect-all mode.
type BatchItem[R any] struct {
	Value R
	Err   error
}

// ProcessBatchAll is ProcessBatch without fail-fast: every item runs and its
// outcome is recorded, so one bad item cannot sink the rest. The returned
// error is non-nil only when the context is cancelled or the pacing sleep
// is interrupted.
func ProcessBatchAll[T, R any](ctx context.Context, items []T, opts BatchOptions, fn BatchFunc[T, R]) ([]BatchItem[R], error) {
	if len(items) == 0 {
		return nil, nil
	}
	size := opts.Size
	if size <= 0 {
		size = len(items)
	}
	sleep := opts.sleepFunc()

	results := make([]BatchItem[R], len(items))
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, err := fn(ctx, items[i])
				results[i] = BatchItem[R]{Value: v, Err: err}
			}()
		}
		wg.Wait()

		if err := ctx.Err(); err != nil {
			return results, err
		}
		if opts.Delay > 0 && end < len(items) {
			if err := sleep(ctx, opts.Delay); err != nil {
				return results, err
			}
		}
	}
	return results, nil
}
