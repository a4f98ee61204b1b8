package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Workers resolves a requested worker count. Zero or negative means one
// worker per CPU core, and there is never more than one worker per item.
func Workers(requested, items int) int {
	n := requested
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if n > items {
		n = items
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Parallelize divides items into contiguous ranges, one per worker, and runs
// fn(ctx, start, end) for each range concurrently. The first error cancels
// ctx for the remaining ranges and is returned.
func Parallelize(ctx context.Context, items, workers int, fn func(ctx context.Context, start, end int) error) error {
	if items == 0 {
		return nil
	}

	numWorkers := Workers(workers, items)
	if numWorkers == 1 {
		return fn(ctx, 0, items)
	}

	// Calculate the number of items each worker handles (ceiling division)
	chunkSize := (items + numWorkers - 1) / numWorkers

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		// Skip if there's no range to handle
		if start >= end {
			continue
		}
		g.Go(func() error {
			return fn(gctx, start, end)
		})
	}
	return g.Wait()
}

// ParallelizeWithThreshold performs parallelization only when the number of
// items exceeds the threshold. Below it the whole range runs on the caller's
// goroutine.
func ParallelizeWithThreshold(ctx context.Context, items, threshold, workers int, fn func(ctx context.Context, start, end int) error) error {
	if items <= threshold {
		if items == 0 {
			return nil
		}
		return fn(ctx, 0, items)
	}
	return Parallelize(ctx, items, workers, fn)
}

// ForEach runs fn(ctx, i) for every i in [0, items) with at most workers
// calls in flight. With a single worker the calls run in order on the
// caller's goroutine. Scheduling stops at the first error or when ctx is
// done; the first error is returned, otherwise ctx.Err().
func ForEach(ctx context.Context, items, workers int, fn func(ctx context.Context, i int) error) error {
	if items == 0 {
		return ctx.Err()
	}

	if Workers(workers, items) == 1 {
		for i := 0; i < items; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(ctx, i); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(Workers(workers, items))
	for i := 0; i < items; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, i)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
