package sim

import (
	"context"
	"runtime"
	"sync"
)

// Batch runs n independent jobs across a fixed pool of workers and
// blocks until all have finished or one fails. The first error cancels
// the context handed to the remaining jobs; its value is returned.
// Jobs must not share mutable state; each receives its own index and
// writes only to its own slot of whatever output the caller owns.
func Batch(ctx context.Context, n, workers int, job func(ctx context.Context, i int) error) error {
	if n <= 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					return
				}
				if err := job(ctx, i); err != nil {
					errs[w] = err
					cancel()
					return
				}
			}
		}(w)
	}

feed:
	for i := 0; i < n; i++ {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return ctx.Err()
}
