// Package parallel runs a function over a slice with bounded concurrency.
package parallel

import (
	"context"
	"sync"
)

// Each calls fn for every input using at most limit goroutines. The first
// error cancels the context passed to the remaining calls, stops feeding new
// inputs and is returned once running calls finish.
func Each[T any](ctx context.Context, inputs []T, limit int, fn func(context.Context, T) error) error {
	if len(inputs) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = 1
	}
	limit = min(limit, len(inputs))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tasks := make(chan T)
	var (
		once     sync.Once
		firstErr error
		wg       sync.WaitGroup
	)
	for range limit {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range tasks {
				if err := fn(ctx, item); err != nil {
					once.Do(func() {
						firstErr = err
						cancel()
					})
					return
				}
			}
		}()
	}

	go func() {
		defer close(tasks)
		for _, item := range inputs {
			select {
			case <-ctx.Done():
				return
			case tasks <- item:
			}
		}
	}()

	wg.Wait()
	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}
