package worker

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Task is one input of a pool run together with its outcome.
type Task[T any, R any] struct {
	Input  T
	Result R
	Err    error
}

// ProcessFunc processes a single input.
type ProcessFunc[T any, R any] func(ctx context.Context, input T) (R, error)

// Pool fans inputs out to a fixed number of goroutines and joins the results
// back in input order. Inputs must not share mutable state.
type Pool[T any, R any] struct {
	workers int
	process ProcessFunc[T, R]
}

// NewPool creates a new worker pool.
func NewPool[T any, R any](workers int, fn ProcessFunc[T, R]) *Pool[T, R] {
	if workers < 1 {
		workers = 1
	}
	return &Pool[T, R]{
		workers: workers,
		process: fn,
	}
}

// Execute runs all inputs through the pool. results[i] always belongs to
// inputs[i]; inputs never dispatched because ctx was cancelled carry
// ctx.Err().
func (p *Pool[T, R]) Execute(ctx context.Context, inputs []T) []Task[T, R] {
	results := make([]Task[T, R], len(inputs))
	for i, in := range inputs {
		results[i].Input = in
	}

	inputCh := make(chan int)
	var wg sync.WaitGroup

	workers := min(p.workers, max(len(inputs), 1))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for idx := range inputCh {
				result, err := p.process(ctx, inputs[idx])
				results[idx].Result = result
				results[idx].Err = err
				if err != nil {
					log.Debug().Err(err).Int("worker", workerID).Int("index", idx).Msg("Task failed")
				}
			}
		}(w)
	}

	sent := 0
send:
	for ; sent < len(inputs); sent++ {
		select {
		case <-ctx.Done():
			break send
		case inputCh <- sent:
		}
	}
	close(inputCh)
	wg.Wait()

	for i := sent; i < len(inputs); i++ {
		results[i].Err = ctx.Err()
	}
	return results
}
