package worker

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Outcome pairs one input with what processing it produced.
type Outcome[T any, R any] struct {
	Input  T
	Result R
	Err    error
	// Done is false for inputs skipped because the context ended.
	Done bool
}

// ProcessFunc is the function signature for processing a single input.
type ProcessFunc[T any, R any] func(ctx context.Context, input T) (R, error)

// Pool runs a ProcessFunc over many inputs with bounded concurrency.
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

// Execute processes all inputs and returns outcomes in input order.
// Cancelling ctx stops dispatch; undispatched inputs are left with Done false.
func (p *Pool[T, R]) Execute(ctx context.Context, inputs []T) []Outcome[T, R] {
	outcomes := make([]Outcome[T, R], len(inputs))
	for i := range inputs {
		outcomes[i].Input = inputs[i]
	}
	indexCh := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for idx := range indexCh {
				result, err := p.process(ctx, inputs[idx])
				outcomes[idx].Result = result
				outcomes[idx].Err = err
				outcomes[idx].Done = true
				if err != nil {
					log.Error().Err(err).Int("worker", workerID).Int("index", idx).Msg("Task failed")
				}
			}
		}(w)
	}

dispatch:
	for i := range inputs {
		select {
		case <-ctx.Done():
			log.Warn().Int("dispatched", i).Int("total", len(inputs)).Msg("Dispatch cancelled")
			break dispatch
		case indexCh <- i:
		}
	}
	close(indexCh)

	wg.Wait()
	return outcomes
}

// Batch splits inputs into batches of at most batchSize items.
func Batch[T any](items []T, batchSize int) [][]T {
	if batchSize <= 0 {
		batchSize = 1
	}
	var batches [][]T
	for i := 0; i < len(items); i += batchSize {
		end := min(i+batchSize, len(items))
		batches = append(batches, items[i:end])
	}
	return batches
}
