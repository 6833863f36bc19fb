// Package worker provides the bounded fan-out used for bulk domain audits.
package worker

import (
	"context"
	"log/slog"
	"sync"
)

// Pool processes inputs concurrently with a fixed number of workers.
// Audits of different domains are fully independent, so the pool imposes no
// ordering between them; per-domain work stays strictly sequential inside fn.
type Pool struct {
	size   int
	logger *slog.Logger
}

// Input is one unit of work, usually a domain name.
type Input interface{}

// JobResult pairs an input with the value or error its job produced.
type JobResult struct {
	Input Input
	Value interface{}
	Error error
}

// NewPool creates a pool with the given worker count.
func NewPool(size int, logger *slog.Logger) *Pool {
	return &Pool{
		size:   size,
		logger: logger,
	}
}

// Process fans inputs out over the pool's workers and streams results on the
// returned channel. The channel is closed when all inputs are processed or the
// context is cancelled. A failed job never stops the remaining inputs.
func (p *Pool) Process(ctx context.Context, inputs <-chan Input, fn func(context.Context, Input) (interface{}, error)) <-chan JobResult {
	results := make(chan JobResult)
	var wg sync.WaitGroup

	for i := 0; i < p.size; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case input, ok := <-inputs:
					if !ok {
						return
					}
					val, err := fn(ctx, input)
					select {
					case <-ctx.Done():
						return
					case results <- JobResult{
						Input: input,
						Value: val,
						Error: err,
					}:
					}
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}
