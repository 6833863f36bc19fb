package worker

import (
	"context"
	"sync"

	"github.com/fabriziosalmi/domainmate/internal/monitors"
)

// RunResult pairs one input with the monitor output or error it produced.
type RunResult struct {
	Input  string
	Output monitors.Result
	Err    error
}

// Run executes m.Run for every input with at most concurrency jobs in flight
// and returns results in input order. A failed input never aborts the others.
func Run(ctx context.Context, m monitors.Monitor, inputs []string, concurrency int) []RunResult {
	if len(inputs) == 0 {
		return nil
	}
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]RunResult, len(inputs))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, input := range inputs {
		wg.Add(1)
		go func(i int, input string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			out, err := m.Run(ctx, input)
			results[i] = RunResult{Input: input, Output: out, Err: err}
		}(i, input)
	}
	wg.Wait()

	return results
}
