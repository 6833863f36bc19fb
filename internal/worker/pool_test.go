package worker_test

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabriziosalmi/domainmate/internal/testutil"
	"github.com/fabriziosalmi/domainmate/internal/worker"
)

func feed(inputs ...string) <-chan worker.Input {
	ch := make(chan worker.Input, len(inputs))
	for _, in := range inputs {
		ch <- in
	}
	close(ch)
	return ch
}

func TestPool_ProcessesAllInputs(t *testing.T) {
	pool := worker.NewPool(3, testutil.NopLogger())

	results := pool.Process(context.Background(), feed("a", "b", "c", "d"),
		func(_ context.Context, in worker.Input) (interface{}, error) {
			return in.(string) + "!", nil
		})

	var got []string
	for r := range results {
		require.NoError(t, r.Error)
		got = append(got, r.Value.(string))
	}
	sort.Strings(got)
	assert.Equal(t, []string{"a!", "b!", "c!", "d!"}, got)
}

func TestPool_FailedJobDoesNotStopOthers(t *testing.T) {
	pool := worker.NewPool(2, testutil.NopLogger())
	sentinel := errors.New("job failed")

	results := pool.Process(context.Background(), feed("ok", "fail", "ok"),
		func(_ context.Context, in worker.Input) (interface{}, error) {
			if in.(string) == "fail" {
				return nil, sentinel
			}
			return in, nil
		})

	var errCount, okCount int
	for r := range results {
		if r.Error != nil {
			assert.ErrorIs(t, r.Error, sentinel)
			errCount++
		} else {
			okCount++
		}
	}
	assert.Equal(t, 1, errCount)
	assert.Equal(t, 2, okCount)
}

func TestPool_CancelledContextClosesResults(t *testing.T) {
	pool := worker.NewPool(2, testutil.NopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := pool.Process(ctx, feed("a", "b"),
		func(_ context.Context, in worker.Input) (interface{}, error) {
			return in, nil
		})

	count := 0
	for range results {
		count++
	}
	// workers observe cancellation; the channel still closes
	assert.LessOrEqual(t, count, 2)
}
