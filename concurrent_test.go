package ratelimit_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveenbhavnani/ratelimit-kit/store"

	ratelimit "github.com/naveenbhavnani/ratelimit-kit"
)

// Exercises the limiter from many goroutines against one shared store so the
// race detector can see the full load, compute, save path.
func TestLimiter_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	alg, err := ratelimit.NewTokenBucket(1000, 1)
	require.NoError(t, err)
	limiter, err := ratelimit.New(store.NewMemory(ctx, 0), alg)
	require.NoError(t, err)

	const (
		goroutines = 50
		perWorker  = 20
	)

	var wg sync.WaitGroup
	errs := make(chan error, goroutines*perWorker)

	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				res, err := limiter.Allow(ctx, "hot-key")
				if err != nil {
					errs <- err
					return
				}
				if res.Remaining < 0 || res.Remaining > 1000 {
					errs <- fmt.Errorf("remaining out of range: %d", res.Remaining)
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	// The overlapping checks may lose some updates, but the final state must
	// still be well formed and the key must remain rate limited.
	res, err := limiter.Allow(ctx, "hot-key")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), res.Limit)
	assert.GreaterOrEqual(t, res.Remaining, int64(0))
}
