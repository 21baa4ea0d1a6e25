package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveenbhavnani/ratelimit-kit/store"
)

func TestMemoryStore_LoadSave(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("missing key reads as absent", func(t *testing.T) {
		s := store.NewMemory(ctx, 0)
		state, err := s.Load(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, state)
	})

	t.Run("round trip", func(t *testing.T) {
		s := store.NewMemory(ctx, 0)
		require.NoError(t, s.Save(ctx, "k", []byte(`{"t":5}`), time.Minute))

		state, err := s.Load(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"t":5}`), state)
	})

	t.Run("save overwrites", func(t *testing.T) {
		s := store.NewMemory(ctx, 0)
		require.NoError(t, s.Save(ctx, "k", []byte("old"), time.Minute))
		require.NoError(t, s.Save(ctx, "k", []byte("new"), time.Minute))

		state, err := s.Load(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("new"), state)
	})

	t.Run("non-positive ttl removes the entry", func(t *testing.T) {
		s := store.NewMemory(ctx, 0)
		require.NoError(t, s.Save(ctx, "k", []byte("v"), time.Minute))
		require.NoError(t, s.Save(ctx, "k", []byte("v"), 0))

		state, err := s.Load(ctx, "k")
		require.NoError(t, err)
		assert.Nil(t, state)
		assert.Zero(t, s.Len())
	})

	t.Run("expired entry reads as absent", func(t *testing.T) {
		s := store.NewMemory(ctx, 0)
		require.NoError(t, s.Save(ctx, "k", []byte("v"), 10*time.Millisecond))

		time.Sleep(25 * time.Millisecond)

		state, err := s.Load(ctx, "k")
		require.NoError(t, err)
		assert.Nil(t, state)
		assert.Zero(t, s.Len(), "lazy purge removes the expired entry")
	})

	t.Run("load returns a copy", func(t *testing.T) {
		s := store.NewMemory(ctx, 0)
		require.NoError(t, s.Save(ctx, "k", []byte("abc"), time.Minute))

		first, err := s.Load(ctx, "k")
		require.NoError(t, err)
		first[0] = 'X'

		second, err := s.Load(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), second)
	})
}

func TestMemoryStore_Reset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := store.NewMemory(ctx, 0)
	require.NoError(t, s.Save(ctx, "k", []byte("v"), time.Minute))

	require.NoError(t, s.Reset(ctx, "k"))

	state, err := s.Load(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, state)

	assert.NoError(t, s.Reset(ctx, "never-existed"))
}

func TestMemoryStore_BackgroundCleanup(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := store.NewMemory(ctx, 20*time.Millisecond)
	require.NoError(t, s.Save(ctx, "short", []byte("v"), 10*time.Millisecond))
	require.NoError(t, s.Save(ctx, "long", []byte("v"), time.Hour))

	require.Eventually(t, func() bool {
		return s.Len() == 1
	}, time.Second, 10*time.Millisecond, "sweeper should purge only the expired entry")
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := store.NewMemory(ctx, 0)

	var wg sync.WaitGroup
	for g := 0; g < 20; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_ = s.Save(ctx, "shared", []byte("state"), time.Minute)
				_, _ = s.Load(ctx, "shared")
			}
		}()
	}
	wg.Wait()

	state, err := s.Load(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, []byte("state"), state)
}
