// Package store provides storage backends for github.com/naveenbhavnani/ratelimit-kit.
//
// Currently supported backends:
//   - MemoryStore: in-memory store for single-instance applications
//   - RedisStore: Redis-based store for distributed applications
//
// Stores implement the ratelimit.Store interface: opaque state bytes per key
// with a per-entry expiry, plus the optional reset capability.
//
// Example usage:
//
//	ctx := context.Background()
//	st := store.NewMemory(ctx, time.Minute) // cleanup interval = 1 minute
//	alg, _ := ratelimit.NewTokenBucket(100, 10)
//	limiter, _ := ratelimit.New(st, alg)
package store

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	ratelimit "github.com/naveenbhavnani/ratelimit-kit"
)

// entry holds one key's state together with its absolute expiry.
type entry struct {
	state     []byte
	expiresAt time.Time
}

// MemoryStore is an in-memory implementation of ratelimit.Store.
//
// Expired entries are treated as absent on Load and purged opportunistically;
// an optional background goroutine sweeps the whole map. Suitable for
// single-instance applications.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	logger  *slog.Logger
}

var (
	_ ratelimit.Store         = (*MemoryStore)(nil)
	_ ratelimit.StoreResetter = (*MemoryStore)(nil)
)

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithMemoryLogger sets the logger for cleanup activity. By default nothing
// is logged.
func WithMemoryLogger(logger *slog.Logger) MemoryOption {
	return func(s *MemoryStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewMemory creates a new MemoryStore.
//
// ctx bounds the lifecycle of the background cleanup goroutine.
// cleanupInterval is how often expired entries are swept; pass 0 to disable
// the sweep (expired entries are still dropped lazily on access).
func NewMemory(ctx context.Context, cleanupInterval time.Duration, opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]entry),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	if cleanupInterval > 0 {
		go s.runCleanup(ctx, cleanupInterval)
	}

	return s
}

// Load returns the state stored for key, or nil when there is none. An entry
// whose expiry has passed is deleted and reported as absent.
func (s *MemoryStore) Load(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	if !time.Now().Before(e.expiresAt) {
		delete(s.entries, key)
		return nil, nil
	}

	state := make([]byte, len(e.state))
	copy(state, e.state)
	return state, nil
}

// Save stores state under key for ttl. A ttl <= 0 removes any existing entry
// instead, so the key reads as absent immediately.
func (s *MemoryStore) Save(ctx context.Context, key string, state []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ttl <= 0 {
		delete(s.entries, key)
		return nil
	}

	stored := make([]byte, len(state))
	copy(stored, state)
	s.entries[key] = entry{state: stored, expiresAt: time.Now().Add(ttl)}
	return nil
}

// Reset removes the entry for key.
func (s *MemoryStore) Reset(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// Len reports the number of entries currently held, including entries that
// have expired but not yet been purged.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// runCleanup periodically removes expired entries until ctx is cancelled.
func (s *MemoryStore) runCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			removed := 0

			s.mu.Lock()
			for key, e := range s.entries {
				if !now.Before(e.expiresAt) {
					delete(s.entries, key)
					removed++
				}
			}
			s.mu.Unlock()

			if removed > 0 {
				s.logger.DebugContext(ctx, "purged expired rate limit entries",
					slog.Int("removed", removed))
			}
		case <-ctx.Done():
			return
		}
	}
}
