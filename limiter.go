package ratelimit

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Store defines the persisted-state contract the limiter depends on.
// Implementations store opaque state bytes per key with a per-entry expiry.
//
// Load returns nil bytes and a nil error when no state exists for the key.
// An entry whose expiry has passed must be treated as absent, regardless of
// whether deletion has physically happened yet. Save overwrites any existing
// entry; a ttl <= 0 behaves as "already expired", never as "never expires".
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, state []byte, ttl time.Duration) error
}

// StoreResetter is the optional reset capability of a Store. Stores that
// cannot delete individual entries simply don't implement it.
type StoreResetter interface {
	Reset(ctx context.Context, key string) error
}

// Limiter composes a Store and an Algorithm under a namespace and executes
// the load, compute, save protocol per request. It is immutable after
// construction and safe for concurrent use.
//
// The three-step sequence is not atomic across concurrent callers sharing
// one store: two overlapping checks for the same key may both load the same
// prior state and the second save clobbers the first, slightly over-admitting
// that key. Backends that evaluate the whole load-modify-save transition
// server-side eliminate the race; the stores shipped with this module do not,
// and application-level locking across store round-trips is deliberately
// avoided as it would serialize every check on network latency.
type Limiter struct {
	store     Store
	algorithm Algorithm
	namespace string
}

// LimiterOption configures a Limiter.
type LimiterOption func(*Limiter)

// WithNamespace sets the string prefix isolating this limiter's keys from
// other limiters sharing the same store. The default namespace is "default".
func WithNamespace(namespace string) LimiterOption {
	return func(l *Limiter) {
		if namespace != "" {
			l.namespace = namespace
		}
	}
}

// New creates a Limiter from a store and an algorithm.
func New(store Store, algorithm Algorithm, opts ...LimiterOption) (*Limiter, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store is required", ErrInvalidConfig)
	}
	if algorithm == nil {
		return nil, fmt.Errorf("%w: algorithm is required", ErrInvalidConfig)
	}
	l := &Limiter{
		store:     store,
		algorithm: algorithm,
		namespace: "default",
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Allow checks whether one unit of cost is admissible for the given key.
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	return l.AllowN(ctx, key, 1)
}

// AllowN checks whether cost units are admissible for the given key.
//
// The cost is normalized before it reaches the algorithm: NaN and infinities
// become 1, negative values floor to 0, fractional values round down, and
// values beyond the int64 range saturate at the maximum. A zero-cost request
// is still evaluated and its state persisted.
//
// The new state is saved whether the decision was allow or deny, since the
// algorithms intentionally record attempted cost. Store failures propagate
// unretried; the caller must treat them as "unknown", not as either outcome.
func (l *Limiter) AllowN(ctx context.Context, key string, cost float64) (Result, error) {
	if key == "" {
		return Result{}, ErrInvalidKey
	}
	now := time.Now()
	fullKey := l.namespace + ":" + key

	prev, err := l.store.Load(ctx, fullKey)
	if err != nil {
		return Result{}, err
	}
	next, res, ttl, err := l.algorithm.Compute(prev, normalizeCost(cost), now)
	if err != nil {
		return Result{}, err
	}
	if err := l.store.Save(ctx, fullKey, next, ttl); err != nil {
		return Result{}, err
	}
	res.Now = now
	return res, nil
}

// Reset clears any accumulated state for the given key, restoring it to full
// capacity. It returns ErrResetUnsupported when the store does not implement
// the StoreResetter capability.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	r, ok := l.store.(StoreResetter)
	if !ok {
		return ErrResetUnsupported
	}
	return r.Reset(ctx, l.namespace+":"+key)
}

func normalizeCost(cost float64) int64 {
	if math.IsNaN(cost) || math.IsInf(cost, 0) {
		return 1
	}
	if cost < 0 {
		return 0
	}
	// Converting a float64 at or above 2^63 to int64 is undefined and wraps
	// negative on common platforms, so saturate before the conversion.
	if cost >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(math.Floor(cost))
}
