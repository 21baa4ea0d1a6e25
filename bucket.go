package ratelimit

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// bucketState is the persisted state of the token bucket algorithm.
type bucketState struct {
	Tokens     float64 `json:"t"`  // current tokens, always in [0, capacity]
	LastRefill int64   `json:"lr"` // epoch ms of the last refill
}

// TokenBucket implements the token bucket algorithm: a pool of capacity
// tokens refills continuously at a fixed rate, and each request consumes its
// cost in tokens. Bursts up to the full capacity are allowed while the
// sustained rate stays at the refill rate.
type TokenBucket struct {
	capacity    int64
	refillPerMs float64
	ttl         time.Duration
	policy      string
}

// NewTokenBucket creates a token bucket algorithm with the given capacity
// and refill rate in tokens per second. Both arguments must be positive.
func NewTokenBucket(capacity int64, refillRatePerSec float64) (*TokenBucket, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidConfig, capacity)
	}
	if refillRatePerSec <= 0 {
		return nil, fmt.Errorf("%w: refill rate must be positive, got %g", ErrInvalidConfig, refillRatePerSec)
	}
	refillPerMs := refillRatePerSec / 1000
	// Long enough for the bucket to refill from empty; after that, stale
	// state is indistinguishable from absent state.
	ttlMs := max(int64(1000), int64(math.Ceil(float64(capacity)/refillPerMs))+1000)
	return &TokenBucket{
		capacity:    capacity,
		refillPerMs: refillPerMs,
		ttl:         time.Duration(ttlMs) * time.Millisecond,
		policy:      fmt.Sprintf("%d;w=1;burst=%d", capacity, capacity),
	}, nil
}

// Compute refills the bucket for the elapsed time and tries to consume the
// given cost. A denied cost is never partially consumed, and the clock not
// advancing grants no refill.
func (b *TokenBucket) Compute(prev []byte, cost int64, now time.Time) ([]byte, Result, time.Duration, error) {
	nowMs := now.UnixMilli()

	st := bucketState{Tokens: float64(b.capacity), LastRefill: nowMs}
	if prev != nil {
		if err := json.Unmarshal(prev, &st); err != nil {
			return nil, Result{}, 0, fmt.Errorf("%w: %v", ErrMalformedState, err)
		}
		if nowMs > st.LastRefill {
			st.Tokens = math.Min(float64(b.capacity), st.Tokens+float64(nowMs-st.LastRefill)*b.refillPerMs)
			st.LastRefill = nowMs
		}
	}

	res := Result{
		Limit:      b.capacity,
		Reset:      ceilMillisToSeconds(nowMs + 1000),
		RetryAfter: NoRetryAfter,
		Policy:     b.policy,
	}
	if st.Tokens >= float64(cost) {
		st.Tokens -= float64(cost)
		res.Allowed = true
	} else {
		// An extreme cost over a slow refill rate can push the wait beyond
		// the representable duration range; saturate rather than wrap.
		waitMs := math.Ceil((float64(cost) - st.Tokens) / b.refillPerMs)
		if waitMs >= float64(math.MaxInt64/int64(time.Millisecond)) {
			res.RetryAfter = time.Duration(math.MaxInt64)
		} else {
			res.RetryAfter = time.Duration(waitMs) * time.Millisecond
		}
	}
	res.Remaining = int64(math.Floor(st.Tokens))

	next, err := json.Marshal(&st)
	if err != nil {
		return nil, Result{}, 0, err
	}
	return next, res, b.ttl, nil
}
