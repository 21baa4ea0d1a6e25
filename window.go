package ratelimit

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// windowState is the persisted state of the sliding window algorithm.
// Counts reflect attempted cost, not just admitted cost.
type windowState struct {
	WindowStart     int64 `json:"ws"`  // epoch ms, aligned to a window boundary
	Count           int64 `json:"n"`   // cost accumulated in the current window
	PrevWindowStart int64 `json:"pws"` // epoch ms of the previous window
	PrevCount       int64 `json:"pn"`  // cost accumulated in the previous window
}

// SlidingWindow implements a sliding window approximation of request
// counting. Requests are counted into fixed windows, and the previous
// window's count is carried into the decision with a weight that decays
// linearly from 1 at window start to 0 at window end. This smooths the
// burst-at-the-boundary behavior of a plain fixed window without keeping
// a log of timestamps.
type SlidingWindow struct {
	limit    int64
	windowMs int64
	policy   string
}

// NewSlidingWindow creates a sliding window algorithm allowing limit units
// per window. Both arguments must be positive.
func NewSlidingWindow(limit int64, window time.Duration) (*SlidingWindow, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidConfig, limit)
	}
	if window <= 0 {
		return nil, fmt.Errorf("%w: window must be positive, got %s", ErrInvalidConfig, window)
	}
	return &SlidingWindow{
		limit:    limit,
		windowMs: window.Milliseconds(),
		policy:   fmt.Sprintf("%d;w=%d", limit, int64(math.Round(window.Seconds()))),
	}, nil
}

// Compute advances the window state by one request of the given cost.
//
// The cost is recorded unconditionally, even when it causes a denial: the
// window counter reflects attempted cost, so repeated over-cost attempts do
// not get a free retry inside the same window.
func (s *SlidingWindow) Compute(prev []byte, cost int64, now time.Time) ([]byte, Result, time.Duration, error) {
	nowMs := now.UnixMilli()
	curStart := (nowMs / s.windowMs) * s.windowMs

	st := windowState{
		WindowStart:     curStart,
		PrevWindowStart: curStart - s.windowMs,
	}
	if prev != nil {
		if err := json.Unmarshal(prev, &st); err != nil {
			return nil, Result{}, 0, fmt.Errorf("%w: %v", ErrMalformedState, err)
		}
		// Clock went backwards relative to the stored state. Evaluate at
		// the stored window's start instead of rolling anything back.
		if nowMs < st.WindowStart {
			nowMs = st.WindowStart
			curStart = st.WindowStart
		}
	}

	if st.WindowStart != curStart {
		if st.WindowStart == curStart-s.windowMs {
			// Contiguous rollover: the stored window becomes the
			// previous window and keeps contributing weight.
			st.PrevWindowStart = st.WindowStart
			st.PrevCount = st.Count
		} else {
			// A gap of two or more windows: nothing carries over.
			st.PrevWindowStart = curStart - s.windowMs
			st.PrevCount = 0
		}
		st.WindowStart = curStart
		st.Count = 0
	}

	// Saturating add: the counter must never wrap negative, no matter how
	// large the attempted cost is.
	if cost > math.MaxInt64-st.Count {
		st.Count = math.MaxInt64
	} else {
		st.Count += cost
	}

	effective := float64(st.Count)
	if st.PrevWindowStart == curStart-s.windowMs {
		weight := float64(s.windowMs-(nowMs-curStart)) / float64(s.windowMs)
		effective += weight * float64(st.PrevCount)
	}

	remaining := int64(math.Floor(float64(s.limit) - effective))
	if remaining < 0 {
		remaining = 0
	}

	windowEnd := st.WindowStart + s.windowMs
	res := Result{
		Allowed:    effective <= float64(s.limit),
		Limit:      s.limit,
		Remaining:  remaining,
		Reset:      ceilMillisToSeconds(windowEnd),
		RetryAfter: NoRetryAfter,
		Policy:     s.policy,
	}
	if !res.Allowed {
		// Conservative bound: wait until the current window closes. The
		// true earliest retry may be sooner as the previous window's
		// weight keeps decaying, but that tighter bound is not computed.
		res.RetryAfter = time.Duration(max(0, windowEnd-nowMs)) * time.Millisecond
	}

	// Retain the state through this window and the next; beyond that it can
	// no longer contribute to any decision.
	ttlMs := max(int64(1000), st.WindowStart+2*s.windowMs-nowMs)

	next, err := json.Marshal(&st)
	if err != nil {
		return nil, Result{}, 0, err
	}
	return next, res, time.Duration(ttlMs) * time.Millisecond, nil
}

// ceilMillisToSeconds converts an epoch-ms timestamp to epoch seconds,
// rounding up.
func ceilMillisToSeconds(ms int64) int64 {
	return (ms + 999) / 1000
}
