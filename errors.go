package ratelimit

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned at construction time for non-positive
	// limits, windows, capacities or refill rates. It is never returned
	// from a decision.
	ErrInvalidConfig = errors.New("ratelimit: invalid configuration")

	// ErrInvalidKey is returned when a rate limit key is empty.
	ErrInvalidKey = errors.New("ratelimit: key cannot be empty")

	// ErrStoreFailure classifies any failure of a store operation. Errors
	// of this class are propagated to the caller without retries; the
	// decision is indeterminate, neither allow nor deny.
	ErrStoreFailure = errors.New("ratelimit: store failure")

	// ErrMalformedState is returned when previously persisted state cannot
	// be decoded. It wraps ErrStoreFailure: silently treating corrupt state
	// as absent would let a client shed its accumulated quota.
	ErrMalformedState = fmt.Errorf("%w: malformed state", ErrStoreFailure)

	// ErrResetUnsupported is returned by Limiter.Reset when the configured
	// store does not implement the optional StoreResetter capability.
	ErrResetUnsupported = errors.New("ratelimit: store does not support reset")

	// ErrLimitExceeded is the sentinel passed to middleware error handlers
	// when a request is denied. It can be used by custom handlers to check
	// for this specific condition.
	ErrLimitExceeded = errors.New("ratelimit: rate limit exceeded")
)
