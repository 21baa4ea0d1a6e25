package ratelimit

import "time"

// NoRetryAfter marks a Result that carries no retry hint. A denied request
// may still have no well-defined retry time, for example when the cost can
// never be satisfied by the configured capacity.
const NoRetryAfter time.Duration = -1

// Result contains the outcome of a rate limit check.
// It provides the necessary data to populate standard rate-limiting HTTP
// headers. A Result is never mutated after it is returned.
type Result struct {
	// Allowed indicates whether the request is permitted.
	Allowed bool
	// Limit is the total quota of the configured window or bucket.
	Limit int64
	// Remaining is the number of units left before requests are denied.
	// It is clamped to zero, never negative.
	Remaining int64
	// Reset is the epoch time in seconds at which the window or bucket is
	// expected to allow a fresh decision.
	Reset int64
	// RetryAfter is how long to wait until at least one more unit of cost
	// is admissible. It is NoRetryAfter when the decision carries no retry
	// hint, which is always the case for allowed requests.
	RetryAfter time.Duration
	// Now is the evaluation time the decision was computed against.
	Now time.Time
	// Policy is a human-readable quota descriptor such as "100;w=60",
	// suitable for the RateLimit-Policy header.
	Policy string
}
