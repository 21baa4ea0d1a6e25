// Package ratelimit is an admission-control primitive: given a caller
// identity and a cost, it decides whether to allow or deny an operation
// within a configured rate, and for how long to deny it when over budget.
//
// Two algorithms are provided. SlidingWindow counts requests into fixed
// windows and carries the previous window's count with a linearly decaying
// weight, approximating a sliding window without a timestamp log.
// TokenBucket maintains a continuously refilling pool of tokens and allows
// bursts up to its capacity.
//
// Algorithms are pure functions over opaque persisted state; a Limiter
// composes one with a Store (see the store subpackage for in-memory and
// Redis backends) and a namespace, and runs the load, compute, save protocol
// per request:
//
//	st := store.NewMemory(ctx, time.Minute)
//	alg, err := ratelimit.NewSlidingWindow(100, time.Minute)
//	if err != nil {
//		log.Fatal(err)
//	}
//	limiter, err := ratelimit.New(st, alg, ratelimit.WithNamespace("api"))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := limiter.Allow(ctx, "user:123")
//	if err != nil {
//		// Store failure: the decision is indeterminate. Fail open or
//		// closed according to your own policy.
//		return err
//	}
//	if !result.Allowed {
//		log.Printf("denied, retry after %s", result.RetryAfter)
//	}
//
// The middleware subpackages wire a Limiter into net/http and Gin, emitting
// the standard RateLimit-* headers (and optionally the legacy X-RateLimit-*
// family) via Headers, and answering 429 Too Many Requests on denial.
//
// Note that the load, compute, save sequence is not atomic across processes
// sharing one store; see Limiter for the exact guarantees.
package ratelimit
