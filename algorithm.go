package ratelimit

import "time"

// Algorithm is a pure decision function mapping previously persisted state,
// a request cost and the current time to the next state, a decision and a
// state lifetime. Implementations must not touch a clock or perform I/O.
//
// State is opaque to everything but the algorithm that produced it: the
// orchestrator and the stores move it around as raw bytes. A nil prev means
// no state exists yet for the key; implementations synthesize a fresh,
// fully-capacitated state in that case.
//
// Implementations must tolerate now not advancing between calls for the same
// state (clock skew, replayed state): a non-forward time delta grants no
// refill and no decay, it never reverses consumption already recorded.
//
// The returned ttl is how long the next state remains meaningful for
// decision-making; once it elapses the state cannot influence any future
// decision and the store may drop it. The returned Result is complete except
// for Now, which the orchestrator stamps.
//
// The only error condition is state that cannot be decoded, reported as
// ErrMalformedState.
type Algorithm interface {
	Compute(prev []byte, cost int64, now time.Time) (next []byte, res Result, ttl time.Duration, err error)
}
