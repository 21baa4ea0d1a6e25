package ratelimit

import (
	"math"
	"strconv"
)

// HeaderConfig selects which rate-limiting header families are emitted.
// The zero value emits no headers at all.
type HeaderConfig struct {
	// Standard enables the RateLimit-Limit, RateLimit-Remaining and
	// RateLimit-Reset headers.
	Standard bool
	// Legacy enables the X-RateLimit-* variants of the same headers.
	Legacy bool
	// Policy enables the RateLimit-Policy header carrying the quota
	// descriptor, when the decision has one.
	Policy bool
}

// DefaultHeaderConfig emits the standard RateLimit-* family only.
func DefaultHeaderConfig() HeaderConfig {
	return HeaderConfig{Standard: true}
}

// Headers formats a decision into protocol-level header name/value pairs.
//
// Retry-After (whole seconds, rounded up) is included whenever the decision
// carries a retry hint and at least one header family is enabled.
func Headers(res Result, cfg HeaderConfig) map[string]string {
	h := make(map[string]string)

	limit := strconv.FormatInt(res.Limit, 10)
	remaining := strconv.FormatInt(res.Remaining, 10)
	reset := strconv.FormatInt(res.Reset, 10)

	if cfg.Standard {
		h["RateLimit-Limit"] = limit
		h["RateLimit-Remaining"] = remaining
		h["RateLimit-Reset"] = reset
	}
	if cfg.Legacy {
		h["X-RateLimit-Limit"] = limit
		h["X-RateLimit-Remaining"] = remaining
		h["X-RateLimit-Reset"] = reset
	}
	if cfg.Policy && res.Policy != "" {
		h["RateLimit-Policy"] = res.Policy
	}
	if res.RetryAfter >= 0 && (cfg.Standard || cfg.Legacy) {
		secs := int64(math.Ceil(res.RetryAfter.Seconds()))
		h["Retry-After"] = strconv.FormatInt(secs, 10)
	}

	return h
}
