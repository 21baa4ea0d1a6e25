package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// IPKey returns a KeyFunc that uses the client's IP address taken from
// r.RemoteAddr, with the port stripped.
func IPKey() KeyFunc {
	return func(r *http.Request) (string, error) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			// RemoteAddr might not carry a port in some edge cases.
			ip = r.RemoteAddr
		}
		if ip == "" {
			return "", fmt.Errorf("%w: empty remote address", ErrInvalidKey)
		}
		return "ip:" + ip, nil
	}
}

// ProxyIPKey returns a KeyFunc that considers proxy headers. It checks
// X-Forwarded-For and X-Real-IP before falling back to RemoteAddr, which
// matters when the application sits behind a reverse proxy or load balancer.
func ProxyIPKey() KeyFunc {
	direct := IPKey()
	return func(r *http.Request) (string, error) {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			// The first entry of the comma-separated list is the
			// original client.
			if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
				return "ip:" + ip, nil
			}
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return "ip:" + xri, nil
		}
		return direct(r)
	}
}

// HeaderKey returns a KeyFunc that uses the value of the named request
// header, e.g. an API key. Requests without the header are rejected.
func HeaderKey(name string) KeyFunc {
	return func(r *http.Request) (string, error) {
		v := r.Header.Get(name)
		if v == "" {
			return "", fmt.Errorf("%w: missing %s header", ErrInvalidKey, name)
		}
		return strings.ToLower(name) + ":" + v, nil
	}
}
