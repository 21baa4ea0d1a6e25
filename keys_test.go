package ratelimit_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ratelimit "github.com/naveenbhavnani/ratelimit-kit"
)

func TestIPKey(t *testing.T) {
	t.Parallel()

	t.Run("strips the port", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "203.0.113.7:54321"

		key, err := ratelimit.IPKey()(r)
		require.NoError(t, err)
		assert.Equal(t, "ip:203.0.113.7", key)
	})

	t.Run("accepts a bare address", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "203.0.113.7"

		key, err := ratelimit.IPKey()(r)
		require.NoError(t, err)
		assert.Equal(t, "ip:203.0.113.7", key)
	})

	t.Run("rejects an empty address", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = ""

		_, err := ratelimit.IPKey()(r)
		assert.ErrorIs(t, err, ratelimit.ErrInvalidKey)
	})
}

func TestProxyIPKey(t *testing.T) {
	t.Parallel()

	t.Run("prefers the first forwarded-for entry", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "10.0.0.1:80"
		r.Header.Set("X-Forwarded-For", "198.51.100.9, 10.0.0.2, 10.0.0.1")
		r.Header.Set("X-Real-IP", "198.51.100.10")

		key, err := ratelimit.ProxyIPKey()(r)
		require.NoError(t, err)
		assert.Equal(t, "ip:198.51.100.9", key)
	})

	t.Run("falls back to real-ip", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "10.0.0.1:80"
		r.Header.Set("X-Real-IP", "198.51.100.10")

		key, err := ratelimit.ProxyIPKey()(r)
		require.NoError(t, err)
		assert.Equal(t, "ip:198.51.100.10", key)
	})

	t.Run("falls back to the remote address", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "10.0.0.1:80"

		key, err := ratelimit.ProxyIPKey()(r)
		require.NoError(t, err)
		assert.Equal(t, "ip:10.0.0.1", key)
	})
}

func TestHeaderKey(t *testing.T) {
	t.Parallel()

	t.Run("uses the header value", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-API-Key", "abc123")

		key, err := ratelimit.HeaderKey("X-API-Key")(r)
		require.NoError(t, err)
		assert.Equal(t, "x-api-key:abc123", key)
	})

	t.Run("rejects requests without the header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		_, err := ratelimit.HeaderKey("X-API-Key")(r)
		assert.ErrorIs(t, err, ratelimit.ErrInvalidKey)
	})
}
