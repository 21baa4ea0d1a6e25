package ratelimit

import (
	"net/http"
)

// Logger is a simple interface for logging.
// Users can provide their own logger that implements this interface; the
// adapters subpackages wrap the common logging libraries behind it.
type Logger interface {
	Debugf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// noopLogger is a default logger that does nothing.
// It is used when no logger is provided by the user to avoid nil panics.
type noopLogger struct{}

func (l *noopLogger) Debugf(format string, args ...interface{}) {}
func (l *noopLogger) Errorf(format string, args ...interface{}) {}

// KeyFunc extracts a unique client identifier from an incoming HTTP request.
// The returned string is used as the rate limit key; it must be non-empty
// and deterministic for a given client. Common implementations use the
// client's IP address or an API key from a header.
type KeyFunc func(r *http.Request) (string, error)

// CostFunc computes how many quota units a request consumes. The returned
// value is normalized by the limiter (see Limiter.AllowN).
type CostFunc func(r *http.Request) float64

// ErrorHandler defines how to respond to a client when a rate limit is
// exceeded. This gives the user full control over the status code and body
// of the error response; rate-limiting headers have already been written by
// the middleware by the time it runs.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error, result Result)

// Config holds all configurable parameters for the middleware.
// It is built via functional options.
type Config struct {
	KeyFunc      KeyFunc
	CostFunc     CostFunc
	ErrorHandler ErrorHandler
	Logger       Logger
	Headers      HeaderConfig
}

// Option applies a configuration setting to a middleware Config.
type Option func(*Config)

// NewConfig creates a Config instance with default settings and then applies
// any provided functional options. Defaults: the client's remote address as
// the key, a constant cost of 1, a 429 "Too Many Requests" error response,
// no logging, and the standard RateLimit-* header family.
func NewConfig(opts ...Option) *Config {
	cfg := &Config{
		KeyFunc: func(r *http.Request) (string, error) {
			return r.RemoteAddr, nil
		},
		CostFunc: func(r *http.Request) float64 {
			return 1
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error, result Result) {
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		},
		Logger:  &noopLogger{},
		Headers: DefaultHeaderConfig(),
	}

	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithKeyFunc returns an Option that sets a custom function for client
// identification. This allows rate-limiting based on criteria like API keys,
// user IDs, etc.
func WithKeyFunc(f KeyFunc) Option {
	return func(c *Config) {
		if f != nil {
			c.KeyFunc = f
		}
	}
}

// WithCostFunc returns an Option that sets a custom per-request cost
// function, for example to charge expensive endpoints more than one unit.
func WithCostFunc(f CostFunc) Option {
	return func(c *Config) {
		if f != nil {
			c.CostFunc = f
		}
	}
}

// WithErrorHandler returns an Option that sets a custom handler for rate
// limit errors. This is useful for sending structured JSON error responses
// or logging detailed information.
func WithErrorHandler(f ErrorHandler) Option {
	return func(c *Config) {
		if f != nil {
			c.ErrorHandler = f
		}
	}
}

// WithLogger returns an Option that sets a custom logger.
func WithLogger(l Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// WithHeaders returns an Option that selects which header families the
// middleware emits.
func WithHeaders(h HeaderConfig) Option {
	return func(c *Config) {
		c.Headers = h
	}
}
