package nethttp

import (
	"net/http"

	ratelimit "github.com/naveenbhavnani/ratelimit-kit"
)

// Middleware creates a new middleware handler for the standard `net/http` library.
//
// It wraps an existing `http.Handler` and checks incoming requests against
// the provided Limiter. On every request it derives a key and a cost from
// the configured functions, asks the limiter for a decision, and adds the
// configured rate-limiting header families to the response. Denied requests
// receive a 429 by default; store failures yield a 500 since the decision is
// indeterminate. The behavior can be customized using functional options.
//
// Example:
//
//	st := store.NewMemory(ctx, time.Minute)
//	alg, _ := ratelimit.NewSlidingWindow(100, time.Minute)
//	limiter, _ := ratelimit.New(st, alg)
//
//	mux := http.NewServeMux()
//	mux.HandleFunc("/", myHandler)
//	http.ListenAndServe(":8080", nethttp.Middleware(limiter)(mux))
func Middleware(limiter *ratelimit.Limiter, options ...ratelimit.Option) func(http.Handler) http.Handler {
	cfg := ratelimit.NewConfig(options...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, err := cfg.KeyFunc(r)
			if err != nil {
				cfg.Logger.Errorf("Failed to extract key: %v", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			result, err := limiter.AllowN(r.Context(), key, cfg.CostFunc(r))
			if err != nil {
				cfg.Logger.Errorf("Limiter failed for key '%s': %v", key, err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			for name, value := range ratelimit.Headers(result, cfg.Headers) {
				w.Header().Set(name, value)
			}

			if !result.Allowed {
				cfg.Logger.Debugf(
					"Request denied for key '%s'. Remaining: %d, Limit: %d",
					key, result.Remaining, result.Limit,
				)
				cfg.ErrorHandler(w, r, ratelimit.ErrLimitExceeded, result)
				return
			}

			cfg.Logger.Debugf(
				"Request allowed for key '%s'. Remaining: %d, Limit: %d",
				key, result.Remaining, result.Limit,
			)
			next.ServeHTTP(w, r)
		})
	}
}
