package gin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	ratelimit "github.com/naveenbhavnani/ratelimit-kit"
)

// RateLimiter creates a new Gin middleware handler.
//
// It uses the provided Limiter to check whether a request should be allowed
// or denied, and writes the configured rate-limiting header families on
// every response. The behavior can be customized by passing functional
// options, such as changing how a client is identified (WithKeyFunc), how
// much a request costs (WithCostFunc) or how rate limit errors are handled
// (WithErrorHandler).
//
// Example:
//
//	alg, _ := ratelimit.NewSlidingWindow(100, time.Minute)
//	limiter, _ := ratelimit.New(st, alg)
//	router := gin.Default()
//	router.Use(ginmiddleware.RateLimiter(limiter))
func RateLimiter(limiter *ratelimit.Limiter, options ...ratelimit.Option) gin.HandlerFunc {
	cfg := ratelimit.NewConfig(options...)

	return func(c *gin.Context) {
		key, err := cfg.KeyFunc(c.Request)
		if err != nil {
			cfg.Logger.Errorf("Failed to extract key: %v", err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		result, err := limiter.AllowN(c.Request.Context(), key, cfg.CostFunc(c.Request))
		if err != nil {
			cfg.Logger.Errorf("Limiter failed for key '%s': %v", key, err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		for name, value := range ratelimit.Headers(result, cfg.Headers) {
			c.Header(name, value)
		}

		if !result.Allowed {
			cfg.Logger.Debugf(
				"Request denied for key '%s'. Remaining: %d, Limit: %d",
				key, result.Remaining, result.Limit,
			)
			cfg.ErrorHandler(c.Writer, c.Request, ratelimit.ErrLimitExceeded, result)
			c.Abort()
			return
		}

		cfg.Logger.Debugf(
			"Request allowed for key '%s'. Remaining: %d, Limit: %d",
			key, result.Remaining, result.Limit,
		)

		c.Next()
	}
}
