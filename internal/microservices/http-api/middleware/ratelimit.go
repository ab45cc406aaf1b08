package middleware

import (
	"github.com/gin-gonic/gin"

	"bookrental/internal/apperror"
	"bookrental/internal/ratelimit"
)

var errTooManyAttempts = apperror.RateLimited("too many login attempts, try again later")

// RateLimit throttles requests per client IP.
func RateLimit(limiter *ratelimit.KeyedRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.Header("Retry-After", "1")
			AbortWithError(c, errTooManyAttempts)
			return
		}
		c.Next()
	}
}
