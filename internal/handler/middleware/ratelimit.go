package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionLimiter is the slice of the rate limiter the middleware consumes.
type SessionLimiter interface {
	Allow(ctx context.Context, bucket, key string) (bool, error)
}

// RateLimit applies the named bucket to the authenticated user, falling back
// to the client IP before auth has run. Limiter failures fail open.
func RateLimit(limiter SessionLimiter, bucket string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if userID, ok := GetUserID(c); ok {
			key = userID.String()
		}

		allowed, err := limiter.Allow(c.Request.Context(), bucket, key)
		if err != nil {
			slog.Warn("rate limiter unavailable", "bucket", bucket, "error", err.Error())
			c.Next()
			return
		}
		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
