// middleware/rate_limiter.go

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/revguard/api/db"
	logger "github.com/revguard/api/logging"
	"github.com/revguard/api/util"
)

// RateLimiter caps requests per client IP in a fixed Redis-backed window.
func RateLimiter(limit int, per time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		allowed, err := db.RateLimit(c.Request.Context(), key, limit, per)
		if err != nil {
			logger.Error("Rate limiting failed", zap.Error(err), zap.String("ip", key))
			util.RespondWithError(c, http.StatusInternalServerError, "Rate limiting failed", err)
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Duration", per.String())

		if !allowed {
			logger.Warn("Rate limit exceeded",
				zap.String("ip", key),
				zap.Int("limit", limit),
				zap.Duration("per", per))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, util.Envelope{
				Status:  http.StatusTooManyRequests,
				Message: "Rate limit exceeded",
				Data:    []interface{}{},
			})
			return
		}

		c.Next()
	}
}
