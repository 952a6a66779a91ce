package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BarkinBalci/churn-prediction-service/internal/dto"
)

// Allower admits or rejects a request from a client identity
type Allower interface {
	Allow(identity string) (bool, time.Duration)
	Window() time.Duration
}

// RateLimit throttles requests per client IP
func RateLimit(limiter Allower, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := c.ClientIP()

		allowed, retryAfter := limiter.Allow(identity)
		if allowed {
			c.Next()
			return
		}

		seconds := int(math.Ceil(retryAfter.Seconds()))
		if seconds < 1 {
			seconds = 1
		}

		log.Warn("Rate limit exceeded",
			zap.String("client_ip", identity),
			zap.String("path", c.Request.URL.Path),
			zap.Int("retry_after_seconds", seconds))

		c.Header("Retry-After", strconv.Itoa(seconds))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse{
			Error:   "rate_limited",
			Message: fmt.Sprintf("Rate limit exceeded for client %s per %s window", identity, limiter.Window()),
		})
	}
}
