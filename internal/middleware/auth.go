package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BarkinBalci/churn-prediction-service/internal/config"
	"github.com/BarkinBalci/churn-prediction-service/internal/dto"
)

// APIKeyHeader carries the client's API key
const APIKeyHeader = "X-API-Key"

// APIKey rejects requests without a matching X-API-Key header when key checking is enabled
func APIKey(cfg config.APIKey, log *zap.Logger) gin.HandlerFunc {
	expected := []byte(cfg.Value)

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Next()
			return
		}

		if len(expected) == 0 {
			log.Error("API key checking is enabled but no key is configured")
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
				Error:   "configuration_error",
				Message: "API key authentication is misconfigured",
			})
			return
		}

		provided := c.GetHeader(APIKeyHeader)
		if provided == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "unauthorized",
				Message: "Missing API key. Provide it in the X-API-Key header",
			})
			return
		}

		if subtle.ConstantTimeCompare([]byte(provided), expected) != 1 {
			log.Warn("Rejected request with invalid API key",
				zap.String("client_ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{
				Error:   "forbidden",
				Message: "Invalid API key",
			})
			return
		}

		c.Next()
	}
}
