package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	defaultCSP = "default-src 'self'"
	docsCSP    = "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:"
	docsPrefix = "/docs"
)

// SecurityHeaders sets the hardening headers on every response, including errors and unmatched routes
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")

		if isDocsPath(c.Request.URL.Path) {
			h.Set("Content-Security-Policy", docsCSP)
		} else {
			h.Set("Content-Security-Policy", defaultCSP)
		}

		c.Next()
	}
}

func isDocsPath(path string) bool {
	return path == docsPrefix || strings.HasPrefix(path, docsPrefix+"/")
}
