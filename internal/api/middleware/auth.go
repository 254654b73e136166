package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminKeyHeader is the header carrying the admin API key.
const AdminKeyHeader = "X-Admin-Key"

// AdminAuth returns a middleware that protects admin endpoints with a shared
// API key. A missing header is 401, a wrong key is 403. When no key is
// configured on the server the admin surface is disabled entirely.
func AdminAuth(expectedKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if expectedKey == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error": "Admin API is not configured",
			})
			return
		}

		provided := c.GetHeader(AdminKeyHeader)
		if provided == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Missing X-Admin-Key header",
			})
			return
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(expectedKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Invalid admin API key",
			})
			return
		}

		c.Next()
	}
}
