package middleware

import (
	"strings"

	"fullscope-site-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

// ClientIP returns the first present proxy header value: CF-Connecting-IP,
// then the first X-Forwarded-For entry, then X-Real-IP. Empty when none is
// set; gin's RemoteAddr fallback is not used.
func ClientIP(r interface{ Get(string) string }) string {
	if ip := strings.TrimSpace(r.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}
	if xff := r.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	return strings.TrimSpace(r.Get("X-Real-IP"))
}

// ClientIdentity stores the resolved client IP on the context
func ClientIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(string(domain.KeyClientIP), ClientIP(c.Request.Header))
		c.Next()
	}
}

// GetClientIP reads the value stored by ClientIdentity
func GetClientIP(c *gin.Context) string {
	return c.GetString(string(domain.KeyClientIP))
}
