package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContactCORS answers preflight for the public form endpoint. The form may
// be posted from any origin, without credentials.
func ContactCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
