package middleware

import (
	"github.com/gin-gonic/gin"
)

// NoStore marks responses as private to the caller so that shared caches
// and the browser never keep a copy of per-user data.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Header("Vary", "Cookie")
		c.Next()
	}
}
