package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/vocabnest/vocabnest/logger"
	"github.com/vocabnest/vocabnest/web/cache"
	"github.com/vocabnest/vocabnest/web/entity"
	"github.com/vocabnest/vocabnest/web/locale"

	"github.com/gin-gonic/gin"
)

// RateLimitConfig configures rate limiting
type RateLimitConfig struct {
	Prefix            string
	RequestsPerMinute int
	KeyFunc           func(c *gin.Context) string
}

// LoginRateLimitConfig limits login attempts per client IP.
func LoginRateLimitConfig(requestsPerMinute int) RateLimitConfig {
	return RateLimitConfig{
		Prefix:            "ratelimit:login:",
		RequestsPerMinute: requestsPerMinute,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
}

// RateLimitMiddleware counts requests per key in fixed one-minute windows
// kept in Redis. A non-positive limit disables it. When Redis is unavailable
// requests are let through.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if config.RequestsPerMinute <= 0 {
			c.Next()
			return
		}

		key := config.KeyFunc(c)
		count, err := cache.IncrWindow(config.Prefix+key, time.Minute)
		if err != nil {
			logger.Warning("Rate limit increment failed:", err)
			c.Next()
			return
		}

		remaining := config.RequestsPerMinute - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(config.RequestsPerMinute))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if int(count) > config.RequestsPerMinute {
			logger.Warningf("Rate limit exceeded for %s on %s (count: %d)", key, c.Request.URL.Path, count)
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, entity.Msg{Message: locale.I18n(c, "api.tooManyRequests")})
			return
		}

		c.Next()
	}
}
