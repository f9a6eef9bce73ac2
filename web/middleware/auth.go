package middleware

import (
	"net/http"

	"github.com/vocabnest/vocabnest/logger"
	"github.com/vocabnest/vocabnest/web/entity"
	"github.com/vocabnest/vocabnest/web/locale"
	"github.com/vocabnest/vocabnest/web/session"

	"github.com/gin-gonic/gin"
)

const userIDKey = "user_id"

// RequireAuth rejects requests without an authenticated session and makes
// the user id available through UserID. Each authenticated request slides
// the session's idle timeout.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := session.Resolve(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, entity.Msg{Message: locale.I18n(c, "api.unauthorized")})
			return
		}
		if err := session.Touch(c); err != nil {
			logger.Warning("session touch failed:", err)
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the id stored by RequireAuth.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
