// Package controller provides the HTTP handlers of the vocabulary JSON API.
package controller

import (
	"github.com/vocabnest/vocabnest/web/locale"

	"github.com/gin-gonic/gin"
)

// BaseController provides helpers shared by all controllers.
type BaseController struct{}

// I18nWeb retrieves a message in the language of the current request.
func I18nWeb(c *gin.Context, name string, params ...string) string {
	return locale.I18n(c, name, params...)
}
