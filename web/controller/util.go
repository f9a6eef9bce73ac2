package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/vocabnest/vocabnest/logger"
	"github.com/vocabnest/vocabnest/web/entity"
	"github.com/vocabnest/vocabnest/web/service"

	"github.com/gin-gonic/gin"
)

// getRemoteIp returns the client address. Forwarding headers count only
// when they come from a trusted proxy.
func getRemoteIp(c *gin.Context) string {
	return c.ClientIP()
}

// pureJsonMsg sends a {"message": ...} body with the given status.
func pureJsonMsg(c *gin.Context, statusCode int, msg string) {
	c.JSON(statusCode, entity.Msg{Message: msg})
}

// validationMsg localizes the first violated field rule.
func validationMsg(c *gin.Context, fe *entity.FieldError) string {
	return I18nWeb(c, "api.validation."+fe.Rule,
		"Field=="+fe.Field,
		"Limit=="+strconv.Itoa(fe.Limit),
	)
}

// jsonError maps err onto a status and message. Anything unexpected is
// logged with its stack and reported as a generic 500.
func jsonError(c *gin.Context, op string, err error) {
	var fe *entity.FieldError
	switch {
	case errors.As(err, &fe):
		pureJsonMsg(c, http.StatusBadRequest, validationMsg(c, fe))
	case errors.Is(err, service.ErrUsernameTaken):
		pureJsonMsg(c, http.StatusBadRequest, I18nWeb(c, "api.usernameTaken"))
	case errors.Is(err, service.ErrInvalidCredentials):
		pureJsonMsg(c, http.StatusUnauthorized, I18nWeb(c, "api.invalidCredentials"))
	case errors.Is(err, service.ErrEntryNotFound):
		pureJsonMsg(c, http.StatusNotFound, I18nWeb(c, "api.entryNotFound"))
	default:
		logger.Errorf("%s error: %+v", op, err)
		pureJsonMsg(c, http.StatusInternalServerError, I18nWeb(c, "api.internalError"))
	}
}
