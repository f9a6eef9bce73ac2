package controller

import (
	"net/http"

	"github.com/vocabnest/vocabnest/logger"
	"github.com/vocabnest/vocabnest/web/entity"
	"github.com/vocabnest/vocabnest/web/middleware"
	"github.com/vocabnest/vocabnest/web/service"
	"github.com/vocabnest/vocabnest/web/session"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// AuthController handles registration, login, logout and the current user.
type AuthController struct {
	BaseController

	userService *service.UserService
}

// NewAuthController registers the /auth routes on g.
func NewAuthController(g *gin.RouterGroup, userService *service.UserService, loginRateLimit int) *AuthController {
	a := &AuthController{userService: userService}
	a.initRouter(g, loginRateLimit)
	return a
}

func (a *AuthController) initRouter(g *gin.RouterGroup, loginRateLimit int) {
	g = g.Group("/auth")

	g.POST("/register", a.register)
	g.POST("/login", middleware.RateLimitMiddleware(middleware.LoginRateLimitConfig(loginRateLimit)), a.login)
	g.POST("/logout", a.logout)
	g.GET("/me", a.me)
}

func (a *AuthController) register(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		jsonError(c, "register", err)
		return
	}
	form, err := entity.ParseAuthForm(body)
	if err != nil {
		jsonError(c, "register", err)
		return
	}

	user, err := a.userService.Register(c.Request.Context(), *form.Username, *form.Password)
	if err != nil {
		jsonError(c, "register", err)
		return
	}

	if err := session.Create(c, user.Id); err != nil {
		jsonError(c, "register", errors.Wrap(err, "create session"))
		return
	}
	c.JSON(http.StatusCreated, entity.NewUserView(user))
}

// login answers every credential problem, including a malformed body, with
// the same 401 so that usernames cannot be probed.
func (a *AuthController) login(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		jsonError(c, "login", err)
		return
	}
	form, err := entity.ParseAuthForm(body)
	if err != nil {
		pureJsonMsg(c, http.StatusUnauthorized, I18nWeb(c, "api.invalidCredentials"))
		return
	}

	user, err := a.userService.Authenticate(c.Request.Context(), *form.Username, *form.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			logger.Warningf("failed login, IP: \"%s\"", getRemoteIp(c))
		}
		jsonError(c, "login", err)
		return
	}

	if err := session.Create(c, user.Id); err != nil {
		jsonError(c, "login", errors.Wrap(err, "create session"))
		return
	}
	logger.Infof("user %s logged in, IP: \"%s\"", user.Id, getRemoteIp(c))
	c.JSON(http.StatusOK, entity.NewUserView(user))
}

func (a *AuthController) logout(c *gin.Context) {
	if err := session.Destroy(c); err != nil {
		logger.Warning("logout failed:", err)
		pureJsonMsg(c, http.StatusInternalServerError, I18nWeb(c, "api.logoutFailed"))
		return
	}
	pureJsonMsg(c, http.StatusOK, I18nWeb(c, "api.loggedOut"))
}

func (a *AuthController) me(c *gin.Context) {
	userID, ok := session.Resolve(c)
	if !ok {
		pureJsonMsg(c, http.StatusUnauthorized, I18nWeb(c, "api.notAuthenticated"))
		return
	}

	user, err := a.userService.GetUser(c.Request.Context(), userID)
	if errors.Is(err, service.ErrUserNotFound) {
		if err := session.Destroy(c); err != nil {
			logger.Warning("destroy session of deleted user:", err)
		}
		pureJsonMsg(c, http.StatusUnauthorized, I18nWeb(c, "api.userNotFound"))
		return
	}
	if err != nil {
		jsonError(c, "get user", err)
		return
	}
	c.JSON(http.StatusOK, entity.NewUserView(user))
}
