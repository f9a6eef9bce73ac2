package controller

import (
	"net/http"

	"github.com/vocabnest/vocabnest/database"
	"github.com/vocabnest/vocabnest/web/entity"
	"github.com/vocabnest/vocabnest/web/middleware"
	"github.com/vocabnest/vocabnest/web/service"

	"github.com/gin-gonic/gin"
)

// APIPrefix is the path every JSON route lives under.
const APIPrefix = "/api"

// APIController mounts the JSON API: authentication, entries and health.
type APIController struct {
	BaseController

	authController  *AuthController
	entryController *EntryController
}

// NewAPIController creates the services over store and registers all API routes on g.
func NewAPIController(g *gin.RouterGroup, store database.Storage, loginRateLimit int) *APIController {
	a := &APIController{}
	a.initRouter(g, store, loginRateLimit)
	return a
}

func (a *APIController) initRouter(g *gin.RouterGroup, store database.Storage, loginRateLimit int) {
	api := g.Group(APIPrefix)
	api.Use(middleware.NoStore())

	a.authController = NewAuthController(api, service.NewUserService(store), loginRateLimit)
	a.entryController = NewEntryController(api, service.NewEntryService(store))

	api.GET("/health", a.health)
}

func (a *APIController) health(c *gin.Context) {
	c.JSON(http.StatusOK, entity.Health{Status: "ok"})
}

// APINotFound answers unknown API paths.
func APINotFound(c *gin.Context) {
	pureJsonMsg(c, http.StatusNotFound, I18nWeb(c, "api.routeNotFound"))
}
