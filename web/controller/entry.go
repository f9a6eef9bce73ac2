package controller

import (
	"net/http"

	"github.com/vocabnest/vocabnest/database/model"
	"github.com/vocabnest/vocabnest/web/entity"
	"github.com/vocabnest/vocabnest/web/middleware"
	"github.com/vocabnest/vocabnest/web/service"

	"github.com/gin-gonic/gin"
)

// EntryController exposes the caller's vocabulary entries.
type EntryController struct {
	BaseController

	entryService *service.EntryService
}

// NewEntryController registers the /entries routes on g behind RequireAuth.
func NewEntryController(g *gin.RouterGroup, entryService *service.EntryService) *EntryController {
	a := &EntryController{entryService: entryService}
	a.initRouter(g)
	return a
}

func (a *EntryController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/entries", middleware.RequireAuth())

	g.GET("", a.list)
	g.POST("", a.create)
	g.PATCH("/:id", a.update)
	g.DELETE("/:id", a.delete)
}

func (a *EntryController) list(c *gin.Context) {
	entries, err := a.entryService.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		jsonError(c, "list entries", err)
		return
	}
	if entries == nil {
		entries = []model.VocabularyEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

func (a *EntryController) create(c *gin.Context) {
	form, ok := a.parseForm(c, "create entry")
	if !ok {
		return
	}
	entry, err := a.entryService.Create(c.Request.Context(), middleware.UserID(c), form.Fields())
	if err != nil {
		jsonError(c, "create entry", err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (a *EntryController) update(c *gin.Context) {
	form, ok := a.parseForm(c, "update entry")
	if !ok {
		return
	}
	entry, err := a.entryService.Update(c.Request.Context(), c.Param("id"), middleware.UserID(c), form.Fields())
	if err != nil {
		jsonError(c, "update entry", err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (a *EntryController) delete(c *gin.Context) {
	if err := a.entryService.Delete(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		jsonError(c, "delete entry", err)
		return
	}
	pureJsonMsg(c, http.StatusOK, I18nWeb(c, "api.entryDeleted"))
}

func (a *EntryController) parseForm(c *gin.Context, op string) (*entity.EntryForm, bool) {
	body, err := c.GetRawData()
	if err != nil {
		jsonError(c, op, err)
		return nil, false
	}
	form, err := entity.ParseEntryForm(body)
	if err != nil {
		jsonError(c, op, err)
		return nil, false
	}
	return form, true
}
