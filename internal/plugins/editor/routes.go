package editor

import (
	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/saga/internal/adventures"
)

// RegisterRoutes sets up the editor routes for templates and runs on an
// authenticated group.
func RegisterRoutes(g *echo.Group, service EditorService) {
	templates := NewHandler(service, adventures.ScopeTemplates)
	register(g, "/adventures/:id", templates)
	g.POST("/adventures/:id/edit/hero-setup", templates.SaveHeroSetup)
	g.GET("/adventures/:id/export", templates.Export)

	register(g, "/adventures/runs/:id", NewHandler(service, adventures.ScopeRuns))
}

func register(g *echo.Group, prefix string, h *Handler) {
	g.GET(prefix+"/edit", h.Page)
	g.POST(prefix+"/edit/general", h.SaveGeneral)
	g.POST(prefix+"/edit/:tab/save", h.SaveEntity)
	g.POST(prefix+"/edit/:tab/edit/:eid", h.BeginEdit)
	g.POST(prefix+"/edit/:tab/cancel", h.Cancel)
	g.GET(prefix+"/edit/:tab/delete/:eid", h.ConfirmDelete)
	g.POST(prefix+"/edit/:tab/delete/:eid", h.Delete)
}
