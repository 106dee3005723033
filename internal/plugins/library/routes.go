package library

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up the library routes on an authenticated group.
func RegisterRoutes(g *echo.Group, h *Handler) {
	g.GET("/adventures", h.Index)
	g.POST("/adventures", h.Create)
	g.POST("/adventures/import", h.Import)
	g.POST("/adventures/:id/start", h.Start)
	g.GET("/adventures/:id/delete", h.ConfirmDeleteTemplate)
	g.POST("/adventures/:id/delete", h.DeleteTemplate)
	g.GET("/adventures/runs/:id/delete", h.ConfirmDeleteRun)
	g.POST("/adventures/runs/:id/delete", h.DeleteRun)
}
