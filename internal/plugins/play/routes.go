package play

import "github.com/labstack/echo/v4"

// RegisterRoutes sets up the play routes on an authenticated group.
func RegisterRoutes(g *echo.Group, h *Handler) {
	g.GET("/adventures/:id/play", h.Show)
	g.POST("/adventures/:id/play/say", h.Send)
	g.POST("/adventures/:id/play/next", h.Next)
	g.POST("/adventures/:id/play/rollback/:eid", h.Rollback)
	g.POST("/adventures/:id/play/regenerate", h.Regenerate)
	g.GET("/adventures/:id/play/pdf", h.PDF)
}
