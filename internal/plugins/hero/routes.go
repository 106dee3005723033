package hero

import "github.com/labstack/echo/v4"

// RegisterRoutes sets up the wizard routes on an authenticated group.
func RegisterRoutes(g *echo.Group, h *Handler) {
	g.GET("/adventures/:id/hero", h.Show)
	g.POST("/adventures/:id/hero", h.Submit)
}
