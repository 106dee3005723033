package moderation

import (
	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/saga/internal/plugins/auth"
)

// RegisterRoutes sets up the moderation routes on an authenticated group.
func RegisterRoutes(g *echo.Group, h *Handler) {
	mod := g.Group("/moderation", auth.RequireLevel(1, "Раздел доступен только модераторам."))
	mod.GET("", h.Index)
	mod.POST("/:id/:decision", h.Decide)
}
