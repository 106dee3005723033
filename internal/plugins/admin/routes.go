package admin

import (
	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/saga/internal/plugins/auth"
)

// RegisterRoutes sets up the admin routes on an authenticated group. The
// page is open from level 1; changes need level 2, checked per action.
func RegisterRoutes(g *echo.Group, h *Handler) {
	admin := g.Group("/admin", auth.RequireLevel(1, "Раздел доступен только администраторам."))
	admin.GET("", h.Index)
	admin.POST("", h.Add)
	admin.POST("/:id/level", h.SetLevel)
	admin.GET("/:id/delete", h.ConfirmRemove)
	admin.POST("/:id/delete", h.Remove)
}
