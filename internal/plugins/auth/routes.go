package auth

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/saga/internal/middleware"
)

// RegisterRoutes sets up the public auth routes. RequireAuth is exported
// separately for the other plugins' route groups.
//
// POST endpoints are rate-limited per IP: 10 attempts per minute for login,
// 5 for register.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/login", h.LoginForm)
	e.POST("/login", h.Login, middleware.RateLimit(10, time.Minute))
	e.GET("/register", h.RegisterForm)
	e.POST("/register", h.Register, middleware.RateLimit(5, time.Minute))

	e.POST("/logout", h.Logout)
}
