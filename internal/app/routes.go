package app

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/saga/internal/plugins/admin"
	"github.com/keyxmakerx/saga/internal/plugins/auth"
	"github.com/keyxmakerx/saga/internal/plugins/editor"
	"github.com/keyxmakerx/saga/internal/plugins/hero"
	"github.com/keyxmakerx/saga/internal/plugins/library"
	"github.com/keyxmakerx/saga/internal/plugins/moderation"
	"github.com/keyxmakerx/saga/internal/plugins/play"
	"github.com/keyxmakerx/saga/internal/session"
)

// RegisterRoutes sets up all application routes. Public routes are
// registered directly; every plugin page sits behind RequireAuth.
func (a *App) RegisterRoutes() {
	e := a.Echo

	e.GET("/healthz", a.healthz)

	sessions := session.NewManager(session.NewRedisStore(a.Redis), a.Config.Session.TTL)
	authSvc := auth.NewAuthService(auth.GatewayFor(a.Backend), sessions, a.Registry)
	auth.RegisterRoutes(e, auth.NewHandler(authSvc, a.Config.Session.TTL))

	g := e.Group("", auth.RequireAuth(authSvc))
	g.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, "/adventures")
	})

	library.RegisterRoutes(g, library.NewHandler(library.NewLibraryService(a.Registry)))
	editor.RegisterRoutes(g, editor.NewEditorService(a.Registry))
	hero.RegisterRoutes(g, hero.NewHandler(hero.NewHeroService()))
	play.RegisterRoutes(g, play.NewHandler(play.NewPlayService()))
	moderation.RegisterRoutes(g, moderation.NewHandler(moderation.NewModerationService()))
	admin.RegisterRoutes(g, admin.NewHandler(admin.NewAdminService(a.Registry)))
}

// healthz reports whether Redis answers.
func (a *App) healthz(c echo.Context) error {
	if err := a.Redis.Ping(c.Request().Context()).Err(); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "redis unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
