// Package app is the application bootstrap and dependency injection root.
// It holds the shared infrastructure (Redis client, backend client, live
// controller registry, Echo instance) and wires the plugins together.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/keyxmakerx/saga/internal/apperror"
	"github.com/keyxmakerx/saga/internal/backend"
	"github.com/keyxmakerx/saga/internal/collection"
	"github.com/keyxmakerx/saga/internal/config"
	"github.com/keyxmakerx/saga/internal/middleware"
	"github.com/keyxmakerx/saga/internal/plugins/auth"
	"github.com/keyxmakerx/saga/internal/templates"
	"github.com/keyxmakerx/saga/internal/templates/layouts"
)

// App holds all shared dependencies and the Echo HTTP server instance.
// Created once at startup in main.go and used to register all routes.
type App struct {
	Config *config.Config

	// Redis backs login sessions.
	Redis *redis.Client

	// Backend is the adventure API client shared by all plugins.
	Backend *backend.Client

	// Registry keeps the live editing controllers of every session.
	Registry *collection.Registry

	Echo *echo.Echo
}

// New creates an App and configures the Echo server with global middleware
// and error handling.
func New(cfg *config.Config, rdb *redis.Client, client *backend.Client) *App {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Trust the usual private ranges so c.RealIP() sees the client behind a
	// reverse proxy. Rate limiting keys on it.
	middleware.TrustedProxies(e, []string{
		"127.0.0.0/8",
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"fd00::/8",
	})

	app := &App{
		Config:   cfg,
		Redis:    rdb,
		Backend:  client,
		Registry: collection.NewRegistry(cfg.Session.ControllerIdleTTL),
		Echo:     e,
	}

	app.setupMiddleware()
	e.HTTPErrorHandler = app.errorHandler
	middleware.LayoutInjector = injectLayout

	e.Static("/static", "static")

	return app
}

// setupMiddleware registers global middleware. Order matters: recovery is
// outermost, CSRF runs last.
func (a *App) setupMiddleware() {
	a.Echo.Use(middleware.Recovery())
	a.Echo.Use(middleware.RequestID())
	a.Echo.Use(middleware.RequestLogger())
	a.Echo.Use(middleware.SecurityHeaders())
	a.Echo.Use(middleware.CSRF())
}

// injectLayout copies the signed-in user and the CSRF token into the
// render context.
func injectLayout(c echo.Context, ctx context.Context) context.Context {
	if sess := auth.GetSession(c); sess != nil {
		data := sess.Data()
		ctx = layouts.SetUser(ctx, data.Username, data.Level())
	}
	ctx = layouts.SetCSRFToken(ctx, middleware.GetCSRFToken(c))
	return layouts.SetActivePath(ctx, section(c.Request().URL.Path))
}

// section returns the top-level path segment, e.g. "/adventures".
func section(path string) string {
	rest := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return "/" + rest
}

// errorHandler maps AppErrors to HTTP responses and renders the error page.
// Unauthenticated requests go to the login page; HTMX requests get an
// HX-Redirect for that, and HX-Retarget for everything else so the error
// page replaces the body instead of landing in a partial target.
func (a *App) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := defaultErrorMessage(code)

	var appErr *apperror.AppError
	var echoErr *echo.HTTPError
	switch {
	case errors.As(err, &appErr):
		code = appErr.Code
		message = appErr.Message
		if appErr.Internal != nil {
			slog.Error("internal error",
				slog.String("type", appErr.Type),
				slog.String("message", appErr.Message),
				slog.Any("internal", appErr.Internal),
				slog.String("path", c.Request().URL.Path),
				slog.String("request_id", middleware.GetRequestID(c)),
			)
		}
	case errors.As(err, &echoErr):
		code = echoErr.Code
		message = defaultErrorMessage(code)
	default:
		slog.Error("unhandled error",
			slog.Any("error", err),
			slog.String("path", c.Request().URL.Path),
			slog.String("request_id", middleware.GetRequestID(c)),
		)
	}
	if message == "" {
		message = defaultErrorMessage(code)
	}

	if code == http.StatusUnauthorized {
		if middleware.IsHTMX(c) {
			c.Response().Header().Set("HX-Redirect", "/login")
			_ = c.NoContent(http.StatusNoContent)
			return
		}
		_ = c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	page := templates.ErrorPage(code, message)
	if middleware.IsHTMX(c) {
		// Fragment requests swap the error into the main area only.
		c.Response().Header().Set("HX-Retarget", "main")
		c.Response().Header().Set("HX-Reswap", "innerHTML")
		page = templates.ErrorContent(code, message)
	}

	if err := middleware.Render(c, code, page); err != nil {
		slog.Error("rendering error page", slog.Any("error", err))
		_ = c.String(code, message)
	}
}

// defaultErrorMessage returns a user-facing message for status codes that
// arrive without one.
func defaultErrorMessage(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "Некорректный запрос."
	case http.StatusForbidden:
		return "Недостаточно прав."
	case http.StatusNotFound:
		return "Страница не найдена."
	case http.StatusMethodNotAllowed:
		return "Действие недоступно."
	case http.StatusConflict:
		return "Действие конфликтует с текущим состоянием."
	case http.StatusUnprocessableEntity:
		return "Проверьте введенные данные."
	case http.StatusTooManyRequests:
		return "Слишком много запросов. Попробуйте позже."
	case http.StatusBadGateway, http.StatusGatewayTimeout:
		return "Сервер приключений недоступен. Попробуйте позже."
	default:
		return "Что-то пошло не так. Попробуйте еще раз."
	}
}

// Start begins listening for HTTP requests on the configured port.
func (a *App) Start() error {
	addr := fmt.Sprintf(":%d", a.Config.Port)
	slog.Info("starting Saga server",
		slog.String("addr", addr),
		slog.String("env", a.Config.Env),
		slog.String("backend", a.Config.Backend.URL),
	)
	return a.Echo.Start(addr)
}

// Shutdown drains in-flight requests and stops background work.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Echo.Shutdown(ctx)
	a.Registry.Close()
	return err
}
