package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/saga/internal/apperror"
	"github.com/keyxmakerx/saga/internal/middleware"
	"github.com/keyxmakerx/saga/internal/session"
)

// sessionCookieName is the HTTP cookie carrying the session id.
const sessionCookieName = "saga_session"

// homePath is where a signed-in user lands.
const homePath = "/adventures"

// Handler handles HTTP requests for authentication (login, register, logout).
// Handlers are thin: they bind the request, call the service, and render the
// response.
type Handler struct {
	service AuthService
	ttl     time.Duration
}

// NewHandler creates a new auth handler. ttl is the session cookie lifetime.
func NewHandler(service AuthService, ttl time.Duration) *Handler {
	return &Handler{service: service, ttl: ttl}
}

// LoginForm renders the login page (GET /login).
func (h *Handler) LoginForm(c echo.Context) error {
	if h.signedIn(c) {
		return c.Redirect(http.StatusSeeOther, homePath)
	}
	return middleware.Render(c, http.StatusOK, loginPage(LoginView{}))
}

// Login processes the login form submission (POST /login).
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("Некорректный запрос.")
	}

	sess, err := h.service.Login(c.Request().Context(), req)
	if err != nil {
		view := LoginView{Username: req.Username, Error: formMessage(err, msgBadCredentials)}
		return middleware.Render(c, http.StatusOK, loginPage(view))
	}

	h.setSessionCookie(c, sess.ID)
	return middleware.Redirect(c, homePath)
}

// RegisterForm renders the registration page (GET /register).
func (h *Handler) RegisterForm(c echo.Context) error {
	if h.signedIn(c) {
		return c.Redirect(http.StatusSeeOther, homePath)
	}
	return middleware.Render(c, http.StatusOK, registerPage(RegisterView{}))
}

// Register processes the registration form submission (POST /register).
func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("Некорректный запрос.")
	}

	sess, err := h.service.Register(c.Request().Context(), req)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == http.StatusUnprocessableEntity {
			view := RegisterView{Username: req.Username, Email: req.Email, Error: appErr.Message}
			return middleware.Render(c, http.StatusOK, registerPage(view))
		}
		// The account may exist even though signing in failed.
		slog.Warn("registration did not complete",
			slog.String("username", req.Username),
			slog.Any("error", err),
		)
		view := RegisterView{Username: req.Username, Email: req.Email, Error: formMessage(err, msgRegisterFailed)}
		return middleware.Render(c, http.StatusOK, registerPage(view))
	}

	h.setSessionCookie(c, sess.ID)
	return middleware.Redirect(c, homePath)
}

// Logout destroys the session and clears the cookie (POST /logout).
func (h *Handler) Logout(c echo.Context) error {
	if id := getSessionID(c); id != "" {
		// The cookie is cleared regardless.
		if err := h.service.Logout(c.Request().Context(), id); err != nil {
			slog.Warn("logout failed", slog.Any("error", err))
		}
	}
	clearSessionCookie(c)
	return middleware.Redirect(c, "/login")
}

func (h *Handler) signedIn(c echo.Context) bool {
	id := getSessionID(c)
	if id == "" {
		return false
	}
	_, err := h.service.Open(c.Request().Context(), id)
	return err == nil
}

// formMessage picks the message shown inline on an auth form.
func formMessage(err error, fallback string) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}

// --- Cookie helpers ---

func getSessionID(c echo.Context) string {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	return cookie.Value
}

// setSessionCookie sets the session cookie. It is HttpOnly, Secure behind
// TLS, and SameSite=Lax.
func (h *Handler) setSessionCookie(c echo.Context, id string) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   middleware.IsSecure(c.Request()),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.ttl.Seconds()),
	})
}

func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// sessionFrom is used by the middleware; kept here beside the cookie helpers.
func sessionFrom(c echo.Context, service AuthService) (*session.Session, error) {
	id := getSessionID(c)
	if id == "" {
		return nil, apperror.NewUnauthorized("Войдите, чтобы продолжить.")
	}
	return service.Open(c.Request().Context(), id)
}
