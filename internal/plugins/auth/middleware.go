package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/saga/internal/apperror"
	"github.com/keyxmakerx/saga/internal/backend"
	"github.com/keyxmakerx/saga/internal/middleware"
	"github.com/keyxmakerx/saga/internal/session"
)

// Context keys for storing session data in Echo context. Other plugins
// use the exported getters below.
const (
	contextKeySession   = "auth_session"
	contextKeyRequester = "auth_requester"
)

// RequireAuth returns middleware that resolves the session cookie and
// injects the session and its authorized backend requester into the
// context. Missing or expired sessions go to /login.
func RequireAuth(service AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := sessionFrom(c, service)
			if err != nil {
				clearSessionCookie(c)
				return handleUnauthenticated(c)
			}

			c.Set(contextKeySession, sess)
			c.Set(contextKeyRequester, service.Requester(sess))

			err = next(c)
			// A failed token refresh clears the session; drop the cookie too.
			if sess.Cleared() {
				clearSessionCookie(c)
			}
			return err
		}
	}
}

// RequireLevel returns middleware that admits users whose admin level is at
// least min. It must run after RequireAuth.
func RequireLevel(min int, denied string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := GetSession(c)
			if sess == nil {
				return handleUnauthenticated(c)
			}
			if sess.Data().Level() < min {
				return apperror.NewForbidden(denied)
			}
			return next(c)
		}
	}
}

// handleUnauthenticated redirects to the login page. HTMX requests get an
// HX-Redirect header so the whole page navigates.
func handleUnauthenticated(c echo.Context) error {
	if middleware.IsHTMX(c) {
		c.Response().Header().Set("HX-Redirect", "/login")
		return c.NoContent(http.StatusNoContent)
	}
	return c.Redirect(http.StatusSeeOther, "/login")
}

// --- Exported getters for other plugins ---

// GetSession retrieves the authenticated session from the Echo context.
// Returns nil if RequireAuth did not run.
func GetSession(c echo.Context) *session.Session {
	sess, ok := c.Get(contextKeySession).(*session.Session)
	if !ok {
		return nil
	}
	return sess
}

// GetRequester returns the backend requester authorized as the current user.
func GetRequester(c echo.Context) backend.Requester {
	r, ok := c.Get(contextKeyRequester).(backend.Requester)
	if !ok {
		return nil
	}
	return r
}

// Actor is the signed-in user as seen by plugin services: who they are and
// how to call the backend on their behalf.
type Actor struct {
	SessionID string
	UserID    int
	Username  string
	Level     int
	Requester backend.Requester
}

// GetActor builds the Actor of the current request. The zero Actor is
// returned when RequireAuth did not run.
func GetActor(c echo.Context) Actor {
	sess := GetSession(c)
	if sess == nil {
		return Actor{}
	}
	data := sess.Data()
	return Actor{
		SessionID: sess.ID,
		UserID:    data.UserID,
		Username:  data.Username,
		Level:     data.Level(),
		Requester: GetRequester(c),
	}
}
