package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/labstack/echo/v4"
)

// csrfTokenLength is the number of random bytes in a CSRF token (32 bytes = 64 hex chars).
const csrfTokenLength = 32

// csrfCookieName is the name of the cookie that stores the CSRF token.
const csrfCookieName = "saga_csrf"

// csrfHeaderName is the header that HTMX sends the CSRF token in.
const csrfHeaderName = "X-CSRF-Token"

// csrfFormField is the hidden form field name for non-HTMX form submissions.
const csrfFormField = "csrf_token"

const contextKeyCSRF = "csrf_token"

// CSRF implements the double-submit cookie pattern. A random token is kept
// in a cookie readable by htmx; every state-changing request must echo it in
// the X-CSRF-Token header or the csrf_token form field.
func CSRF() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			cookie, err := req.Cookie(csrfCookieName)
			if err != nil || cookie.Value == "" {
				token, genErr := generateCSRFToken()
				if genErr != nil {
					return echo.NewHTTPError(http.StatusInternalServerError, "failed to generate CSRF token")
				}

				c.SetCookie(&http.Cookie{
					Name:     csrfCookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: false,
					Secure:   IsSecure(req),
					SameSite: http.SameSiteLaxMode,
				})

				c.Set(contextKeyCSRF, token)
			} else {
				c.Set(contextKeyCSRF, cookie.Value)
			}

			if isSafeMethod(req.Method) {
				return next(c)
			}

			// A freshly issued cookie cannot have been echoed yet.
			cookieToken, _ := c.Get(contextKeyCSRF).(string)
			submittedToken := req.Header.Get(csrfHeaderName)
			if submittedToken == "" {
				submittedToken = req.FormValue(csrfFormField)
			}

			if cookie == nil || submittedToken == "" || subtle.ConstantTimeCompare([]byte(submittedToken), []byte(cookieToken)) != 1 {
				return echo.NewHTTPError(http.StatusForbidden, "Страница устарела. Обновите её и повторите действие.")
			}

			return next(c)
		}
	}
}

// isSafeMethod returns true for HTTP methods that should not change state.
func isSafeMethod(method string) bool {
	return method == http.MethodGet ||
		method == http.MethodHead ||
		method == http.MethodOptions
}

// generateCSRFToken generates a cryptographically random hex-encoded token.
func generateCSRFToken() (string, error) {
	b := make([]byte, csrfTokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GetCSRFToken returns the request's CSRF token for embedding in forms.
func GetCSRFToken(c echo.Context) string {
	token, _ := c.Get(contextKeyCSRF).(string)
	return token
}

// IsSecure reports whether the client reached Saga over HTTPS, directly or
// through the proxy.
func IsSecure(req *http.Request) bool {
	return req.TLS != nil || req.Header.Get(echo.HeaderXForwardedProto) == "https"
}
