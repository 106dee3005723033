package middleware

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/saga/internal/apperror"
)

// Recovery turns a handler panic into a logged 500 rendered by the error
// handler.
func Recovery() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (returnErr error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				slog.Error("panic recovered",
					slog.Any("panic", r),
					slog.String("stack", string(debug.Stack())),
					slog.String("method", c.Request().Method),
					slog.String("path", c.Request().URL.Path),
					slog.String("request_id", GetRequestID(c)),
				)
				returnErr = apperror.NewInternal(fmt.Errorf("panic: %v", r))
			}()

			return next(c)
		}
	}
}
