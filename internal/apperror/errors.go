// Package apperror provides the error type handlers return to the Echo
// error handler. An AppError carries an HTTP status code and a message that
// is safe to show the user; the underlying cause is kept for logging only.
//
// Failures from the adventure backend are translated with FromBackend so
// that backend bodies and transport details never reach the page.
package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/keyxmakerx/saga/internal/backend"
	"github.com/keyxmakerx/saga/internal/collection"
)

// AppError is the base error type for all user-facing errors.
type AppError struct {
	// Code is the HTTP status code (e.g., 404, 400, 500).
	Code int `json:"-"`

	// Type is a machine-readable error classifier (e.g., "not_found").
	Type string `json:"type"`

	// Message is a human-readable description safe for the client.
	Message string `json:"message"`

	// Internal holds the underlying error for logging. Never exposed to client.
	Internal error `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *AppError) Unwrap() error {
	return e.Internal
}

// WithInternal attaches a cause for logging and returns e.
func (e *AppError) WithInternal(err error) *AppError {
	e.Internal = err
	return e
}

func newError(code int, typ, message string) *AppError {
	return &AppError{Code: code, Type: typ, Message: message}
}

// NewNotFound creates a 404 Not Found error.
func NewNotFound(message string) *AppError {
	return newError(http.StatusNotFound, "not_found", message)
}

// NewBadRequest creates a 400 Bad Request error.
func NewBadRequest(message string) *AppError {
	return newError(http.StatusBadRequest, "bad_request", message)
}

// NewUnauthorized creates a 401 Unauthorized error. The error handler
// turns it into a redirect to the login page.
func NewUnauthorized(message string) *AppError {
	return newError(http.StatusUnauthorized, "unauthorized", message)
}

// NewForbidden creates a 403 Forbidden error.
func NewForbidden(message string) *AppError {
	return newError(http.StatusForbidden, "forbidden", message)
}

// NewConflict creates a 409 Conflict error.
func NewConflict(message string) *AppError {
	return newError(http.StatusConflict, "conflict", message)
}

// NewValidation creates a 422 error for form validation failures.
func NewValidation(message string) *AppError {
	return newError(http.StatusUnprocessableEntity, "validation_error", message)
}

// NewBadGateway creates a 502 error for an unusable backend answer. The
// message is the one shown to the user.
func NewBadGateway(message string, err error) *AppError {
	return &AppError{
		Code:     http.StatusBadGateway,
		Type:     "backend_error",
		Message:  message,
		Internal: err,
	}
}

// NewInternal creates a 500 Internal Server Error. The real error is stored
// in Internal for logging but the client only sees a generic message.
func NewInternal(err error) *AppError {
	return &AppError{
		Code:     http.StatusInternalServerError,
		Type:     "internal_error",
		Message:  "Произошла непредвиденная ошибка. Попробуйте ещё раз.",
		Internal: err,
	}
}

// FromBackend maps a backend failure to an AppError. fallback is the
// user-facing message for failures that have no more specific meaning,
// such as "Не удалось загрузить приключение.".
func FromBackend(err error, fallback string) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, backend.ErrUnauthorized) {
		return NewUnauthorized("Сессия истекла. Войдите снова.").WithInternal(err)
	}
	if errors.Is(err, collection.ErrBusy) {
		return NewConflict("Сохранение уже выполняется.").WithInternal(err)
	}

	var se *backend.StatusError
	if errors.As(err, &se) {
		switch se.Code {
		case http.StatusNotFound:
			return NewNotFound(fallback).WithInternal(err)
		case http.StatusForbidden:
			return NewForbidden("Недостаточно прав.").WithInternal(err)
		case http.StatusBadRequest:
			msg := fallback
			if detail := se.Detail(); detail != "" {
				msg = detail
			}
			return NewValidation(msg).WithInternal(err)
		}
	}
	return NewBadGateway(fallback, err)
}

// SafeMessage returns the client-safe error message from an error. Non-App
// errors yield a generic message so internals never leak.
func SafeMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Произошла непредвиденная ошибка."
}

// SafeCode returns the HTTP status code from an AppError, or 500 for
// any other error type.
func SafeCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
