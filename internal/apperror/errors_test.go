package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/keyxmakerx/saga/internal/backend"
	"github.com/keyxmakerx/saga/internal/collection"
)

const fallback = "Не удалось загрузить приключение."

func TestFromBackend(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"unauthorized", fmt.Errorf("load: %w", backend.ErrUnauthorized), http.StatusUnauthorized, "Сессия истекла. Войдите снова."},
		{"busy", collection.ErrBusy, http.StatusConflict, "Сохранение уже выполняется."},
		{"not found", &backend.StatusError{Code: 404}, http.StatusNotFound, fallback},
		{"forbidden", &backend.StatusError{Code: 403}, http.StatusForbidden, "Недостаточно прав."},
		{"bad request with detail", &backend.StatusError{Code: 400, Body: []byte(`{"username":["Пользователь не найден."]}`)}, http.StatusUnprocessableEntity, "Пользователь не найден."},
		{"bad request without body", &backend.StatusError{Code: 400}, http.StatusUnprocessableEntity, fallback},
		{"server error", &backend.StatusError{Code: 500}, http.StatusBadGateway, fallback},
		{"transport", errors.New("connection refused"), http.StatusBadGateway, fallback},
		{"operation failed", fmt.Errorf("%w: x: %w", collection.ErrOperationFailed, &backend.StatusError{Code: 502}), http.StatusBadGateway, fallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromBackend(tt.err, fallback)
			if got.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", got.Message, tt.wantMsg)
			}
			if !errors.Is(got, tt.err) && got.Internal == nil {
				t.Error("cause should be kept for logging")
			}
		})
	}
}

func TestFromBackend_PassesAppErrorThrough(t *testing.T) {
	orig := NewValidation("Введите название приключения.")
	if got := FromBackend(fmt.Errorf("wrapped: %w", orig), fallback); got != orig {
		t.Errorf("expected the original AppError, got %v", got)
	}
}

func TestSafeMessageAndCode(t *testing.T) {
	err := fmt.Errorf("ctx: %w", NewForbidden("нет"))
	if SafeMessage(err) != "нет" || SafeCode(err) != http.StatusForbidden {
		t.Errorf("wrapped AppError not unwrapped: %q %d", SafeMessage(err), SafeCode(err))
	}
	plain := errors.New("sql: no rows")
	if SafeCode(plain) != http.StatusInternalServerError || SafeMessage(plain) == plain.Error() {
		t.Error("plain errors must not leak")
	}
}
