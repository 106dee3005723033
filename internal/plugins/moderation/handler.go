package moderation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/saga/internal/apperror"
	"github.com/keyxmakerx/saga/internal/middleware"
	"github.com/keyxmakerx/saga/internal/plugins/auth"
)

const indexPath = "/moderation"

// Handler handles the moderation page.
type Handler struct {
	service ModerationService
}

// NewHandler creates a new moderation handler.
func NewHandler(service ModerationService) *Handler {
	return &Handler{service: service}
}

// Index renders the queue and the published list (GET /moderation).
func (h *Handler) Index(c echo.Context) error {
	return h.render(c, http.StatusOK, "")
}

func (h *Handler) render(c echo.Context, code int, errMsg string) error {
	lists, err := h.service.Lists(c.Request().Context(), auth.GetActor(c))
	if err != nil {
		return err
	}
	return middleware.Render(c, code, moderationPage(PageView{Lists: *lists, Error: errMsg}))
}

// Decide publishes or rejects a template
// (POST /moderation/:id/:decision).
func (h *Handler) Decide(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return apperror.NewNotFound("Приключение не найдено.")
	}
	if err := h.service.Decide(c.Request().Context(), auth.GetActor(c), id, c.Param("decision")); err != nil {
		var appErr *apperror.AppError
		if !errors.As(err, &appErr) || appErr.Code == http.StatusUnauthorized {
			return err
		}
		return h.render(c, appErr.Code, appErr.Message)
	}
	return middleware.Redirect(c, indexPath)
}
