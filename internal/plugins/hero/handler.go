package hero

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/saga/internal/apperror"
	"github.com/keyxmakerx/saga/internal/herosetup"
	"github.com/keyxmakerx/saga/internal/middleware"
	"github.com/keyxmakerx/saga/internal/plugins/auth"
)

// Handler serves the hero creation wizard.
type Handler struct {
	service HeroService
}

// NewHandler creates a new wizard handler.
func NewHandler(service HeroService) *Handler {
	return &Handler{service: service}
}

func runID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, apperror.NewNotFound("Приключение не найдено.")
	}
	return id, nil
}

// Show renders the wizard (GET /adventures/:id/hero). A run that already
// has a hero goes straight to play.
func (h *Handler) Show(c echo.Context) error {
	id, err := runID(c)
	if err != nil {
		return err
	}
	w, err := h.service.Wizard(c.Request().Context(), auth.GetActor(c), id)
	if err != nil {
		return err
	}
	if w.Run.HasHero() {
		return middleware.Redirect(c, playPath(id))
	}
	form := herosetup.Prefill(w.Bootstrap.HeroSetup)
	return middleware.Render(c, http.StatusOK, wizardPage(NewPageView(*w, form, "")))
}

// Submit handles every wizard button (POST /adventures/:id/hero). Only
// the create action calls the backend; the others re-render the form.
func (h *Handler) Submit(c echo.Context) error {
	id, err := runID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	actor := auth.GetActor(c)

	w, err := h.service.Wizard(ctx, actor, id)
	if err != nil {
		return err
	}
	if w.Run.HasHero() {
		return middleware.Redirect(c, playPath(id))
	}

	values, err := c.FormParams()
	if err != nil {
		return apperror.NewBadRequest("Некорректный запрос.")
	}
	form := parseForm(values)
	action := values.Get("action")

	if action != "" && action != actionCreate {
		form = apply(form, action)
		return middleware.Render(c, http.StatusOK, wizardPage(NewPageView(*w, form, "")))
	}

	if err := h.service.Create(ctx, actor, id, w.Bootstrap.HeroSetup, form); err != nil {
		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			return err
		}
		if appErr.Code == http.StatusUnauthorized || appErr.Code == http.StatusForbidden {
			return err
		}
		msg := appErr.Message
		if appErr.Code != http.StatusUnprocessableEntity {
			msg = msgCreateFailed
		}
		return middleware.Render(c, http.StatusUnprocessableEntity, wizardPage(NewPageView(*w, form, msg)))
	}
	return middleware.Redirect(c, playPath(id))
}
