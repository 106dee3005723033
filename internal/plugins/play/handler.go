package play

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/saga/internal/apperror"
	"github.com/keyxmakerx/saga/internal/middleware"
	"github.com/keyxmakerx/saga/internal/plugins/auth"
)

// Handler serves the play screen.
type Handler struct {
	service PlayService
}

// NewHandler creates a new play handler.
func NewHandler(service PlayService) *Handler {
	return &Handler{service: service}
}

func runID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, apperror.NewNotFound("Приключение не найдено.")
	}
	return id, nil
}

// Show renders the play page (GET /adventures/:id/play). A run without a
// hero is sent to the hero wizard first.
func (h *Handler) Show(c echo.Context) error {
	id, err := runID(c)
	if err != nil {
		return err
	}
	return h.render(c, id, http.StatusOK, "", "", false)
}

func (h *Handler) render(c echo.Context, id, code int, errMsg, prompt string, asHero bool) error {
	state, err := h.service.State(c.Request().Context(), auth.GetActor(c), id)
	if err != nil {
		return err
	}
	if !state.Run.HasHero() {
		return middleware.Redirect(c, heroPath(id))
	}
	return middleware.Render(c, code, playPage(NewPageView(*state, errMsg, prompt, asHero)))
}

// after finishes a story action: back to the page on success, otherwise
// the page again with the error and the unsent prompt.
func (h *Handler) after(c echo.Context, id int, err error, prompt string, asHero bool) error {
	if err == nil {
		return middleware.Redirect(c, playPath(id))
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Code == http.StatusUnauthorized || appErr.Code == http.StatusForbidden {
		return err
	}
	return h.render(c, id, appErr.Code, appErr.Message, prompt, asHero)
}

// Send posts a line to the story (POST /adventures/:id/play/say).
func (h *Handler) Send(c echo.Context) error {
	id, err := runID(c)
	if err != nil {
		return err
	}
	prompt := c.FormValue("content")
	asHero := c.FormValue("as_hero") == "true"
	err = h.service.Send(c.Request().Context(), auth.GetActor(c), id, prompt, asHero)
	return h.after(c, id, err, prompt, asHero)
}

// Next asks the narrator to continue (POST /adventures/:id/play/next).
func (h *Handler) Next(c echo.Context) error {
	id, err := runID(c)
	if err != nil {
		return err
	}
	return h.after(c, id, h.service.Next(c.Request().Context(), auth.GetActor(c), id), "", false)
}

// Rollback rewinds the story to an entry
// (POST /adventures/:id/play/rollback/:eid).
func (h *Handler) Rollback(c echo.Context) error {
	id, err := runID(c)
	if err != nil {
		return err
	}
	entryID, err := strconv.Atoi(c.Param("eid"))
	if err != nil || entryID <= 0 {
		return apperror.NewNotFound("Запись не найдена.")
	}
	return h.after(c, id, h.service.Rollback(c.Request().Context(), auth.GetActor(c), id, entryID), "", false)
}

// Regenerate replaces the last entry (POST /adventures/:id/play/regenerate).
func (h *Handler) Regenerate(c echo.Context) error {
	id, err := runID(c)
	if err != nil {
		return err
	}
	return h.after(c, id, h.service.Regenerate(c.Request().Context(), auth.GetActor(c), id), "", false)
}

// PDF downloads the history (GET /adventures/:id/play/pdf).
func (h *Handler) PDF(c echo.Context) error {
	id, err := runID(c)
	if err != nil {
		return err
	}
	pdf, err := h.service.PDF(c.Request().Context(), auth.GetActor(c), id)
	if err != nil {
		return h.after(c, id, err, "", false)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+pdf.Filename+`"`)
	return c.Blob(http.StatusOK, "application/pdf", pdf.Body)
}
