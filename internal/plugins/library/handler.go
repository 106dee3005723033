package library

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/saga/internal/adventures"
	"github.com/keyxmakerx/saga/internal/apperror"
	"github.com/keyxmakerx/saga/internal/collection"
	"github.com/keyxmakerx/saga/internal/middleware"
	"github.com/keyxmakerx/saga/internal/plugins/auth"
	"github.com/keyxmakerx/saga/internal/templates"
)

const indexPath = "/adventures"

func heroPath(runID int) string { return "/adventures/" + strconv.Itoa(runID) + "/hero" }
func playPath(runID int) string { return "/adventures/" + strconv.Itoa(runID) + "/play" }

// Handler handles the library page and its actions.
type Handler struct {
	service LibraryService
}

// NewHandler creates a new library handler.
func NewHandler(service LibraryService) *Handler {
	return &Handler{service: service}
}

// Index renders the library (GET /adventures).
func (h *Handler) Index(c echo.Context) error {
	return h.render(c, func(*PageView) {})
}

// render loads the overview and lets mod add form state before rendering.
func (h *Handler) render(c echo.Context, mod func(*PageView)) error {
	actor := auth.GetActor(c)
	overview, err := h.service.Overview(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	view := NewPageView(actor.Username, overview)
	mod(&view)
	return middleware.Render(c, http.StatusOK, libraryPage(view))
}

func (h *Handler) renderError(c echo.Context, err error, fallback string) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Code == http.StatusUnauthorized {
		return err
	}
	return h.render(c, func(v *PageView) { v.Error = fallback })
}

// Create adds a template (POST /adventures).
func (h *Handler) Create(c echo.Context) error {
	var draft adventures.TemplateDraft
	if err := c.Bind(&draft); err != nil {
		return apperror.NewBadRequest("Некорректный запрос.")
	}

	_, err := h.service.Create(c.Request().Context(), auth.GetActor(c), draft)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == http.StatusUnauthorized {
			return err
		}
		msg := msgCreateFailed
		if errors.As(err, &appErr) && appErr.Message == msgTitleRequired {
			msg = msgTitleRequired
		}
		return h.render(c, func(v *PageView) {
			v.Create = draft
			v.CreateError = msg
			v.ShowCreate = true
		})
	}
	return middleware.Redirect(c, indexPath)
}

// Import uploads a template file (POST /adventures/import).
func (h *Handler) Import(c echo.Context) error {
	raw, err := readUpload(c, "file")
	if err == nil {
		_, err = h.service.Import(c.Request().Context(), auth.GetActor(c), raw)
	}
	if err != nil {
		return h.renderError(c, err, msgImportFailed)
	}
	return middleware.Redirect(c, indexPath)
}

func readUpload(c echo.Context, field string) ([]byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, apperror.NewValidation(msgImportFailed).WithInternal(err)
	}
	if fh.Size > maxImportSize {
		return nil, apperror.NewValidation(msgImportFailed)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, apperror.NewValidation(msgImportFailed).WithInternal(err)
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxImportSize))
}

// Start creates a run from a template (POST /adventures/:id/start) and
// opens it.
func (h *Handler) Start(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return apperror.NewNotFound("Приключение не найдено.")
	}
	run, err := h.service.Start(c.Request().Context(), auth.GetActor(c), id)
	if err != nil {
		return h.renderError(c, err, msgStartFailed)
	}
	return middleware.Redirect(c, RunPath(*run))
}

// ConfirmDeleteTemplate asks before deleting a template
// (GET /adventures/:id/delete).
func (h *Handler) ConfirmDeleteTemplate(c echo.Context) error {
	return confirmPage(c, promptDeleteTemplate, "/adventures/"+c.Param("id")+"/delete")
}

// ConfirmDeleteRun asks before deleting a run
// (GET /adventures/runs/:id/delete).
func (h *Handler) ConfirmDeleteRun(c echo.Context) error {
	return confirmPage(c, promptDeleteRun, "/adventures/runs/"+c.Param("id")+"/delete")
}

func confirmPage(c echo.Context, prompt, action string) error {
	if _, err := strconv.Atoi(c.Param("id")); err != nil {
		return apperror.NewNotFound("Приключение не найдено.")
	}
	return middleware.Render(c, http.StatusOK, templates.ConfirmPage(templates.ConfirmView{
		Prompt: prompt,
		Action: action,
		Cancel: indexPath,
	}))
}

// DeleteTemplate deletes a template (POST /adventures/:id/delete).
func (h *Handler) DeleteTemplate(c echo.Context) error {
	return h.delete(c, h.service.DeleteTemplate)
}

// DeleteRun deletes a run (POST /adventures/runs/:id/delete).
func (h *Handler) DeleteRun(c echo.Context) error {
	return h.delete(c, h.service.DeleteRun)
}

type removeFunc func(ctx context.Context, actor auth.Actor, id int, confirmer collection.Confirmer) error

func (h *Handler) delete(c echo.Context, remove removeFunc) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return apperror.NewNotFound("Приключение не найдено.")
	}
	err = remove(c.Request().Context(), auth.GetActor(c), id, middleware.FormConfirmer(c))
	if err != nil && !errors.Is(err, collection.ErrDeclined) {
		return h.renderError(c, err, msgDeleteFailed)
	}
	return middleware.Redirect(c, indexPath)
}
