// Package admin is the administrators page: who holds an admin level and,
// for level 2 and above, granting, changing and revoking levels below one's
// own. The backend enforces the same rules; they are checked here first so
// the page can explain a refusal.
package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/saga/internal/apperror"
	"github.com/keyxmakerx/saga/internal/collection"
	"github.com/keyxmakerx/saga/internal/middleware"
	"github.com/keyxmakerx/saga/internal/plugins/auth"
	"github.com/keyxmakerx/saga/internal/templates"
)

const indexPath = "/admin"

// Handler handles the administrators page.
type Handler struct {
	service AdminService
}

// NewHandler creates a new admin handler.
func NewHandler(service AdminService) *Handler {
	return &Handler{service: service}
}

// Index renders the page (GET /admin).
func (h *Handler) Index(c echo.Context) error {
	return h.render(c, http.StatusOK, func(v *PageView) {
		if c.QueryParam("added") == "1" {
			v.Notice = msgCreated
		}
	})
}

func (h *Handler) render(c echo.Context, code int, mod func(*PageView)) error {
	actor := auth.GetActor(c)
	admins, err := h.service.List(c.Request().Context(), actor)
	view := NewPageView(actor.Level, admins)
	if err != nil {
		if fatal(err) {
			return err
		}
		view.Error = msgLoadFailed
	}
	mod(&view)
	return middleware.Render(c, code, adminPage(view))
}

func fatal(err error) bool {
	var appErr *apperror.AppError
	return !errors.As(err, &appErr) || appErr.Code == http.StatusUnauthorized
}

// Add grants a user an admin level (POST /admin).
func (h *Handler) Add(c echo.Context) error {
	var draft AdminDraft
	if err := c.Bind(&draft); err != nil {
		return apperror.NewBadRequest("Некорректный запрос.")
	}
	if err := h.service.Add(c.Request().Context(), auth.GetActor(c), draft); err != nil {
		if fatal(err) {
			return err
		}
		return h.render(c, apperror.SafeCode(err), func(v *PageView) {
			v.Draft = draft
			v.FormError = apperror.SafeMessage(err)
		})
	}
	return middleware.Redirect(c, indexPath+"?added=1")
}

func adminID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, apperror.NewNotFound(msgEmpty)
	}
	return id, nil
}

// SetLevel changes an administrator's level (POST /admin/:id/level).
func (h *Handler) SetLevel(c echo.Context) error {
	id, err := adminID(c)
	if err != nil {
		return err
	}
	if err := h.service.SetLevel(c.Request().Context(), auth.GetActor(c), id, c.FormValue("level")); err != nil {
		if fatal(err) {
			return err
		}
		return h.render(c, apperror.SafeCode(err), func(v *PageView) {
			for i := range v.Rows {
				if v.Rows[i].ID == id {
					v.Rows[i].Error = apperror.SafeMessage(err)
				}
			}
		})
	}
	return middleware.Redirect(c, indexPath)
}

// ConfirmRemove asks before revoking (GET /admin/:id/delete).
func (h *Handler) ConfirmRemove(c echo.Context) error {
	id, err := adminID(c)
	if err != nil {
		return err
	}
	return middleware.Render(c, http.StatusOK, templates.ConfirmPage(templates.ConfirmView{
		Prompt: promptRemove,
		Action: indexPath + "/" + strconv.Itoa(id) + "/delete",
		Cancel: indexPath,
	}))
}

// Remove revokes an admin level once confirmed (POST /admin/:id/delete).
func (h *Handler) Remove(c echo.Context) error {
	id, err := adminID(c)
	if err != nil {
		return err
	}
	err = h.service.Remove(c.Request().Context(), auth.GetActor(c), id, middleware.FormConfirmer(c))
	if err != nil && !errors.Is(err, collection.ErrDeclined) {
		if fatal(err) {
			return err
		}
		return h.render(c, apperror.SafeCode(err), func(v *PageView) {
			v.Error = apperror.SafeMessage(err)
		})
	}
	return middleware.Redirect(c, indexPath)
}
