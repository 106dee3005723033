package editor

import (
	"errors"
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

// Handler serves the editor of one scope. Templates and runs share the
// same code and differ only in URL prefix and the hero setup section.
type Handler struct {
	service EditorService
	scope   adventures.Scope
}

// NewHandler creates an editor handler for scope.
func NewHandler(service EditorService, scope adventures.Scope) *Handler {
	return &Handler{service: service, scope: scope}
}

func (h *Handler) target(c echo.Context) (Target, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return Target{}, apperror.NewNotFound("Приключение не найдено.")
	}
	character, _ := strconv.Atoi(c.QueryParam("character"))
	return Target{Scope: h.scope, AdventureID: id, Character: character}, nil
}

func entityID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("eid"))
	if err != nil || id <= 0 {
		return 0, apperror.NewNotFound(msgEntryNotFound)
	}
	return id, nil
}

// Page renders the editor (GET .../edit?tab=&character=).
func (h *Handler) Page(c echo.Context) error {
	t, err := h.target(c)
	if err != nil {
		return err
	}
	return h.render(c, http.StatusOK, PageRequest{
		Scope:       t.Scope,
		AdventureID: t.AdventureID,
		Tab:         c.QueryParam("tab"),
		Character:   t.Character,
	})
}

func (h *Handler) render(c echo.Context, code int, req PageRequest) error {
	view, err := h.service.Page(c.Request().Context(), auth.GetActor(c), req)
	if err != nil {
		return err
	}
	return middleware.Render(c, code, editorPage(*view))
}

// formError returns the message to show next to a form, or the error
// itself when the whole page has to fail.
func formError(err error, fallback string) (string, error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		return fallback, nil
	}
	switch appErr.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", err
	case http.StatusUnprocessableEntity, http.StatusConflict:
		return appErr.Message, nil
	}
	return fallback, nil
}

// SaveGeneral updates the general settings (POST .../edit/general).
func (h *Handler) SaveGeneral(c echo.Context) error {
	t, err := h.target(c)
	if err != nil {
		return err
	}
	var draft adventures.GeneralDraft
	if err := c.Bind(&draft); err != nil {
		return apperror.NewBadRequest("Некорректный запрос.")
	}

	if err := h.service.SaveGeneral(c.Request().Context(), auth.GetActor(c), t, draft); err != nil {
		msg, fatal := formError(err, msgSaveFailed)
		if fatal != nil {
			return fatal
		}
		return h.render(c, http.StatusUnprocessableEntity, PageRequest{
			Scope: t.Scope, AdventureID: t.AdventureID, Tab: TabGeneral,
			General: &draft,
			Errors:  map[string]string{TabGeneral: msg},
		})
	}
	return middleware.Redirect(c, pageURL(t.Scope, t.AdventureID, TabGeneral, 0))
}

// SaveHeroSetup updates a template's hero setup (POST .../edit/hero-setup).
func (h *Handler) SaveHeroSetup(c echo.Context) error {
	t, err := h.target(c)
	if err != nil {
		return err
	}
	if t.Scope != adventures.ScopeTemplates {
		return apperror.NewNotFound("Страница не найдена.")
	}
	var draft adventures.HeroSetupDraft
	if err := c.Bind(&draft); err != nil {
		return apperror.NewBadRequest("Некорректный запрос.")
	}

	if err := h.service.SaveHeroSetup(c.Request().Context(), auth.GetActor(c), t.AdventureID, draft); err != nil {
		msg, fatal := formError(err, msgHeroSetupSaveFailed)
		if fatal != nil {
			return fatal
		}
		return h.render(c, http.StatusUnprocessableEntity, PageRequest{
			Scope: t.Scope, AdventureID: t.AdventureID, Tab: TabGeneral,
			HeroSetup: &draft,
			Errors:    map[string]string{sectionHeroSetup: msg},
		})
	}
	return middleware.Redirect(c, pageURL(t.Scope, t.AdventureID, TabGeneral, 0))
}

// SaveEntity creates or updates an entity (POST .../edit/:tab/save).
func (h *Handler) SaveEntity(c echo.Context) error {
	t, err := h.target(c)
	if err != nil {
		return err
	}
	tab := c.Param("tab")
	editingID, _ := strconv.Atoi(c.FormValue("editing_id"))
	binder := &echo.DefaultBinder{}
	bind := func(v any) error { return binder.BindBody(c, v) }

	saved, err := h.service.SaveEntity(c.Request().Context(), auth.GetActor(c), t, tab, editingID, bind)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == http.StatusNotFound {
			return err
		}
		msg, fatal := formError(err, msgSaveFailed)
		if fatal != nil {
			return fatal
		}
		return h.render(c, http.StatusUnprocessableEntity, PageRequest{
			Scope: t.Scope, AdventureID: t.AdventureID, Tab: pageTab(tab), Character: t.Character,
			Errors: map[string]string{tab: msg},
		})
	}

	character := t.Character
	if tab == TabCharacters && character == 0 {
		character = saved
	}
	return middleware.Redirect(c, pageURL(t.Scope, t.AdventureID, tab, character))
}

// BeginEdit loads an entity into its tab's form (POST .../edit/:tab/edit/:eid).
// Editing a character also makes it the active character.
func (h *Handler) BeginEdit(c echo.Context) error {
	t, err := h.target(c)
	if err != nil {
		return err
	}
	id, err := entityID(c)
	if err != nil {
		return err
	}
	tab := c.Param("tab")
	if err := h.service.BeginEdit(c.Request().Context(), auth.GetActor(c), t, tab, id); err != nil {
		return err
	}
	if tab == TabCharacters {
		t.Character = id
	}
	return middleware.Redirect(c, pageURL(t.Scope, t.AdventureID, tab, t.Character))
}

// Cancel resets a tab's form to create mode (POST .../edit/:tab/cancel).
func (h *Handler) Cancel(c echo.Context) error {
	t, err := h.target(c)
	if err != nil {
		return err
	}
	tab := c.Param("tab")
	if err := h.service.Cancel(c.Request().Context(), auth.GetActor(c), t, tab); err != nil {
		return err
	}
	return middleware.Redirect(c, pageURL(t.Scope, t.AdventureID, tab, t.Character))
}

// ConfirmDelete asks before deleting an entity (GET .../edit/:tab/delete/:eid).
func (h *Handler) ConfirmDelete(c echo.Context) error {
	t, err := h.target(c)
	if err != nil {
		return err
	}
	id, err := entityID(c)
	if err != nil {
		return err
	}
	tab := c.Param("tab")
	action := editorPath(t.Scope, t.AdventureID) + "/edit/" + tab + "/delete/" + strconv.Itoa(id)
	if t.Character != 0 {
		action += "?character=" + strconv.Itoa(t.Character)
	}
	return middleware.Render(c, http.StatusOK, templates.ConfirmPage(templates.ConfirmView{
		Prompt: collection.DeletePrompt,
		Action: action,
		Cancel: pageURL(t.Scope, t.AdventureID, tab, t.Character),
	}))
}

// Delete removes an entity once confirmed (POST .../edit/:tab/delete/:eid).
func (h *Handler) Delete(c echo.Context) error {
	t, err := h.target(c)
	if err != nil {
		return err
	}
	id, err := entityID(c)
	if err != nil {
		return err
	}
	tab := c.Param("tab")

	err = h.service.Remove(c.Request().Context(), auth.GetActor(c), t, tab, id, middleware.FormConfirmer(c))
	switch {
	case errors.Is(err, collection.ErrDeclined):
	case err != nil:
		msg, fatal := formError(err, msgDeleteFailed)
		if fatal != nil {
			return fatal
		}
		return h.render(c, http.StatusOK, PageRequest{
			Scope: t.Scope, AdventureID: t.AdventureID, Tab: pageTab(tab), Character: t.Character,
			Errors: map[string]string{tab: msg},
		})
	case tab == TabCharacters && id == t.Character:
		t.Character = 0
	}
	return middleware.Redirect(c, pageURL(t.Scope, t.AdventureID, tab, t.Character))
}

// Export downloads a template as JSON (GET /adventures/:id/export).
func (h *Handler) Export(c echo.Context) error {
	t, err := h.target(c)
	if err != nil {
		return err
	}
	export, err := h.service.Export(c.Request().Context(), auth.GetActor(c), t.AdventureID)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+export.Filename+`"`)
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, export.Body)
}

// pageTab maps a sub-tab to the page tab that shows it.
func pageTab(tab string) string {
	if tab == TabCharacterSystems || tab == TabCharacterTechniques {
		return TabCharacters
	}
	return tab
}
