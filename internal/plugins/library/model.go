// Package library is the home page of a signed-in user: their adventure
// templates, their started runs and the published catalogue. Templates are
// created, imported, started and deleted from here.
package library

import (
	"github.com/keyxmakerx/saga/internal/adventures"
)

// Controller slots in the collection registry.
const (
	slotTemplates = "library/templates"
	slotRuns      = "library/runs"
)

// Confirmation prompts for deletions.
const (
	promptDeleteTemplate = "Удалить приключение? Это действие нельзя отменить."
	promptDeleteRun      = "Удалить начатое приключение? Это действие нельзя отменить."
)

// User-facing messages.
const (
	msgTitleRequired = "Введите название приключения."
	msgCreateFailed  = "Не удалось создать приключение. Попробуйте еще раз."
	msgDeleteFailed  = "Не удалось удалить приключение."
	msgStartFailed   = "Не удалось начать приключение."
	msgImportFailed  = "Не удалось импортировать приключение. Проверьте JSON."
)

// maxImportSize bounds an uploaded template file.
const maxImportSize = 5 << 20

// Overview is everything the library page lists.
type Overview struct {
	Templates []adventures.Adventure
	Runs      []adventures.Adventure
	Published []adventures.PublishedEntry
}

// PublishedCard is a published entry with the viewer-specific actions.
type PublishedCard struct {
	adventures.PublishedEntry
	IsOwner bool
}

// PageView is rendered by the library page.
type PageView struct {
	Username  string
	Templates []adventures.Adventure
	Runs      []adventures.Adventure
	Published []PublishedCard

	// Error is shown above the templates list.
	Error string

	// Create holds the new-template form; ShowCreate opens it.
	Create      adventures.TemplateDraft
	CreateError string
	ShowCreate  bool
}

// NewPageView arranges an overview for the given viewer.
func NewPageView(username string, o *Overview) PageView {
	v := PageView{Username: username}
	if o == nil {
		return v
	}
	v.Templates = o.Templates
	v.Runs = o.Runs
	for _, p := range o.Published {
		v.Published = append(v.Published, PublishedCard{PublishedEntry: p, IsOwner: p.AuthorUsername == username})
	}
	return v
}

// RunPath is where a run opens: the hero wizard until a hero exists, then
// the play page.
func RunPath(run adventures.Adventure) string {
	if run.HasHero() {
		return playPath(run.ID)
	}
	return heroPath(run.ID)
}
