// Package editor is the adventure editor: the general settings of a
// template or run, the hero setup rules of a template, and one tab per
// entity kind. Every entity tab is backed by a collection.Controller kept
// in the registry, so a half-filled form survives navigation between tabs.
package editor

import (
	"github.com/keyxmakerx/saga/internal/adventures"
	"github.com/keyxmakerx/saga/internal/herosetup"
)

// Tab names as they appear in URLs.
const (
	TabGeneral             = "general"
	TabLocations           = "locations"
	TabCharacters          = "characters"
	TabRaces               = "races"
	TabSystems             = "systems"
	TabTechniques          = "techniques"
	TabEvents              = "events"
	TabFactions            = "factions"
	TabOther               = "other"
	TabCharacterSystems    = "character-systems"
	TabCharacterTechniques = "character-techniques"
)

// tabOrder is the navigation order of the top-level tabs.
var tabOrder = []struct{ Name, Label string }{
	{TabGeneral, "Общее"},
	{TabLocations, "Локации"},
	{TabCharacters, "Персонажи"},
	{TabRaces, "Расы"},
	{TabSystems, "Системы"},
	{TabTechniques, "Приемы"},
	{TabEvents, "События"},
	{TabFactions, "Фракции"},
	{TabOther, "Иная информация"},
}

// User-facing messages.
const (
	msgLoadFailed          = "Не удалось загрузить приключение."
	msgSaveFailed          = "Не удалось сохранить изменения."
	msgDeleteFailed        = "Не удалось удалить запись."
	msgHeroSetupLoadFailed = "Не удалось загрузить настройки героя."
	msgHeroSetupSaveFailed = "Не удалось сохранить настройки героя."
	msgExportFailed        = "Не удалось экспортировать приключение."
	msgPickCharacterSys    = "Выберите персонажа для управления знаниями."
	msgPickCharacterTech   = "Выберите персонажа для управления приемами."
	msgNoEntries           = "Пока нет записей."
	msgEntryNotFound       = "Запись не найдена."
)

// FieldKind selects the form control of a field.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindTextarea FieldKind = "textarea"
	KindNumber   FieldKind = "number"
	KindSelect   FieldKind = "select"
	KindCheckbox FieldKind = "checkbox"
	KindHidden   FieldKind = "hidden"
)

// Option is one choice of a select field.
type Option struct {
	Value string
	Label string
}

// Field describes one form control. Name matches the draft's form tag.
type Field struct {
	Name    string
	Label   string
	Kind    FieldKind
	Rows    int
	Min     string
	Max     string
	Empty   string
	Options []Option
}

// FieldView is a field with its current value.
type FieldView struct {
	Field
	Value   string
	Checked bool
}

// Card is one entity in a tab's list.
type Card struct {
	ID          int
	Title       string
	Description string
	Meta        []string
}

// TabView is everything an entity tab renders.
type TabView struct {
	Name    string
	Heading string
	Empty   string
	Cards   []Card
	Fields  []FieldView
	Editing bool
	// EditingID is posted back with the form so a save can restore the edit.
	EditingID int
	Saving    bool
	// Disabled is set on character sub-tabs while no character is active.
	Disabled bool
	Error    string
	// Action is the URL prefix of the tab's posts, e.g. ".../edit/races".
	Action string
	// Query carries the active character into post URLs, e.g. "?character=3".
	Query string
}

// TabLink is one entry of the tab bar.
type TabLink struct {
	Name   string
	Label  string
	URL    string
	Active bool
}

// GeneralView is the general tab.
type GeneralView struct {
	Fields []FieldView
	Error  string

	// Hero setup is shown for templates only.
	ShowHeroSetup  bool
	HeroSetup      []FieldView
	HeroSetupError string
	// Summary is nil when a primary hero is assigned.
	Summary *herosetup.Summary

	ExportURL string
}

// PageView is the editor page.
type PageView struct {
	Title      string
	IsTemplate bool
	Base       string
	BackURL    string
	Tabs       []TabLink
	Active     string

	General *GeneralView
	Entity  *TabView

	// Character sub-tabs, shown on the characters tab.
	CharacterSystems    *TabView
	CharacterTechniques *TabView
	ActiveCharacter     int
}

// PageRequest selects what the editor page shows. The optional drafts and
// errors carry a failed post back into the page.
type PageRequest struct {
	Scope       adventures.Scope
	AdventureID int
	Tab         string
	Character   int

	General   *adventures.GeneralDraft
	HeroSetup *adventures.HeroSetupDraft
	// Errors by section: a tab name, TabGeneral or sectionHeroSetup.
	Errors map[string]string
}

// sectionHeroSetup keys hero setup errors in PageRequest.Errors.
const sectionHeroSetup = "hero-setup"
