// Package herosetup holds the rules for creating the primary hero of a run.
// A template's HeroSetup says which hero attributes the player chooses and
// which come from template defaults; this package turns that into the
// editor summary, the initial wizard form, validation and the request body.
package herosetup

import (
	"strings"

	"github.com/keyxmakerx/saga/internal/adventures"
	"github.com/keyxmakerx/saga/internal/apperror"
)

// Field labels shared by the editor summary and the wizard.
const (
	LabelLocation  = "Стартовая локация"
	LabelRace      = "Раса"
	LabelAge       = "Возраст"
	LabelBodyPower = "Сила тела"
	LabelMindPower = "Сила разума"
	LabelWillPower = "Сила воли"
)

const emptyValue = "—"

// Summary lists what the player must choose and what is preset.
type Summary struct {
	Required []string
	Presets  []string
}

// RequiredText joins the required labels for display.
func (s Summary) RequiredText() string { return joinOrDash(s.Required) }

// PresetsText joins the preset fields for display.
func (s Summary) PresetsText() string { return joinOrDash(s.Presets) }

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return emptyValue
	}
	return strings.Join(items, ", ")
}

// Summarize describes a hero setup form as edited on the general tab. The
// start location is always a preset.
func Summarize(d adventures.HeroSetupDraft, races []adventures.Race, locations []adventures.Location) Summary {
	var s Summary
	push := func(label string, required bool, value string) {
		if required {
			s.Required = append(s.Required, label)
			return
		}
		if value == "" {
			value = emptyValue
		}
		s.Presets = append(s.Presets, label+": "+value)
	}

	push(LabelLocation, false, titleOf(locations, d.DefaultLocation))
	push(LabelRace, d.RequireRace, titleOf(races, d.DefaultRace))
	push(LabelAge, d.RequireAge, d.DefaultAge)
	push(LabelBodyPower, d.RequireBodyPower, d.DefaultBodyPower)
	push(LabelMindPower, d.RequireMindPower, d.DefaultMindPower)
	push(LabelWillPower, d.RequireWillPower, d.DefaultWillPower)
	return s
}

func titleOf[T interface {
	adventures.Titled
	EntityID() int
}](items []T, ref string) string {
	id := adventures.ToOptionalInt(ref)
	if id == nil {
		return ""
	}
	for _, item := range items {
		if item.EntityID() == *id {
			return item.DisplayTitle()
		}
	}
	return ""
}

// SystemRow is one "known system" line of the wizard.
type SystemRow struct {
	System          string
	Level           string
	ProgressPercent string
	Notes           string
}

// TechniqueRow is one "learned technique" line. System only narrows the
// technique picker.
type TechniqueRow struct {
	System    string
	Technique string
	Notes     string
}

// Form is the hero creation wizard.
type Form struct {
	LocationID string
	Title      string
	Race       string
	Age        string
	BodyPower  string
	MindPower  string
	WillPower  string
	Systems    []SystemRow
	Techniques []TechniqueRow
}

// Prefill returns the initial wizard form: required attributes are empty,
// the rest carry the template defaults.
func Prefill(h adventures.HeroSetup) Form {
	f := Form{
		Systems:    []SystemRow{{Level: "0", ProgressPercent: "0"}},
		Techniques: []TechniqueRow{{}},
	}
	if !h.RequireRace {
		f.Race = adventures.FormatRef(h.DefaultRace)
	}
	if !h.RequireAge {
		f.Age = adventures.FormatOptionalInt(h.DefaultAge)
	}
	f.BodyPower = prefillPower(h.RequireBodyPower, h.DefaultBodyPower)
	f.MindPower = prefillPower(h.RequireMindPower, h.DefaultMindPower)
	f.WillPower = prefillPower(h.RequireWillPower, h.DefaultWillPower)
	return f
}

func prefillPower(required bool, def *int) string {
	if required {
		return ""
	}
	return adventures.FormatInt(deref(def))
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func hasLocation(h adventures.HeroSetup) bool {
	return h.DefaultLocation != nil && *h.DefaultLocation != 0
}

// NeedsLocation reports whether the player must pick the start location.
func NeedsLocation(h adventures.HeroSetup) bool { return !hasLocation(h) }

// Validate checks the form against the setup and returns the first failing
// rule as a validation error.
func Validate(h adventures.HeroSetup, f Form) error {
	switch {
	case strings.TrimSpace(f.Title) == "":
		return apperror.NewValidation("Укажите имя героя.")
	case !hasLocation(h) && f.LocationID == "":
		return apperror.NewValidation("Выберите стартовую локацию.")
	case h.RequireRace && f.Race == "":
		return apperror.NewValidation("Выберите расу героя.")
	case h.RequireAge && f.Age == "":
		return apperror.NewValidation("Укажите возраст героя.")
	case h.RequireBodyPower && f.BodyPower == "":
		return apperror.NewValidation("Укажите силу тела.")
	case h.RequireMindPower && f.MindPower == "":
		return apperror.NewValidation("Укажите силу разума.")
	case h.RequireWillPower && f.WillPower == "":
		return apperror.NewValidation("Укажите силу воли.")
	case h.RequireSystems && len(selectedSystems(f)) == 0:
		return apperror.NewValidation("Добавьте хотя бы одну систему.")
	case h.RequireTechniques && len(selectedTechniques(f)) == 0:
		return apperror.NewValidation("Добавьте хотя бы один прием.")
	}
	return nil
}

func selectedSystems(f Form) []SystemRow {
	var out []SystemRow
	for _, row := range f.Systems {
		if row.System != "" {
			out = append(out, row)
		}
	}
	return out
}

func selectedTechniques(f Form) []TechniqueRow {
	var out []TechniqueRow
	for _, row := range f.Techniques {
		if row.Technique != "" {
			out = append(out, row)
		}
	}
	return out
}

// Hero is the resolved primary hero.
type Hero struct {
	Title     string `json:"title"`
	Race      *int   `json:"race"`
	Age       *int   `json:"age"`
	BodyPower int    `json:"body_power"`
	MindPower int    `json:"mind_power"`
	WillPower int    `json:"will_power"`
}

type SystemEntry struct {
	System          int    `json:"system"`
	Level           int    `json:"level"`
	ProgressPercent int    `json:"progress_percent"`
	Notes           string `json:"notes"`
}

type TechniqueEntry struct {
	Technique int    `json:"technique"`
	Notes     string `json:"notes"`
}

// Request is the body of POST runs/<id>/hero/.
type Request struct {
	LocationID *int             `json:"location_id"`
	Hero       Hero             `json:"hero"`
	Systems    []SystemEntry    `json:"systems"`
	Techniques []TechniqueEntry `json:"techniques"`
}

// Resolve builds the hero request: required attributes come from the form,
// the others from the template defaults. Empty rows are dropped.
func Resolve(h adventures.HeroSetup, f Form) Request {
	hero := Hero{
		Title:     f.Title,
		Race:      h.DefaultRace,
		Age:       h.DefaultAge,
		BodyPower: deref(h.DefaultBodyPower),
		MindPower: deref(h.DefaultMindPower),
		WillPower: deref(h.DefaultWillPower),
	}
	if h.RequireRace {
		hero.Race = adventures.ToOptionalInt(f.Race)
	}
	if h.RequireAge {
		hero.Age = adventures.ToOptionalInt(f.Age)
	}
	if h.RequireBodyPower {
		hero.BodyPower = adventures.ToInt(f.BodyPower, 0)
	}
	if h.RequireMindPower {
		hero.MindPower = adventures.ToInt(f.MindPower, 0)
	}
	if h.RequireWillPower {
		hero.WillPower = adventures.ToInt(f.WillPower, 0)
	}

	req := Request{
		Hero:       hero,
		Systems:    []SystemEntry{},
		Techniques: []TechniqueEntry{},
	}
	if !hasLocation(h) {
		req.LocationID = adventures.ToOptionalInt(f.LocationID)
	}
	for _, row := range selectedSystems(f) {
		req.Systems = append(req.Systems, SystemEntry{
			System:          adventures.ToInt(row.System, 0),
			Level:           adventures.ToInt(row.Level, 0),
			ProgressPercent: adventures.ToInt(row.ProgressPercent, 0),
			Notes:           row.Notes,
		})
	}
	for _, row := range selectedTechniques(f) {
		req.Techniques = append(req.Techniques, TechniqueEntry{
			Technique: adventures.ToInt(row.Technique, 0),
			Notes:     row.Notes,
		})
	}
	return req
}

// ChosenSystems returns the ids picked in the system rows; the technique
// rows offer only these systems.
func ChosenSystems(f Form) []int {
	var ids []int
	for _, row := range f.Systems {
		if id := adventures.ToInt(row.System, 0); id > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}
