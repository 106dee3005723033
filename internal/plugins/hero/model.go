// Package hero is the wizard that creates the primary hero of a run before
// play starts. Which attributes the player chooses is decided by the
// template's hero setup; see package herosetup for the rules.
package hero

import (
	"strconv"

	"github.com/keyxmakerx/saga/internal/adventures"
	"github.com/keyxmakerx/saga/internal/herosetup"
)

const (
	msgLoadFailed   = "Не удалось загрузить данные приключения."
	msgCreateFailed = "Не удалось создать героя."
)

// Wizard actions posted by the form buttons.
const (
	actionCreate       = "create"
	actionAddSystem    = "add-system"
	actionAddTechnique = "add-technique"
	actionRefresh      = "refresh"
)

// Wizard is the data the wizard is built from.
type Wizard struct {
	Run       adventures.Adventure
	Bootstrap adventures.Bootstrap
}

type Option struct {
	Value    string
	Label    string
	Selected bool
}

// TechniqueRowView is a technique row with the techniques of its system.
type TechniqueRowView struct {
	herosetup.TechniqueRow
	Systems    []Option
	Techniques []Option
}

// SystemRowView is a system row with its picker.
type SystemRowView struct {
	herosetup.SystemRow
	Systems []Option
}

// PageView is the wizard page.
type PageView struct {
	RunID  int
	Title  string
	Action string
	Error  string

	Setup         adventures.HeroSetup
	NeedsLocation bool
	Locations     []Option
	Races         []Option

	Form       herosetup.Form
	Systems    []SystemRowView
	Techniques []TechniqueRowView
}

// NewPageView builds the wizard page for form.
func NewPageView(w Wizard, form herosetup.Form, errMsg string) PageView {
	b := w.Bootstrap
	v := PageView{
		RunID:         w.Run.ID,
		Title:         w.Run.Title,
		Action:        wizardPath(w.Run.ID),
		Error:         errMsg,
		Setup:         b.HeroSetup,
		NeedsLocation: herosetup.NeedsLocation(b.HeroSetup),
		Locations:     options(b.Locations, form.LocationID),
		Races:         options(b.Races, form.Race),
		Form:          form,
	}

	for _, row := range form.Systems {
		v.Systems = append(v.Systems, SystemRowView{SystemRow: row, Systems: options(b.Systems, row.System)})
	}

	// Technique rows offer only the systems picked above, and only the
	// techniques of the row's system.
	chosen := make(map[int]bool)
	var known []adventures.System
	for _, id := range herosetup.ChosenSystems(form) {
		if chosen[id] {
			continue
		}
		chosen[id] = true
		for _, s := range b.Systems {
			if s.ID == id {
				known = append(known, s)
			}
		}
	}
	for _, row := range form.Techniques {
		rv := TechniqueRowView{TechniqueRow: row, Systems: options(known, row.System)}
		if sys := adventures.ToInt(row.System, 0); sys > 0 && chosen[sys] {
			var techniques []adventures.Technique
			for _, t := range b.Techniques {
				if t.System != nil && *t.System == sys {
					techniques = append(techniques, t)
				}
			}
			rv.Techniques = options(techniques, row.Technique)
		}
		v.Techniques = append(v.Techniques, rv)
	}
	return v
}

func options[T interface {
	EntityID() int
	DisplayTitle() string
}](items []T, selected string) []Option {
	sorted := adventures.SortByTitle(items)
	out := make([]Option, 0, len(sorted))
	for _, item := range sorted {
		value := strconv.Itoa(item.EntityID())
		out = append(out, Option{Value: value, Label: item.DisplayTitle(), Selected: value == selected})
	}
	return out
}

func wizardPath(runID int) string { return "/adventures/" + strconv.Itoa(runID) + "/hero" }
func playPath(runID int) string   { return "/adventures/" + strconv.Itoa(runID) + "/play" }
