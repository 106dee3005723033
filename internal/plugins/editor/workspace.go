package editor

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/keyxmakerx/saga/internal/adventures"
	"github.com/keyxmakerx/saga/internal/collection"
	"github.com/keyxmakerx/saga/internal/plugins/auth"
)

// workspace holds the controllers of one adventure for one session.
type workspace struct {
	scope     adventures.Scope
	id        int
	character int
	base      string

	locations      *collection.Controller[adventures.Location, adventures.LocationDraft]
	races          *collection.Controller[adventures.Race, adventures.RaceDraft]
	systems        *collection.Controller[adventures.System, adventures.SystemDraft]
	techniques     *collection.Controller[adventures.Technique, adventures.TechniqueDraft]
	factions       *collection.Controller[adventures.Faction, adventures.FactionDraft]
	events         *collection.Controller[adventures.Event, adventures.EventDraft]
	other          *collection.Controller[adventures.OtherInfo, adventures.OtherInfoDraft]
	characters     *collection.Controller[adventures.Character, adventures.CharacterDraft]
	charSystems    *collection.Controller[adventures.CharacterSystem, adventures.CharacterSystemDraft]
	charTechniques *collection.Controller[adventures.CharacterTechnique, adventures.CharacterTechniqueDraft]
}

// editorPath returns the page URL of an adventure, e.g. /adventures/5 or
// /adventures/runs/5.
func editorPath(scope adventures.Scope, id int) string {
	if scope == adventures.ScopeRuns {
		return "/adventures/runs/" + strconv.Itoa(id)
	}
	return "/adventures/" + strconv.Itoa(id)
}

// editorSlot keys a tab's controller by adventure, so that editing two
// adventures in one session never retargets a controller under an open form.
func editorSlot(scope adventures.Scope, id int, tab string) string {
	return "editor/" + string(scope) + ":" + strconv.Itoa(id) + "/" + tab
}

func obtain[E collection.Identifiable, D any](
	reg *collection.Registry,
	actor auth.Actor,
	ws *workspace,
	tab, path string,
	cfg collection.Config[E, D],
) *collection.Controller[E, D] {
	cfg.OwnerKey = string(ws.scope) + ":" + strconv.Itoa(ws.id)
	cfg.Endpoint = adventures.Endpoint(ws.scope, ws.id, path)
	cfg.Requester = actor.Requester
	return collection.Obtain(reg, actor.SessionID, editorSlot(ws.scope, ws.id, tab), cfg)
}

func openWorkspace(reg *collection.Registry, actor auth.Actor, scope adventures.Scope, id, character int) *workspace {
	ws := &workspace{scope: scope, id: id, character: character, base: editorPath(scope, id)}

	ws.locations = obtain(reg, actor, ws, TabLocations, "locations/", collection.Config[adventures.Location, adventures.LocationDraft]{
		InitialDraft: adventures.InitialLocationDraft,
		ToDraft:      adventures.LocationToDraft,
		ToPayload:    collection.PayloadOf(adventures.LocationToPayload),
	})
	ws.races = obtain(reg, actor, ws, TabRaces, "races/", collection.Config[adventures.Race, adventures.RaceDraft]{
		InitialDraft: adventures.InitialRaceDraft,
		ToDraft:      adventures.RaceToDraft,
		ToPayload:    collection.PayloadOf(adventures.RaceToPayload),
	})
	ws.systems = obtain(reg, actor, ws, TabSystems, "systems/", collection.Config[adventures.System, adventures.SystemDraft]{
		InitialDraft: adventures.InitialSystemDraft,
		ToDraft:      adventures.SystemToDraft,
		ToPayload:    collection.PayloadOf(adventures.SystemToPayload),
	})
	ws.techniques = obtain(reg, actor, ws, TabTechniques, "techniques/", collection.Config[adventures.Technique, adventures.TechniqueDraft]{
		InitialDraft: adventures.InitialTechniqueDraft,
		ToDraft:      adventures.TechniqueToDraft,
		ToPayload:    collection.PayloadOf(adventures.TechniqueToPayload),
	})
	ws.factions = obtain(reg, actor, ws, TabFactions, "factions/", collection.Config[adventures.Faction, adventures.FactionDraft]{
		InitialDraft: adventures.InitialFactionDraft,
		ToDraft:      adventures.FactionToDraft,
		ToPayload:    collection.PayloadOf(adventures.FactionToPayload),
	})
	ws.events = obtain(reg, actor, ws, TabEvents, "events/", collection.Config[adventures.Event, adventures.EventDraft]{
		InitialDraft: adventures.InitialEventDraft,
		ToDraft:      adventures.EventToDraft,
		ToPayload:    collection.PayloadOf(adventures.EventToPayload),
	})
	ws.other = obtain(reg, actor, ws, TabOther, "other-info/", collection.Config[adventures.OtherInfo, adventures.OtherInfoDraft]{
		InitialDraft: adventures.InitialOtherInfoDraft,
		ToDraft:      adventures.OtherInfoToDraft,
		ToPayload:    collection.PayloadOf(adventures.OtherInfoToPayload),
	})
	ws.characters = obtain(reg, actor, ws, TabCharacters, "characters/", collection.Config[adventures.Character, adventures.CharacterDraft]{
		InitialDraft: adventures.InitialCharacterDraft,
		ToDraft:      adventures.CharacterToDraft,
		ToPayload:    collection.PayloadOf(adventures.CharacterToPayload),
	})
	ws.charSystems = obtain(reg, actor, ws, TabCharacterSystems, "character-systems/", collection.Config[adventures.CharacterSystem, adventures.CharacterSystemDraft]{
		InitialDraft: adventures.InitialCharacterSystemDraft,
		ToDraft:      adventures.CharacterSystemToDraft,
		ToPayload:    collection.PayloadOf(adventures.CharacterSystemToPayload),
	})
	ws.charTechniques = obtain(reg, actor, ws, TabCharacterTechniques, "character-techniques/", collection.Config[adventures.CharacterTechnique, adventures.CharacterTechniqueDraft]{
		InitialDraft: adventures.InitialCharacterTechniqueDraft,
		ToDraft: func(e adventures.CharacterTechnique) adventures.CharacterTechniqueDraft {
			return adventures.CharacterTechniqueToDraft(ws.techniques.Items())(e)
		},
		ToPayload: collection.PayloadOf(adventures.CharacterTechniqueToPayload),
	})
	return ws
}

// loadAll refreshes every collection concurrently. Lists are fail-soft;
// the first error is returned for the caller to inspect.
func (ws *workspace) loadAll(ctx context.Context) error {
	loaders := []func(context.Context) error{
		ws.locations.Load, ws.races.Load, ws.systems.Load, ws.techniques.Load,
		ws.factions.Load, ws.events.Load, ws.other.Load, ws.characters.Load,
		ws.charSystems.Load, ws.charTechniques.Load,
	}
	errs := make([]error, len(loaders))
	g, gctx := errgroup.WithContext(ctx)
	for i, load := range loaders {
		g.Go(func() error {
			errs[i] = load(gctx)
			return nil
		})
	}
	_ = g.Wait()

	var first error
	for _, err := range errs {
		if err == nil {
			continue
		}
		slog.Warn("loading editor list", slog.Any("error", err))
		if first == nil {
			first = err
		}
	}
	return first
}

// query keeps the active character selected across posts.
func (ws *workspace) query(character int) string {
	if character == 0 {
		return ""
	}
	return "?character=" + strconv.Itoa(character)
}

// pageURL is the editor page showing tab with the given active character.
// Character sub-tabs live on the characters tab.
func pageURL(scope adventures.Scope, id int, tab string, character int) string {
	if tab == TabCharacterSystems || tab == TabCharacterTechniques {
		tab = TabCharacters
	}
	v := url.Values{"tab": {tab}}
	if character != 0 {
		v.Set("character", strconv.Itoa(character))
	}
	return editorPath(scope, id) + "/edit?" + v.Encode()
}

// tab returns the named entity tab.
func (ws *workspace) tab(name string) (Tab, bool) {
	action := ws.base + "/edit/" + name
	q := ws.query(ws.character)

	switch name {
	case TabLocations:
		return &entityTab[adventures.Location, adventures.LocationDraft]{
			name: name, empty: "Пока нет локаций.", ctrl: ws.locations, action: action, query: q,
			card: func(e adventures.Location) Card {
				return Card{ID: e.ID, Title: e.Title, Description: e.Description, Meta: []string{
					fmt.Sprintf("Координаты: %d, %d • Размер: %dx%d", e.X, e.Y, e.Width, e.Height),
					tagsMeta(e.Tags),
				}}
			},
			fields: func(adventures.LocationDraft) []Field {
				return []Field{
					titleField("Название"),
					descriptionField(3),
					{Name: "x", Label: "X", Kind: KindNumber},
					{Name: "y", Label: "Y", Kind: KindNumber},
					{Name: "width", Label: "Ширина", Kind: KindNumber, Min: "1"},
					{Name: "height", Label: "Высота", Kind: KindNumber, Min: "1"},
					tagsField(),
				}
			},
		}, true

	case TabRaces:
		return &entityTab[adventures.Race, adventures.RaceDraft]{
			name: name, empty: "Пока нет рас.", ctrl: ws.races, action: action, query: q,
			card: func(e adventures.Race) Card {
				return Card{ID: e.ID, Title: e.Title, Description: e.Description, Meta: []string{
					fmt.Sprintf("Продолжительность жизни: %d", e.LifeSpan),
					tagsMeta(e.Tags),
				}}
			},
			fields: func(adventures.RaceDraft) []Field {
				return []Field{
					titleField("Название"),
					descriptionField(3),
					{Name: "life_span", Label: "Продолжительность жизни", Kind: KindNumber, Min: "0"},
					tagsField(),
				}
			},
		}, true

	case TabSystems:
		return &entityTab[adventures.System, adventures.SystemDraft]{
			name: name, empty: "Пока нет систем.", ctrl: ws.systems, action: action, query: q,
			card: func(e adventures.System) Card {
				meta := []string{fmt.Sprintf("Веса: тело %d, разум %d, воля %d", e.WBody, e.WMind, e.WWill)}
				if e.FormulaHint != "" {
					meta = append(meta, "Формула: "+e.FormulaHint)
				}
				return Card{ID: e.ID, Title: e.Title, Description: e.Description, Meta: append(meta, tagsMeta(e.Tags))}
			},
			fields: func(adventures.SystemDraft) []Field {
				return []Field{
					titleField("Название"),
					descriptionField(3),
					{Name: "w_body", Label: "Вес тела", Kind: KindNumber, Min: "0"},
					{Name: "w_mind", Label: "Вес разума", Kind: KindNumber, Min: "0"},
					{Name: "w_will", Label: "Вес воли", Kind: KindNumber, Min: "0"},
					{Name: "formula_hint", Label: "Формула (описание)", Kind: KindTextarea, Rows: 2},
					tagsField(),
				}
			},
		}, true

	case TabTechniques:
		systems := ws.systems.Items()
		return &entityTab[adventures.Technique, adventures.TechniqueDraft]{
			name: name, empty: "Пока нет приемов.", ctrl: ws.techniques, action: action, query: q,
			card: func(e adventures.Technique) Card {
				tier := "—"
				if e.Tier != nil {
					tier = strconv.Itoa(*e.Tier)
				}
				return Card{ID: e.ID, Title: e.Title, Description: e.Description, Meta: []string{
					"Система: " + titleByRef(systems, e.System),
					fmt.Sprintf("Сложность %d • Ранг %s • Треб. уровень %d", e.Difficulty, tier, e.RequiredSystemLevel),
					tagsMeta(e.Tags),
				}}
			},
			fields: func(adventures.TechniqueDraft) []Field {
				return []Field{
					{Name: "system", Label: "Система", Kind: KindSelect, Empty: "Выберите систему", Options: titleOptions(systems)},
					titleField("Название"),
					descriptionField(3),
					{Name: "difficulty", Label: "Сложность", Kind: KindNumber, Min: "0"},
					{Name: "tier", Label: "Ранг", Kind: KindNumber, Min: "0"},
					{Name: "is_rankless", Label: "Безранговый прием", Kind: KindCheckbox},
					{Name: "required_system_level", Label: "Треб. уровень", Kind: KindNumber, Min: "0"},
					tagsField(),
				}
			},
		}, true

	case TabEvents:
		locations := ws.locations.Items()
		return &entityTab[adventures.Event, adventures.EventDraft]{
			name: name, empty: "Пока нет событий.", ctrl: ws.events, action: action, query: q,
			card: func(e adventures.Event) Card {
				where := "Глобальное"
				if e.Location != nil {
					where = titleByRef(locations, e.Location)
				}
				c := Card{ID: e.ID, Title: e.Title, Meta: []string{"Статус: " + e.Status, "Локация: " + where}}
				if e.TriggerHint != "" {
					c.Description = "Триггер: " + e.TriggerHint
				}
				if e.State != "" {
					c.Meta = append(c.Meta, "Состояние: "+e.State)
				}
				return c
			},
			fields: func(adventures.EventDraft) []Field {
				return []Field{
					titleField("Название"),
					{Name: "status", Label: "Статус", Kind: KindSelect, Options: []Option{
						{Value: adventures.EventInactive, Label: adventures.EventInactive},
						{Value: adventures.EventActive, Label: adventures.EventActive},
						{Value: adventures.EventResolved, Label: adventures.EventResolved},
					}},
					{Name: "location", Label: "Локация", Kind: KindSelect, Empty: "Глобальное", Options: titleOptions(locations)},
					{Name: "trigger_hint", Label: "Триггер старта", Kind: KindTextarea, Rows: 2},
					{Name: "state", Label: "Текущее состояние", Kind: KindTextarea, Rows: 2},
				}
			},
		}, true

	case TabFactions:
		return &entityTab[adventures.Faction, adventures.FactionDraft]{
			name: name, empty: "Пока нет фракций.", ctrl: ws.factions, action: action, query: q,
			card: func(e adventures.Faction) Card {
				return Card{ID: e.ID, Title: e.Title, Description: e.Description, Meta: []string{tagsMeta(e.Tags)}}
			},
			fields: func(adventures.FactionDraft) []Field {
				return []Field{titleField("Название"), descriptionField(3), tagsField()}
			},
		}, true

	case TabOther:
		return &entityTab[adventures.OtherInfo, adventures.OtherInfoDraft]{
			name: name, empty: msgNoEntries, ctrl: ws.other, action: action, query: q,
			card: func(e adventures.OtherInfo) Card {
				var meta []string
				if e.Category != "" {
					meta = append(meta, "Категория: "+e.Category)
				}
				return Card{ID: e.ID, Title: e.Title, Description: e.Description, Meta: append(meta, tagsMeta(e.Tags))}
			},
			fields: func(adventures.OtherInfoDraft) []Field {
				return []Field{
					{Name: "category", Label: "Категория", Kind: KindText},
					titleField("Заголовок"),
					descriptionField(3),
					tagsField(),
				}
			},
		}, true

	case TabCharacters:
		races := ws.races.Items()
		locations := ws.locations.Items()
		return &entityTab[adventures.Character, adventures.CharacterDraft]{
			name: name, empty: "Пока нет персонажей.", ctrl: ws.characters, action: action, query: q,
			card: func(e adventures.Character) Card {
				role, party := "NPC", "Вне партии"
				if e.IsPlayer {
					role = "Игрок"
				}
				if e.InParty {
					party = "В партии"
				}
				return Card{ID: e.ID, Title: e.Title, Description: e.Description, Meta: []string{
					"Роль: " + role + " • " + party,
					fmt.Sprintf("Сила: %d • Разум: %d • Воля: %d", e.BodyPower, e.MindPower, e.WillPower),
					tagsMeta(e.Tags),
				}}
			},
			fields: func(adventures.CharacterDraft) []Field {
				return []Field{
					titleField("Имя персонажа"),
					descriptionField(3),
					{Name: "is_player", Label: "Персонаж игрока", Kind: KindCheckbox},
					{Name: "in_party", Label: "В партии", Kind: KindCheckbox},
					{Name: "age", Label: "Возраст", Kind: KindNumber, Min: "0"},
					{Name: "body_power", Label: "Сила тела", Kind: KindNumber, Min: "0"},
					{Name: "mind_power", Label: "Сила разума", Kind: KindNumber, Min: "0"},
					{Name: "will_power", Label: "Сила воли", Kind: KindNumber, Min: "0"},
					{Name: "body_power_progress", Label: "Прогресс тела (%)", Kind: KindNumber, Min: "0", Max: "100"},
					{Name: "mind_power_progress", Label: "Прогресс разума (%)", Kind: KindNumber, Min: "0", Max: "100"},
					{Name: "will_power_progress", Label: "Прогресс воли (%)", Kind: KindNumber, Min: "0", Max: "100"},
					{Name: "race", Label: "Раса", Kind: KindSelect, Empty: "Не выбрана", Options: titleOptions(races)},
					{Name: "location", Label: "Локация", Kind: KindSelect, Empty: "Не выбрана", Options: titleOptions(locations)},
					tagsField(),
				}
			},
			prepare: func(d *adventures.CharacterDraft) error {
				// A player character is always in the party.
				if d.IsPlayer {
					d.InParty = true
				}
				return nil
			},
		}, true

	case TabCharacterSystems:
		return ws.characterSystemsTab(action), true

	case TabCharacterTechniques:
		return ws.characterTechniquesTab(action), true
	}
	return nil, false
}

func (ws *workspace) activeCharacterTitle() (string, bool) {
	if ws.character == 0 {
		return "", false
	}
	c, ok := ws.characters.Find(ws.character)
	return c.Title, ok
}

func (ws *workspace) characterSystemsTab(action string) Tab {
	characters := ws.characters.Items()
	systems := ws.systems.Items()
	title, active := ws.activeCharacterTitle()
	heading := "Знания систем"
	if active {
		heading += ": " + title
	}
	return &entityTab[adventures.CharacterSystem, adventures.CharacterSystemDraft]{
		name: TabCharacterSystems, heading: heading, empty: msgNoEntries,
		ctrl: ws.charSystems, action: action, query: ws.query(ws.character),
		disabled: !active, disabledMsg: msgPickCharacterSys,
		visible: func(e adventures.CharacterSystem) bool { return e.Character == ws.character },
		card: func(e adventures.CharacterSystem) Card {
			return Card{ID: e.ID, Title: titleByID(characters, e.Character), Description: e.Notes, Meta: []string{
				"Система: " + titleByID(systems, e.System),
				fmt.Sprintf("Уровень: %d • Прогресс: %d%%", e.Level, e.ProgressPercent),
			}}
		},
		fields: func(adventures.CharacterSystemDraft) []Field {
			return []Field{
				{Name: "system", Label: "Система", Kind: KindSelect, Empty: "Выберите систему", Options: titleOptions(systems)},
				{Name: "level", Label: "Уровень", Kind: KindNumber, Min: "0"},
				{Name: "progress_percent", Label: "Прогресс (%)", Kind: KindNumber, Min: "0", Max: "100"},
				{Name: "notes", Label: "Заметки", Kind: KindTextarea, Rows: 2},
			}
		},
		prepare: func(d *adventures.CharacterSystemDraft) error {
			d.Character = strconv.Itoa(ws.character)
			return nil
		},
	}
}

func (ws *workspace) characterTechniquesTab(action string) Tab {
	characters := ws.characters.Items()
	systems := ws.systems.Items()
	techniques := ws.techniques.Items()
	title, active := ws.activeCharacterTitle()
	heading := "Выученные приемы"
	if active {
		heading += ": " + title
	}

	// Only systems the character knows offer techniques.
	known := make(map[int]bool)
	for _, cs := range ws.charSystems.Items() {
		if cs.Character == ws.character {
			known[cs.System] = true
		}
	}
	var available []adventures.System
	for _, s := range systems {
		if known[s.ID] {
			available = append(available, s)
		}
	}

	return &entityTab[adventures.CharacterTechnique, adventures.CharacterTechniqueDraft]{
		name: TabCharacterTechniques, heading: heading, empty: msgNoEntries,
		ctrl: ws.charTechniques, action: action, query: ws.query(ws.character),
		disabled: !active, disabledMsg: msgPickCharacterTech,
		visible: func(e adventures.CharacterTechnique) bool { return e.Character == ws.character },
		card: func(e adventures.CharacterTechnique) Card {
			return Card{ID: e.ID, Title: titleByID(characters, e.Character), Description: e.Notes, Meta: []string{
				"Прием: " + titleByID(techniques, e.Technique),
			}}
		},
		fields: func(d adventures.CharacterTechniqueDraft) []Field {
			var options []adventures.Technique
			for _, t := range techniques {
				if t.System == nil || !known[*t.System] {
					continue
				}
				if d.System != "" && adventures.FormatRef(t.System) != d.System {
					continue
				}
				options = append(options, t)
			}
			return []Field{
				{Name: "system", Label: "Система", Kind: KindSelect, Empty: "Выберите систему", Options: titleOptions(available)},
				{Name: "technique", Label: "Прием", Kind: KindSelect, Empty: "Выберите прием", Options: titleOptions(options)},
				{Name: "notes", Label: "Заметки", Kind: KindTextarea, Rows: 2},
			}
		},
		prepare: func(d *adventures.CharacterTechniqueDraft) error {
			d.Character = strconv.Itoa(ws.character)
			return nil
		},
	}
}

// --- Field and card helpers ---

func titleField(label string) Field {
	return Field{Name: "title", Label: label, Kind: KindText}
}

func descriptionField(rows int) Field {
	return Field{Name: "description", Label: "Описание", Kind: KindTextarea, Rows: rows}
}

func tagsField() Field {
	return Field{Name: "tags", Label: "Теги (через запятую)", Kind: KindText}
}

func tagsMeta(tags []string) string {
	s := adventures.FormatTags(tags)
	if strings.TrimSpace(s) == "" {
		s = "—"
	}
	return "Теги: " + s
}

type titled interface {
	EntityID() int
	DisplayTitle() string
}

func titleByID[T titled](items []T, id int) string {
	for _, item := range items {
		if item.EntityID() == id && item.DisplayTitle() != "" {
			return item.DisplayTitle()
		}
	}
	return "—"
}

func titleByRef[T titled](items []T, id *int) string {
	if id == nil {
		return "—"
	}
	return titleByID(items, *id)
}
