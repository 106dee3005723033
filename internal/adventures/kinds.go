package adventures

import "time"

// Timestamps are set by the backend on every entity.
type Timestamps struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// --- Location ---

type Location struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	X           int      `json:"x"`
	Y           int      `json:"y"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	Tags        []string `json:"tags"`
	Timestamps
}

func (e Location) EntityID() int        { return e.ID }
func (e Location) DisplayTitle() string { return e.Title }

type LocationDraft struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	X           string `form:"x"`
	Y           string `form:"y"`
	Width       string `form:"width"`
	Height      string `form:"height"`
	Tags        string `form:"tags"`
}

type LocationPayload struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	X           int      `json:"x"`
	Y           int      `json:"y"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	Tags        []string `json:"tags"`
}

var InitialLocationDraft = LocationDraft{X: "0", Y: "0", Width: "1", Height: "1"}

func LocationToDraft(e Location) LocationDraft {
	return LocationDraft{
		Title:       e.Title,
		Description: e.Description,
		X:           FormatInt(e.X),
		Y:           FormatInt(e.Y),
		Width:       FormatInt(e.Width),
		Height:      FormatInt(e.Height),
		Tags:        FormatTags(e.Tags),
	}
}

func LocationToPayload(d LocationDraft) LocationPayload {
	return LocationPayload{
		Title:       d.Title,
		Description: d.Description,
		X:           ToInt(d.X, 0),
		Y:           ToInt(d.Y, 0),
		Width:       ToInt(d.Width, 1),
		Height:      ToInt(d.Height, 1),
		Tags:        SerializeTags(d.Tags),
	}
}

// --- Race ---

type Race struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	LifeSpan    int      `json:"life_span"`
	Tags        []string `json:"tags"`
	Timestamps
}

func (e Race) EntityID() int        { return e.ID }
func (e Race) DisplayTitle() string { return e.Title }

type RaceDraft struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	LifeSpan    string `form:"life_span"`
	Tags        string `form:"tags"`
}

type RacePayload struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	LifeSpan    int      `json:"life_span"`
	Tags        []string `json:"tags"`
}

var InitialRaceDraft = RaceDraft{LifeSpan: "100"}

func RaceToDraft(e Race) RaceDraft {
	return RaceDraft{
		Title:       e.Title,
		Description: e.Description,
		LifeSpan:    FormatInt(e.LifeSpan),
		Tags:        FormatTags(e.Tags),
	}
}

func RaceToPayload(d RaceDraft) RacePayload {
	return RacePayload{
		Title:       d.Title,
		Description: d.Description,
		LifeSpan:    ToInt(d.LifeSpan, 100),
		Tags:        SerializeTags(d.Tags),
	}
}

// --- System ---

// System is a skill system; the weights say how body, mind and will
// contribute to progress in it.
type System struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	WBody       int      `json:"w_body"`
	WMind       int      `json:"w_mind"`
	WWill       int      `json:"w_will"`
	FormulaHint string   `json:"formula_hint"`
	Tags        []string `json:"tags"`
	Timestamps
}

func (e System) EntityID() int        { return e.ID }
func (e System) DisplayTitle() string { return e.Title }

type SystemDraft struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	WBody       string `form:"w_body"`
	WMind       string `form:"w_mind"`
	WWill       string `form:"w_will"`
	FormulaHint string `form:"formula_hint"`
	Tags        string `form:"tags"`
}

type SystemPayload struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	WBody       int      `json:"w_body"`
	WMind       int      `json:"w_mind"`
	WWill       int      `json:"w_will"`
	FormulaHint string   `json:"formula_hint"`
	Tags        []string `json:"tags"`
}

// InitialSystemDraft defaults to a purely mental system; the backend
// rejects all-zero weights.
var InitialSystemDraft = SystemDraft{WBody: "0", WMind: "100", WWill: "0"}

func SystemToDraft(e System) SystemDraft {
	return SystemDraft{
		Title:       e.Title,
		Description: e.Description,
		WBody:       FormatInt(e.WBody),
		WMind:       FormatInt(e.WMind),
		WWill:       FormatInt(e.WWill),
		FormulaHint: e.FormulaHint,
		Tags:        FormatTags(e.Tags),
	}
}

func SystemToPayload(d SystemDraft) SystemPayload {
	return SystemPayload{
		Title:       d.Title,
		Description: d.Description,
		WBody:       ToInt(d.WBody, 0),
		WMind:       ToInt(d.WMind, 0),
		WWill:       ToInt(d.WWill, 0),
		FormulaHint: d.FormulaHint,
		Tags:        SerializeTags(d.Tags),
	}
}

// --- Technique ---

// Technique belongs to a system. A nil Tier marks a rankless technique.
type Technique struct {
	ID                  int      `json:"id"`
	System              *int     `json:"system"`
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	Difficulty          int      `json:"difficulty"`
	Tier                *int     `json:"tier"`
	RequiredSystemLevel int      `json:"required_system_level"`
	Tags                []string `json:"tags"`
	Timestamps
}

func (e Technique) EntityID() int        { return e.ID }
func (e Technique) DisplayTitle() string { return e.Title }

type TechniqueDraft struct {
	System              string `form:"system"`
	Title               string `form:"title"`
	Description         string `form:"description"`
	Difficulty          string `form:"difficulty"`
	Tier                string `form:"tier"`
	Rankless            bool   `form:"is_rankless"`
	RequiredSystemLevel string `form:"required_system_level"`
	Tags                string `form:"tags"`
}

type TechniquePayload struct {
	System              *int     `json:"system"`
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	Difficulty          int      `json:"difficulty"`
	Tier                *int     `json:"tier"`
	RequiredSystemLevel int      `json:"required_system_level"`
	Tags                []string `json:"tags"`
}

var InitialTechniqueDraft = TechniqueDraft{Difficulty: "0", Tier: "0", RequiredSystemLevel: "0"}

func TechniqueToDraft(e Technique) TechniqueDraft {
	return TechniqueDraft{
		System:              FormatRef(e.System),
		Title:               e.Title,
		Description:         e.Description,
		Difficulty:          FormatInt(e.Difficulty),
		Tier:                FormatOptionalInt(e.Tier),
		Rankless:            e.Tier == nil,
		RequiredSystemLevel: FormatInt(e.RequiredSystemLevel),
		Tags:                FormatTags(e.Tags),
	}
}

func TechniqueToPayload(d TechniqueDraft) TechniquePayload {
	var tier *int
	if !d.Rankless {
		tier = ToOptionalInt(d.Tier)
		if tier == nil {
			zero := 0
			tier = &zero
		}
	}
	return TechniquePayload{
		System:              ToOptionalInt(d.System),
		Title:               d.Title,
		Description:         d.Description,
		Difficulty:          ToInt(d.Difficulty, 0),
		Tier:                tier,
		RequiredSystemLevel: ToInt(d.RequiredSystemLevel, 0),
		Tags:                SerializeTags(d.Tags),
	}
}

// --- Faction ---

type Faction struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Timestamps
}

func (e Faction) EntityID() int        { return e.ID }
func (e Faction) DisplayTitle() string { return e.Title }

type FactionDraft struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	Tags        string `form:"tags"`
}

type FactionPayload struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

var InitialFactionDraft = FactionDraft{}

func FactionToDraft(e Faction) FactionDraft {
	return FactionDraft{Title: e.Title, Description: e.Description, Tags: FormatTags(e.Tags)}
}

func FactionToPayload(d FactionDraft) FactionPayload {
	return FactionPayload{Title: d.Title, Description: d.Description, Tags: SerializeTags(d.Tags)}
}

// --- Event ---

// Event statuses.
const (
	EventInactive = "inactive"
	EventActive   = "active"
	EventResolved = "resolved"
)

type Event struct {
	ID          int    `json:"id"`
	Location    *int   `json:"location"`
	Status      string `json:"status"`
	Title       string `json:"title"`
	TriggerHint string `json:"trigger_hint"`
	State       string `json:"state"`
	Timestamps
}

func (e Event) EntityID() int        { return e.ID }
func (e Event) DisplayTitle() string { return e.Title }

type EventDraft struct {
	Title       string `form:"title"`
	Status      string `form:"status"`
	Location    string `form:"location"`
	TriggerHint string `form:"trigger_hint"`
	State       string `form:"state"`
}

type EventPayload struct {
	Title       string `json:"title"`
	Status      string `json:"status"`
	Location    *int   `json:"location"`
	TriggerHint string `json:"trigger_hint"`
	State       string `json:"state"`
}

var InitialEventDraft = EventDraft{Status: EventInactive}

func EventToDraft(e Event) EventDraft {
	status := e.Status
	if status == "" {
		status = EventInactive
	}
	return EventDraft{
		Title:       e.Title,
		Status:      status,
		Location:    FormatRef(e.Location),
		TriggerHint: e.TriggerHint,
		State:       e.State,
	}
}

func EventToPayload(d EventDraft) EventPayload {
	return EventPayload{
		Title:       d.Title,
		Status:      d.Status,
		Location:    ToOptionalInt(d.Location),
		TriggerHint: d.TriggerHint,
		State:       d.State,
	}
}

// --- OtherInfo ---

// OtherInfo is a free-form note grouped by category.
type OtherInfo struct {
	ID          int      `json:"id"`
	Category    string   `json:"category"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Timestamps
}

func (e OtherInfo) EntityID() int        { return e.ID }
func (e OtherInfo) DisplayTitle() string { return e.Title }

type OtherInfoDraft struct {
	Category    string `form:"category"`
	Title       string `form:"title"`
	Description string `form:"description"`
	Tags        string `form:"tags"`
}

type OtherInfoPayload struct {
	Category    string   `json:"category"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

var InitialOtherInfoDraft = OtherInfoDraft{}

func OtherInfoToDraft(e OtherInfo) OtherInfoDraft {
	return OtherInfoDraft{
		Category:    e.Category,
		Title:       e.Title,
		Description: e.Description,
		Tags:        FormatTags(e.Tags),
	}
}

func OtherInfoToPayload(d OtherInfoDraft) OtherInfoPayload {
	return OtherInfoPayload{
		Category:    d.Category,
		Title:       d.Title,
		Description: d.Description,
		Tags:        SerializeTags(d.Tags),
	}
}

// --- Character ---

type Character struct {
	ID                int      `json:"id"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	IsPlayer          bool     `json:"is_player"`
	InParty           bool     `json:"in_party"`
	Age               *int     `json:"age"`
	BodyPower         int      `json:"body_power"`
	BodyPowerProgress int      `json:"body_power_progress"`
	MindPower         int      `json:"mind_power"`
	MindPowerProgress int      `json:"mind_power_progress"`
	WillPower         int      `json:"will_power"`
	WillPowerProgress int      `json:"will_power_progress"`
	Race              *int     `json:"race"`
	Location          *int     `json:"location"`
	Tags              []string `json:"tags"`
	Timestamps
}

func (e Character) EntityID() int        { return e.ID }
func (e Character) DisplayTitle() string { return e.Title }

type CharacterDraft struct {
	Title             string `form:"title"`
	Description       string `form:"description"`
	IsPlayer          bool   `form:"is_player"`
	InParty           bool   `form:"in_party"`
	Age               string `form:"age"`
	BodyPower         string `form:"body_power"`
	BodyPowerProgress string `form:"body_power_progress"`
	MindPower         string `form:"mind_power"`
	MindPowerProgress string `form:"mind_power_progress"`
	WillPower         string `form:"will_power"`
	WillPowerProgress string `form:"will_power_progress"`
	Race              string `form:"race"`
	Location          string `form:"location"`
	Tags              string `form:"tags"`
}

type CharacterPayload struct {
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	IsPlayer          bool     `json:"is_player"`
	InParty           bool     `json:"in_party"`
	Age               *int     `json:"age"`
	BodyPower         int      `json:"body_power"`
	BodyPowerProgress int      `json:"body_power_progress"`
	MindPower         int      `json:"mind_power"`
	MindPowerProgress int      `json:"mind_power_progress"`
	WillPower         int      `json:"will_power"`
	WillPowerProgress int      `json:"will_power_progress"`
	Race              *int     `json:"race"`
	Location          *int     `json:"location"`
	Tags              []string `json:"tags"`
}

var InitialCharacterDraft = CharacterDraft{
	BodyPower:         "0",
	BodyPowerProgress: "0",
	MindPower:         "0",
	MindPowerProgress: "0",
	WillPower:         "0",
	WillPowerProgress: "0",
}

func CharacterToDraft(e Character) CharacterDraft {
	return CharacterDraft{
		Title:             e.Title,
		Description:       e.Description,
		IsPlayer:          e.IsPlayer,
		InParty:           e.InParty,
		Age:               FormatOptionalInt(e.Age),
		BodyPower:         FormatInt(e.BodyPower),
		BodyPowerProgress: FormatInt(e.BodyPowerProgress),
		MindPower:         FormatInt(e.MindPower),
		MindPowerProgress: FormatInt(e.MindPowerProgress),
		WillPower:         FormatInt(e.WillPower),
		WillPowerProgress: FormatInt(e.WillPowerProgress),
		Race:              FormatRef(e.Race),
		Location:          FormatRef(e.Location),
		Tags:              FormatTags(e.Tags),
	}
}

func CharacterToPayload(d CharacterDraft) CharacterPayload {
	return CharacterPayload{
		Title:             d.Title,
		Description:       d.Description,
		IsPlayer:          d.IsPlayer,
		InParty:           d.InParty,
		Age:               ToOptionalInt(d.Age),
		BodyPower:         ToInt(d.BodyPower, 0),
		BodyPowerProgress: ToInt(d.BodyPowerProgress, 0),
		MindPower:         ToInt(d.MindPower, 0),
		MindPowerProgress: ToInt(d.MindPowerProgress, 0),
		WillPower:         ToInt(d.WillPower, 0),
		WillPowerProgress: ToInt(d.WillPowerProgress, 0),
		Race:              ToOptionalInt(d.Race),
		Location:          ToOptionalInt(d.Location),
		Tags:              SerializeTags(d.Tags),
	}
}

// --- CharacterSystem ---

// CharacterSystem is a character's level in one skill system.
type CharacterSystem struct {
	ID              int    `json:"id"`
	Character       int    `json:"character"`
	System          int    `json:"system"`
	Level           int    `json:"level"`
	ProgressPercent int    `json:"progress_percent"`
	Notes           string `json:"notes"`
}

func (e CharacterSystem) EntityID() int { return e.ID }

// CharacterSystemDraft carries the owning character in a hidden field; the
// editor fills it from the active character.
type CharacterSystemDraft struct {
	Character       string `form:"character"`
	System          string `form:"system"`
	Level           string `form:"level"`
	ProgressPercent string `form:"progress_percent"`
	Notes           string `form:"notes"`
}

type CharacterSystemPayload struct {
	Character       *int   `json:"character"`
	System          *int   `json:"system"`
	Level           int    `json:"level"`
	ProgressPercent int    `json:"progress_percent"`
	Notes           string `json:"notes"`
}

var InitialCharacterSystemDraft = CharacterSystemDraft{Level: "0", ProgressPercent: "0"}

func CharacterSystemToDraft(e CharacterSystem) CharacterSystemDraft {
	return CharacterSystemDraft{
		Character:       refString(e.Character),
		System:          refString(e.System),
		Level:           FormatInt(e.Level),
		ProgressPercent: FormatInt(e.ProgressPercent),
		Notes:           e.Notes,
	}
}

func CharacterSystemToPayload(d CharacterSystemDraft) CharacterSystemPayload {
	return CharacterSystemPayload{
		Character:       ToOptionalInt(d.Character),
		System:          ToOptionalInt(d.System),
		Level:           ToInt(d.Level, 0),
		ProgressPercent: ToInt(d.ProgressPercent, 0),
		Notes:           d.Notes,
	}
}

// --- CharacterTechnique ---

// CharacterTechnique records that a character has learned a technique.
type CharacterTechnique struct {
	ID        int        `json:"id"`
	Character int        `json:"character"`
	Technique int        `json:"technique"`
	LearnedAt *time.Time `json:"learned_at,omitempty"`
	Notes     string     `json:"notes"`
}

func (e CharacterTechnique) EntityID() int { return e.ID }

// CharacterTechniqueDraft has a System field that only narrows the
// technique picker; it is not sent to the backend.
type CharacterTechniqueDraft struct {
	Character string `form:"character"`
	System    string `form:"system"`
	Technique string `form:"technique"`
	Notes     string `form:"notes"`
}

type CharacterTechniquePayload struct {
	Character *int   `json:"character"`
	Technique *int   `json:"technique"`
	Notes     string `json:"notes"`
}

var InitialCharacterTechniqueDraft = CharacterTechniqueDraft{}

// CharacterTechniqueToDraft returns the projection for the given technique
// list, which is needed to recover the technique's system.
func CharacterTechniqueToDraft(techniques []Technique) func(CharacterTechnique) CharacterTechniqueDraft {
	return func(e CharacterTechnique) CharacterTechniqueDraft {
		d := CharacterTechniqueDraft{
			Character: refString(e.Character),
			Technique: refString(e.Technique),
			Notes:     e.Notes,
		}
		for _, t := range techniques {
			if t.ID == e.Technique {
				d.System = FormatRef(t.System)
				break
			}
		}
		return d
	}
}

func CharacterTechniqueToPayload(d CharacterTechniqueDraft) CharacterTechniquePayload {
	return CharacterTechniquePayload{
		Character: ToOptionalInt(d.Character),
		Technique: ToOptionalInt(d.Technique),
		Notes:     d.Notes,
	}
}

func refString(id int) string {
	if id == 0 {
		return ""
	}
	return FormatInt(id)
}
