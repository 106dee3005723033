package adventures

import (
	"encoding/json"
	"time"
)

// Adventure is a template or a run. Runs carry the template they were
// started from.
type Adventure struct {
	ID                   int    `json:"id"`
	Title                string `json:"title"`
	Description          string `json:"description"`
	SpecInstructions     string `json:"spec_instructions"`
	Intro                string `json:"intro"`
	PrimaryHero          *int   `json:"primary_hero"`
	TemplateAdventure    *int   `json:"template_adventure,omitempty"`
	RollbackMinHistoryID *int   `json:"rollback_min_history_id,omitempty"`
	Timestamps
}

func (a Adventure) EntityID() int        { return a.ID }
func (a Adventure) DisplayTitle() string { return a.Title }

// HasHero reports whether a primary hero is assigned.
func (a Adventure) HasHero() bool {
	return a.PrimaryHero != nil && *a.PrimaryHero != 0
}

// TemplateDraft is the "new template" form of the library page.
type TemplateDraft struct {
	Title       string `form:"title"`
	Description string `form:"description"`
}

type TemplatePayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

var InitialTemplateDraft = TemplateDraft{}

func TemplateToDraft(a Adventure) TemplateDraft {
	return TemplateDraft{Title: a.Title, Description: a.Description}
}

func TemplateToPayload(d TemplateDraft) TemplatePayload {
	return TemplatePayload{Title: d.Title, Description: d.Description}
}

// RunDraft is never submitted; runs are created by starting a template.
type RunDraft struct{}

func RunToDraft(Adventure) RunDraft { return RunDraft{} }

func RunToPayload(RunDraft) struct{} { return struct{}{} }

// GeneralDraft is the general tab of the editor.
type GeneralDraft struct {
	Title            string `form:"title"`
	Description      string `form:"description"`
	SpecInstructions string `form:"spec_instructions"`
	Intro            string `form:"intro"`
	PrimaryHero      string `form:"primary_hero"`
}

type GeneralPayload struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	SpecInstructions string `json:"spec_instructions"`
	Intro            string `json:"intro"`
	PrimaryHero      *int   `json:"primary_hero"`
}

func GeneralToDraft(a Adventure) GeneralDraft {
	return GeneralDraft{
		Title:            a.Title,
		Description:      a.Description,
		SpecInstructions: a.SpecInstructions,
		Intro:            a.Intro,
		PrimaryHero:      FormatRef(a.PrimaryHero),
	}
}

func GeneralToPayload(d GeneralDraft) GeneralPayload {
	return GeneralPayload{
		Title:            d.Title,
		Description:      d.Description,
		SpecInstructions: d.SpecInstructions,
		Intro:            d.Intro,
		PrimaryHero:      ToOptionalInt(d.PrimaryHero),
	}
}

// HeroSetup is a template's rules for creating the primary hero of a run:
// which attributes the player must choose and the defaults for the rest.
type HeroSetup struct {
	DefaultLocation   *int `json:"default_location"`
	RequireRace       bool `json:"require_race"`
	DefaultRace       *int `json:"default_race"`
	RequireAge        bool `json:"require_age"`
	DefaultAge        *int `json:"default_age"`
	RequireBodyPower  bool `json:"require_body_power"`
	DefaultBodyPower  *int `json:"default_body_power"`
	RequireMindPower  bool `json:"require_mind_power"`
	DefaultMindPower  *int `json:"default_mind_power"`
	RequireWillPower  bool `json:"require_will_power"`
	DefaultWillPower  *int `json:"default_will_power"`
	RequireSystems    bool `json:"require_systems"`
	RequireTechniques bool `json:"require_techniques"`
}

type HeroSetupDraft struct {
	DefaultLocation  string `form:"default_location"`
	RequireRace      bool   `form:"require_race"`
	DefaultRace      string `form:"default_race"`
	RequireAge       bool   `form:"require_age"`
	DefaultAge       string `form:"default_age"`
	RequireBodyPower bool   `form:"require_body_power"`
	DefaultBodyPower string `form:"default_body_power"`
	RequireMindPower bool   `form:"require_mind_power"`
	DefaultMindPower string `form:"default_mind_power"`
	RequireWillPower bool   `form:"require_will_power"`
	DefaultWillPower string `form:"default_will_power"`
}

// InitialHeroSetupDraft asks the player for race and all three powers.
var InitialHeroSetupDraft = HeroSetupDraft{
	RequireRace:      true,
	RequireBodyPower: true,
	RequireMindPower: true,
	RequireWillPower: true,
}

func HeroSetupToDraft(h HeroSetup) HeroSetupDraft {
	return HeroSetupDraft{
		DefaultLocation:  FormatRef(h.DefaultLocation),
		RequireRace:      h.RequireRace,
		DefaultRace:      FormatRef(h.DefaultRace),
		RequireAge:       h.RequireAge,
		DefaultAge:       FormatOptionalInt(h.DefaultAge),
		RequireBodyPower: h.RequireBodyPower,
		DefaultBodyPower: FormatOptionalInt(h.DefaultBodyPower),
		RequireMindPower: h.RequireMindPower,
		DefaultMindPower: FormatOptionalInt(h.DefaultMindPower),
		RequireWillPower: h.RequireWillPower,
		DefaultWillPower: FormatOptionalInt(h.DefaultWillPower),
	}
}

// HeroSetupToPayload builds the PUT body. System and technique
// requirements are not editable and always sent as false.
func HeroSetupToPayload(d HeroSetupDraft) HeroSetup {
	return HeroSetup{
		DefaultLocation:  ToOptionalInt(d.DefaultLocation),
		RequireRace:      d.RequireRace,
		DefaultRace:      ToOptionalInt(d.DefaultRace),
		RequireAge:       d.RequireAge,
		DefaultAge:       ToOptionalInt(d.DefaultAge),
		RequireBodyPower: d.RequireBodyPower,
		DefaultBodyPower: ToOptionalInt(d.DefaultBodyPower),
		RequireMindPower: d.RequireMindPower,
		DefaultMindPower: ToOptionalInt(d.DefaultMindPower),
		RequireWillPower: d.RequireWillPower,
		DefaultWillPower: ToOptionalInt(d.DefaultWillPower),
	}
}

// Bootstrap is everything the hero setup wizard of a run needs.
type Bootstrap struct {
	HeroSetup  HeroSetup   `json:"hero_setup"`
	Races      []Race      `json:"races"`
	Systems    []System    `json:"systems"`
	Techniques []Technique `json:"techniques"`
	Locations  []Location  `json:"locations"`
}

// History roles.
const (
	RoleUser   = "user"
	RoleAI     = "ai"
	RoleSystem = "system"
)

// HistoryEntry is one turn of a run's story.
type HistoryEntry struct {
	ID        int             `json:"id"`
	Role      string          `json:"role"`
	Content   string          `json:"content"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// HeroTurn is the response of a "say as hero" call: the user's line and
// the narrator's reply.
type HeroTurn struct {
	UserEntry HistoryEntry  `json:"user_entry"`
	AIEntry   *HistoryEntry `json:"ai_entry"`
}

// QueueEntry is a template awaiting moderation.
type QueueEntry struct {
	AdventureID    int       `json:"adventure_id"`
	Title          string    `json:"title"`
	AuthorUsername string    `json:"author_username"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

func (q QueueEntry) EntityID() int        { return q.AdventureID }
func (q QueueEntry) DisplayTitle() string { return q.Title }

// Moderation decisions.
const (
	DecisionPublish = "publish"
	DecisionReject  = "reject"
)

// PublishedEntry is a template visible to every user.
type PublishedEntry struct {
	AdventureID    int       `json:"adventure_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	AuthorUsername string    `json:"author_username"`
	PublishedAt    time.Time `json:"published_at"`
}

func (p PublishedEntry) EntityID() int        { return p.AdventureID }
func (p PublishedEntry) DisplayTitle() string { return p.Title }
