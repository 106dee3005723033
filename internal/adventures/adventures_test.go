package adventures

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func intPtr(v int) *int { return &v }

func TestToInt(t *testing.T) {
	tests := []struct {
		in       string
		fallback int
		want     int
	}{
		{"42", 0, 42},
		{" 7 ", 0, 7},
		{"-3", 0, -3},
		{"2.9", 0, 2},
		{"", 100, 100},
		{"abc", 1, 1},
	}
	for _, tt := range tests {
		if got := ToInt(tt.in, tt.fallback); got != tt.want {
			t.Errorf("ToInt(%q, %d) = %d, want %d", tt.in, tt.fallback, got, tt.want)
		}
	}
}

func TestToOptionalInt(t *testing.T) {
	if got := ToOptionalInt(""); got != nil {
		t.Errorf("empty input: got %d, want nil", *got)
	}
	if got := ToOptionalInt("x"); got != nil {
		t.Errorf("malformed input: got %d, want nil", *got)
	}
	got := ToOptionalInt("5")
	if got == nil || *got != 5 {
		t.Errorf("ToOptionalInt(\"5\") = %v, want 5", got)
	}
}

func TestFormatRef(t *testing.T) {
	if got := FormatRef(nil); got != "" {
		t.Errorf("nil: got %q", got)
	}
	if got := FormatRef(intPtr(0)); got != "" {
		t.Errorf("zero: got %q", got)
	}
	if got := FormatRef(intPtr(12)); got != "12" {
		t.Errorf("12: got %q", got)
	}
}

func TestSerializeTags(t *testing.T) {
	if diff := cmp.Diff([]string{"лес", "север"}, SerializeTags(" лес, ,север ,")); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
	got := SerializeTags("")
	if got == nil || len(got) != 0 {
		t.Errorf("empty input should give an empty non-nil slice, got %#v", got)
	}
	if FormatTags([]string{"a", "b"}) != "a, b" {
		t.Errorf("FormatTags mismatch")
	}
}

func TestSortByTitle(t *testing.T) {
	in := []Race{{ID: 1, Title: "Эльф"}, {ID: 2, Title: "гном"}, {ID: 3, Title: "Человек"}, {ID: 4, Title: "Ёж"}}
	got := SortByTitle(in)

	var titles []string
	for _, r := range got {
		titles = append(titles, r.Title)
	}
	want := []string{"гном", "Ёж", "Человек", "Эльф"}
	if diff := cmp.Diff(want, titles); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if in[0].Title != "Эльф" {
		t.Error("SortByTitle must not reorder its input")
	}
}

func TestSetSortLocale(t *testing.T) {
	if SetSortLocale("not a locale!") {
		t.Error("expected invalid tag to be rejected")
	}
	if !SetSortLocale(DefaultSortLocale) {
		t.Error("expected default locale to be accepted")
	}
}

func TestEndpoint(t *testing.T) {
	if got := Endpoint(ScopeTemplates, 5, "locations/"); got != "/api/adventures/templates/5/locations/" {
		t.Errorf("Endpoint = %q", got)
	}
	if got := Base(ScopeRuns, 9); got != "/api/adventures/runs/9/" {
		t.Errorf("Base = %q", got)
	}
	if got := Collection("moderation/queue/"); got != "/api/adventures/moderation/queue/" {
		t.Errorf("Collection = %q", got)
	}
	if _, err := ParseScope("drafts"); err == nil {
		t.Error("expected unknown scope to fail")
	}
	if s, err := ParseScope("runs"); err != nil || s != ScopeRuns {
		t.Errorf("ParseScope(runs) = %q, %v", s, err)
	}
}

// --- Round trips: payload(toDraft(e)) keeps every editable field ---

func TestLocationRoundTrip(t *testing.T) {
	e := Location{ID: 1, Title: "Порт", Description: "d", X: -2, Y: 3, Width: 4, Height: 5, Tags: []string{"море"}}
	want := LocationPayload{Title: "Порт", Description: "d", X: -2, Y: 3, Width: 4, Height: 5, Tags: []string{"море"}}
	if diff := cmp.Diff(want, LocationToPayload(LocationToDraft(e))); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}

func TestInitialLocationDraft(t *testing.T) {
	got := LocationToPayload(InitialLocationDraft)
	want := LocationPayload{X: 0, Y: 0, Width: 1, Height: 1, Tags: []string{}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("initial payload (-want +got):\n%s", diff)
	}
}

func TestRaceRoundTrip(t *testing.T) {
	e := Race{ID: 2, Title: "Эльфы", LifeSpan: 700, Tags: []string{}}
	want := RacePayload{Title: "Эльфы", LifeSpan: 700, Tags: []string{}}
	if diff := cmp.Diff(want, RaceToPayload(RaceToDraft(e))); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
	if got := RaceToPayload(RaceDraft{}).LifeSpan; got != 100 {
		t.Errorf("empty life span should fall back to 100, got %d", got)
	}
}

func TestSystemRoundTrip(t *testing.T) {
	e := System{ID: 3, Title: "Магия", WBody: 10, WMind: 70, WWill: 20, FormulaHint: "f", Tags: []string{"a", "b"}}
	want := SystemPayload{Title: "Магия", WBody: 10, WMind: 70, WWill: 20, FormulaHint: "f", Tags: []string{"a", "b"}}
	if diff := cmp.Diff(want, SystemToPayload(SystemToDraft(e))); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}

func TestTechniqueRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		tier *int
	}{
		{"ranked", intPtr(3)},
		{"rankless", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Technique{ID: 4, System: intPtr(3), Title: "Огненный шар", Difficulty: 2, Tier: tt.tier, RequiredSystemLevel: 5, Tags: []string{}}
			want := TechniquePayload{System: intPtr(3), Title: "Огненный шар", Difficulty: 2, Tier: tt.tier, RequiredSystemLevel: 5, Tags: []string{}}
			if diff := cmp.Diff(want, TechniqueToPayload(TechniqueToDraft(e))); diff != "" {
				t.Errorf("round trip (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTechniqueEmptyTierBecomesZero(t *testing.T) {
	got := TechniqueToPayload(TechniqueDraft{Tier: ""})
	if got.Tier == nil || *got.Tier != 0 {
		t.Errorf("tier = %v, want 0", got.Tier)
	}
}

func TestEventRoundTrip(t *testing.T) {
	e := Event{ID: 5, Title: "Буря", Status: EventActive, Location: intPtr(1), TriggerHint: "ночью", State: "s"}
	want := EventPayload{Title: "Буря", Status: EventActive, Location: intPtr(1), TriggerHint: "ночью", State: "s"}
	if diff := cmp.Diff(want, EventToPayload(EventToDraft(e))); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}

func TestFactionAndOtherInfoRoundTrip(t *testing.T) {
	f := Faction{ID: 6, Title: "Гильдия", Description: "d", Tags: []string{"x"}}
	if diff := cmp.Diff(FactionPayload{Title: "Гильдия", Description: "d", Tags: []string{"x"}}, FactionToPayload(FactionToDraft(f))); diff != "" {
		t.Errorf("faction (-want +got):\n%s", diff)
	}
	o := OtherInfo{ID: 7, Category: "Мир", Title: "Календарь", Tags: []string{}}
	if diff := cmp.Diff(OtherInfoPayload{Category: "Мир", Title: "Календарь", Tags: []string{}}, OtherInfoToPayload(OtherInfoToDraft(o))); diff != "" {
		t.Errorf("other info (-want +got):\n%s", diff)
	}
}

func TestCharacterRoundTrip(t *testing.T) {
	e := Character{
		ID: 8, Title: "Арин", IsPlayer: true, InParty: true, Age: intPtr(19),
		BodyPower: 1, BodyPowerProgress: 2, MindPower: 3, MindPowerProgress: 4,
		WillPower: 5, WillPowerProgress: 6, Race: intPtr(2), Tags: []string{},
	}
	want := CharacterPayload{
		Title: "Арин", IsPlayer: true, InParty: true, Age: intPtr(19),
		BodyPower: 1, BodyPowerProgress: 2, MindPower: 3, MindPowerProgress: 4,
		WillPower: 5, WillPowerProgress: 6, Race: intPtr(2), Tags: []string{},
	}
	if diff := cmp.Diff(want, CharacterToPayload(CharacterToDraft(e))); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}

func TestCharacterSystemRoundTrip(t *testing.T) {
	e := CharacterSystem{ID: 9, Character: 8, System: 3, Level: 2, ProgressPercent: 40, Notes: "n"}
	want := CharacterSystemPayload{Character: intPtr(8), System: intPtr(3), Level: 2, ProgressPercent: 40, Notes: "n"}
	if diff := cmp.Diff(want, CharacterSystemToPayload(CharacterSystemToDraft(e))); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}

func TestCharacterTechniqueDraftRecoversSystem(t *testing.T) {
	techniques := []Technique{{ID: 4, System: intPtr(3)}}
	e := CharacterTechnique{ID: 10, Character: 8, Technique: 4, Notes: "n"}

	d := CharacterTechniqueToDraft(techniques)(e)
	if d.System != "3" {
		t.Errorf("system = %q, want 3", d.System)
	}
	want := CharacterTechniquePayload{Character: intPtr(8), Technique: intPtr(4), Notes: "n"}
	if diff := cmp.Diff(want, CharacterTechniqueToPayload(d)); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}

func TestGeneralRoundTrip(t *testing.T) {
	a := Adventure{ID: 1, Title: "Сага", Description: "d", SpecInstructions: "s", Intro: "i", PrimaryHero: intPtr(8)}
	want := GeneralPayload{Title: "Сага", Description: "d", SpecInstructions: "s", Intro: "i", PrimaryHero: intPtr(8)}
	if diff := cmp.Diff(want, GeneralToPayload(GeneralToDraft(a))); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
	if GeneralToPayload(GeneralDraft{}).PrimaryHero != nil {
		t.Error("empty hero should be sent as null")
	}
}

func TestHeroSetupRoundTrip(t *testing.T) {
	h := HeroSetup{
		DefaultLocation: intPtr(1), RequireRace: false, DefaultRace: intPtr(2),
		RequireAge: true, RequireBodyPower: true, DefaultMindPower: intPtr(4),
		RequireWillPower: true,
	}
	if diff := cmp.Diff(h, HeroSetupToPayload(HeroSetupToDraft(h))); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}
