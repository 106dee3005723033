package hero

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyxmakerx/saga/internal/adventures"
	"github.com/keyxmakerx/saga/internal/herosetup"
)

func TestWizardPage(t *testing.T) {
	v := PageView{
		RunID:         2,
		Title:         "Забег",
		Action:        "/adventures/2/hero",
		Setup:         adventures.HeroSetup{RequireRace: true, RequireSystems: true},
		NeedsLocation: true,
		Locations:     []Option{{Value: "5", Label: "Шир", Selected: true}},
		Races:         []Option{{Value: "1", Label: "Хоббит"}},
		Systems:       []SystemRowView{{SystemRow: herosetup.SystemRow{Level: "2"}}},
	}

	var buf bytes.Buffer
	require.NoError(t, wizardPage(v).Render(context.Background(), &buf))

	html := buf.String()
	assert.Contains(t, html, "<title>Создание героя · Забег · Saga</title>")
	assert.Contains(t, html, `<option value="5" selected>Шир</option>`)
	assert.Contains(t, html, `name="system_level" min="1" placeholder="Уровень" value="2"`)
	assert.Contains(t, html, `value="add-system"`)
	assert.NotContains(t, html, `name="body_power"`)
	assert.NotContains(t, html, `value="add-technique"`)
}

func TestWizardPage_PresetLocationIsHidden(t *testing.T) {
	v := PageView{
		Title:  "Забег",
		Action: "/adventures/2/hero",
		Setup:  adventures.HeroSetup{RequireBodyPower: true},
		Form:   herosetup.Form{LocationID: "5", BodyPower: "7"},
	}

	var buf bytes.Buffer
	require.NoError(t, wizardPage(v).Render(context.Background(), &buf))

	html := buf.String()
	assert.Contains(t, html, `<input type="hidden" name="location_id" value="5">`)
	assert.Contains(t, html, `name="body_power" min="0" max="100" value="7"`)
}
