package editor

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyxmakerx/saga/internal/herosetup"
	"github.com/keyxmakerx/saga/internal/templates/layouts"
)

func renderPage(t *testing.T, v PageView) string {
	t.Helper()
	var buf bytes.Buffer
	ctx := layouts.SetCSRFToken(context.Background(), "tok123")
	require.NoError(t, editorPage(v).Render(ctx, &buf))
	return buf.String()
}

func TestEditorPage_CharactersTab(t *testing.T) {
	html := renderPage(t, PageView{
		Title:      "Темный лес",
		IsTemplate: true,
		Base:       "/adventures/1",
		BackURL:    "/adventures",
		Tabs:       []TabLink{{Name: TabCharacters, Label: "Персонажи", URL: "/adventures/1/edit?tab=characters", Active: true}},
		Active:     TabCharacters,
		Entity: &TabView{
			Name:   TabCharacters,
			Cards:  []Card{{ID: 7, Title: "Гэндальф", Meta: []string{"", "Игрок"}}},
			Fields: []FieldView{{Field: Field{Name: "title", Label: "Имя", Kind: KindText}, Value: "Фродо"}},
			Action: "/adventures/1/edit/characters",
			Query:  "?character=7",
		},
		CharacterSystems: &TabView{
			Name:     TabCharacterSystems,
			Disabled: true,
			Empty:    msgPickCharacterSys,
		},
		ActiveCharacter: 7,
	})

	assert.Contains(t, html, `action="/adventures/1/edit/characters/save?character=7"`)
	assert.Contains(t, html, `action="/adventures/1/edit/characters/edit/7?character=7"`)
	assert.Contains(t, html, `href="/adventures/1/edit/characters/delete/7?character=7"`)
	assert.Contains(t, html, `href="?tab=characters&amp;character=7"`)
	assert.Contains(t, html, `value="Фродо"`)
	assert.Contains(t, html, msgPickCharacterSys)
	assert.Contains(t, html, `class="card active"`)
	assert.Contains(t, html, `<a href="/adventures/1/edit?tab=characters" class="active">`)
	assert.NotContains(t, html, `name="editing_id"`)
	assert.Contains(t, html, "Добавить")
}

func TestEditorPage_EditFormPostsEditedID(t *testing.T) {
	html := renderPage(t, PageView{
		Title: "Лес",
		Entity: &TabView{
			Name:      TabLocations,
			Cards:     []Card{{ID: 4, Title: "Опушка"}},
			Editing:   true,
			EditingID: 4,
			Action:    "/adventures/1/edit/locations",
		},
	})

	assert.Contains(t, html, `<input type="hidden" name="editing_id" value="4">`)
	assert.Contains(t, html, `action="/adventures/1/edit/locations/cancel"`)
	assert.Contains(t, html, "Сохранить")
	assert.Contains(t, html, "<small>(начатое)</small>")
}

func TestEditorPage_General(t *testing.T) {
	html := renderPage(t, PageView{
		Title:      "Лес",
		IsTemplate: true,
		Base:       "/adventures/1",
		General: &GeneralView{
			Fields: []FieldView{{
				Field: Field{Name: "primary_hero", Label: "Герой", Kind: KindSelect, Empty: "Нет",
					Options: []Option{{Value: "3", Label: "Арагорн"}}},
				Value: "3",
			}},
			ShowHeroSetup: true,
			HeroSetup:     []FieldView{{Field: Field{Name: "require_race", Label: "Раса", Kind: KindCheckbox}, Checked: true}},
			Summary:       &herosetup.Summary{Required: []string{"Раса"}},
			ExportURL:     "/adventures/1/export",
		},
	})

	assert.Contains(t, html, `action="/adventures/1/edit/general"`)
	assert.Contains(t, html, `action="/adventures/1/edit/hero-setup"`)
	assert.Contains(t, html, `<option value="3" selected>Арагорн</option>`)
	assert.Contains(t, html, `name="require_race" value="true" checked`)
	assert.Contains(t, html, `href="/adventures/1/export"`)
	assert.Contains(t, html, "<dd>Раса</dd>")
}

func TestField_Kinds(t *testing.T) {
	html := renderPage(t, PageView{Entity: &TabView{Name: TabSystems, Fields: []FieldView{
		{Field: Field{Name: "formula_hint", Label: "Формула", Kind: KindTextarea}, Value: "a < b"},
		{Field: Field{Name: "w_body", Label: "Вес", Kind: KindNumber, Min: "0"}, Value: "2"},
		{Field: Field{Name: "character", Kind: KindHidden}, Value: "5"},
	}}})

	assert.Contains(t, html, `<textarea name="formula_hint" rows="3">a &lt; b</textarea>`)
	assert.Contains(t, html, `<input type="number" name="w_body" value="2" min="0">`)
	assert.Contains(t, html, `<input type="hidden" name="character" value="5">`)
}
