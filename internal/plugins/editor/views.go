package editor

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/keyxmakerx/saga/internal/templates"
)

func editorPage(v PageView) templ.Component {
	return templates.Page(v.Title, templates.Component(func(ctx context.Context, h *templates.HTML) {
		h.Raw(`<section class="editor">`)
		h.Link(v.BackURL, "← К приключениям", "")
		h.Raw("<h1>")
		h.Text(v.Title)
		if !v.IsTemplate {
			h.Raw(" <small>(начатое)</small>")
		}
		h.Raw(`</h1><nav class="tabs">`)
		for _, tl := range v.Tabs {
			class := ""
			if tl.Active {
				class = "active"
			}
			h.Link(tl.URL, tl.Label, class)
		}
		h.Raw("</nav>")

		if v.General != nil {
			generalTab(ctx, h, v.Base, *v.General)
		}
		if v.Entity != nil {
			entityTabView(ctx, h, *v.Entity, v.ActiveCharacter)
		}
		if v.CharacterSystems != nil {
			entityTabView(ctx, h, *v.CharacterSystems, 0)
		}
		if v.CharacterTechniques != nil {
			entityTabView(ctx, h, *v.CharacterTechniques, 0)
		}
		h.Raw("</section>")
	}))
}

func generalTab(ctx context.Context, h *templates.HTML, base string, g GeneralView) {
	h.Raw(`<section class="tab" id="tab-general">`)
	h.Error(g.Error)
	h.Raw(`<form method="post"`)
	h.URL("action", base+"/edit/general")
	h.Raw(">")
	h.CSRF(ctx)
	fields(h, g.Fields)
	h.Raw(`<button type="submit">Сохранить</button></form>`)

	if g.ShowHeroSetup {
		h.Raw("<h2>Создание героя</h2>")
		h.Error(g.HeroSetupError)
		if g.Summary != nil {
			h.Raw(`<dl class="summary"><dt>Игрок выбирает</dt><dd>`)
			h.Text(g.Summary.RequiredText())
			h.Raw("</dd><dt>Заданы заранее</dt><dd>")
			h.Text(g.Summary.PresetsText())
			h.Raw("</dd></dl>")
		}
		h.Raw(`<form method="post"`)
		h.URL("action", base+"/edit/hero-setup")
		h.Raw(">")
		h.CSRF(ctx)
		fields(h, g.HeroSetup)
		h.Raw(`<button type="submit">Сохранить настройки героя</button></form>`)
	}
	if g.ExportURL != "" {
		h.Raw("<p>")
		h.Link(g.ExportURL, "Экспорт в JSON", "")
		h.Raw("</p>")
	}
	h.Raw("</section>")
}

func entityTabView(ctx context.Context, h *templates.HTML, tab TabView, active int) {
	h.Raw(`<section class="tab"`)
	h.Attr("id", "tab-"+tab.Name)
	h.Raw(">")
	if tab.Heading != "" {
		h.Raw("<h2>")
		h.Text(tab.Heading)
		h.Raw("</h2>")
	}
	if tab.Disabled {
		h.Raw(`<p class="hint">`)
		h.Text(tab.Empty)
		h.Raw("</p></section>")
		return
	}
	h.Error(tab.Error)

	if len(tab.Cards) == 0 {
		h.Empty(tab.Empty)
	} else {
		h.Raw(`<ul class="cards">`)
		for _, c := range tab.Cards {
			card(ctx, h, tab, c, active)
		}
		h.Raw("</ul>")
	}

	h.Raw(`<form class="entity-form" method="post"`)
	h.URL("action", tab.Action+"/save"+tab.Query)
	h.Raw(">")
	h.CSRF(ctx)
	if tab.Editing {
		h.Raw(`<input type="hidden" name="editing_id"`)
		h.Attr("value", strconv.Itoa(tab.EditingID))
		h.Raw(">")
	}
	fields(h, tab.Fields)
	h.Raw(`<button type="submit"`)
	h.Flag("disabled", tab.Saving)
	h.Raw(">")
	if tab.Editing {
		h.Raw("Сохранить")
	} else {
		h.Raw("Добавить")
	}
	h.Raw("</button></form>")
	if tab.Editing {
		h.PostButton(ctx, tab.Action+"/cancel"+tab.Query, "Отмена", "")
	}
	h.Raw("</section>")
}

func card(ctx context.Context, h *templates.HTML, tab TabView, c Card, active int) {
	id := strconv.Itoa(c.ID)
	h.Raw(`<li class="card`)
	if c.ID == active {
		h.Raw(" active")
	}
	h.Raw(`"><h3>`)
	h.Text(c.Title)
	h.Raw("</h3>")
	if c.Description != "" {
		h.Raw("<p>")
		h.Text(c.Description)
		h.Raw("</p>")
	}
	for _, m := range c.Meta {
		if m == "" {
			continue
		}
		h.Raw(`<p class="meta">`)
		h.Text(m)
		h.Raw("</p>")
	}
	h.Raw(`<div class="actions">`)
	if tab.Name == TabCharacters {
		h.Link("?tab=characters&character="+id, "Выбрать", "")
	}
	h.PostButton(ctx, tab.Action+"/edit/"+id+tab.Query, "Изменить", "")
	h.Link(tab.Action+"/delete/"+id+tab.Query, "Удалить", "danger")
	h.Raw("</div></li>")
}

func fields(h *templates.HTML, list []FieldView) {
	for _, f := range list {
		field(h, f)
	}
}

// field renders one form control with its label.
func field(h *templates.HTML, f FieldView) {
	switch f.Kind {
	case KindHidden:
		h.Raw(`<input type="hidden"`)
		h.Attr("name", f.Name)
		h.Attr("value", f.Value)
		h.Raw(">")
		return
	case KindCheckbox:
		h.Raw(`<label class="check"><input type="checkbox"`)
		h.Attr("name", f.Name)
		h.Raw(` value="true"`)
		h.Flag("checked", f.Checked)
		h.Raw("> ")
		h.Text(f.Label)
		h.Raw("</label>")
		return
	}

	h.Raw("<label>")
	h.Text(f.Label)
	switch f.Kind {
	case KindTextarea:
		rows := f.Rows
		if rows == 0 {
			rows = 3
		}
		h.Raw("<textarea")
		h.Attr("name", f.Name)
		h.Attr("rows", strconv.Itoa(rows))
		h.Raw(">")
		h.Text(f.Value)
		h.Raw("</textarea>")
	case KindSelect:
		h.Raw("<select")
		h.Attr("name", f.Name)
		h.Raw(">")
		if f.Empty != "" {
			h.Raw(`<option value="">`)
			h.Text(f.Empty)
			h.Raw("</option>")
		}
		for _, o := range f.Options {
			h.Raw("<option")
			h.Attr("value", o.Value)
			h.Flag("selected", o.Value == f.Value)
			h.Raw(">")
			h.Text(o.Label)
			h.Raw("</option>")
		}
		h.Raw("</select>")
	case KindNumber:
		h.Raw(`<input type="number"`)
		h.Attr("name", f.Name)
		h.Attr("value", f.Value)
		h.AttrIf("min", f.Min)
		h.AttrIf("max", f.Max)
		h.Raw(">")
	default:
		h.Raw(`<input type="text"`)
		h.Attr("name", f.Name)
		h.Attr("value", f.Value)
		h.Raw(">")
	}
	h.Raw("</label>")
}
