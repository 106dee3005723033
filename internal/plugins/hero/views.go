package hero

import (
	"context"

	"github.com/a-h/templ"

	"github.com/keyxmakerx/saga/internal/templates"
)

func wizardPage(v PageView) templ.Component {
	return templates.Page("Создание героя · "+v.Title, templates.Component(func(ctx context.Context, h *templates.HTML) {
		h.Raw(`<section class="hero-wizard"><h1>`)
		h.Text(v.Title)
		h.Raw("</h1><p>Создайте героя, чтобы начать приключение.</p>")
		h.Error(v.Error)

		h.Raw(`<form method="post"`)
		h.URL("action", v.Action)
		h.Raw(">")
		h.CSRF(ctx)

		if v.NeedsLocation {
			h.Raw("<label>Стартовая локация")
			selectOptions(h, "location_id", "Выберите локацию", v.Locations)
			h.Raw("</label>")
		} else {
			h.Raw(`<input type="hidden" name="location_id"`)
			h.Attr("value", v.Form.LocationID)
			h.Raw(">")
		}

		h.Raw(`<label>Имя героя <input type="text" name="title"`)
		h.Attr("value", v.Form.Title)
		h.Raw("></label>")

		if v.Setup.RequireRace {
			h.Raw("<label>Раса")
			selectOptions(h, "race", "Выберите расу", v.Races)
			h.Raw("</label>")
		}
		if v.Setup.RequireAge {
			numberInput(h, "Возраст", "age", "", v.Form.Age)
		}
		if v.Setup.RequireBodyPower {
			numberInput(h, "Сила тела", "body_power", "100", v.Form.BodyPower)
		}
		if v.Setup.RequireMindPower {
			numberInput(h, "Сила разума", "mind_power", "100", v.Form.MindPower)
		}
		if v.Setup.RequireWillPower {
			numberInput(h, "Сила воли", "will_power", "100", v.Form.WillPower)
		}

		if v.Setup.RequireSystems {
			h.Raw("<fieldset><legend>Системы</legend>")
			for _, row := range v.Systems {
				h.Raw(`<div class="row">`)
				selectOptions(h, "system_system", "Система", row.Systems)
				h.Raw(`<input type="number" name="system_level" min="1" placeholder="Уровень"`)
				h.Attr("value", row.Level)
				h.Raw(`><input type="number" name="system_progress" min="0" max="100" placeholder="Прогресс, %"`)
				h.Attr("value", row.ProgressPercent)
				h.Raw(`><input type="text" name="system_notes" placeholder="Заметки"`)
				h.Attr("value", row.Notes)
				h.Raw("></div>")
			}
			h.Raw(`<button type="submit" name="action" value="add-system">Добавить систему</button></fieldset>`)
		}

		if v.Setup.RequireTechniques {
			h.Raw("<fieldset><legend>Приемы</legend>")
			for _, row := range v.Techniques {
				h.Raw(`<div class="row">`)
				selectOptions(h, "technique_system", "Система", row.Systems)
				selectOptions(h, "technique_technique", "Прием", row.Techniques)
				h.Raw(`<input type="text" name="technique_notes" placeholder="Заметки"`)
				h.Attr("value", row.Notes)
				h.Raw("></div>")
			}
			h.Raw(`<button type="submit" name="action" value="add-technique">Добавить прием</button>`)
			h.Raw(`<button type="submit" name="action" value="refresh">Обновить списки</button></fieldset>`)
		}

		h.Raw(`<button type="submit" name="action" value="create">Создать героя</button></form></section>`)
	}))
}

func selectOptions(h *templates.HTML, name, placeholder string, options []Option) {
	h.Raw("<select")
	h.Attr("name", name)
	h.Raw(`><option value="">`)
	h.Text(placeholder)
	h.Raw("</option>")
	for _, o := range options {
		h.Raw("<option")
		h.Attr("value", o.Value)
		h.Flag("selected", o.Selected)
		h.Raw(">")
		h.Text(o.Label)
		h.Raw("</option>")
	}
	h.Raw("</select>")
}

func numberInput(h *templates.HTML, label, name, limit, value string) {
	h.Raw("<label>")
	h.Text(label)
	h.Raw(` <input type="number"`)
	h.Attr("name", name)
	h.Raw(` min="0"`)
	h.AttrIf("max", limit)
	h.Attr("value", value)
	h.Raw("></label>")
}
