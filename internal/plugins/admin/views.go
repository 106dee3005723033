package admin

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/keyxmakerx/saga/internal/templates"
)

func adminPage(v PageView) templ.Component {
	maxLevel := strconv.Itoa(v.MaxLevel)
	return templates.Page("Администраторы", templates.Component(func(ctx context.Context, h *templates.HTML) {
		h.Raw(`<section class="admin"><h1>Администраторы</h1><p>Ваш уровень: `)
		h.Int(v.Level)
		h.Raw("</p>")
		if v.Notice != "" {
			h.Raw(`<p class="notice">`)
			h.Text(v.Notice)
			h.Raw("</p>")
		}
		h.Error(v.Error)

		if v.CanCreate {
			h.Raw(`<form class="add-admin" method="post" action="/admin">`)
			h.CSRF(ctx)
			h.Error(v.FormError)
			h.Raw(`<label>Имя пользователя <input type="text" name="username"`)
			h.Attr("value", v.Draft.Username)
			h.Raw(`></label><label>Уровень <input type="number" name="level" min="1"`)
			h.Attr("max", maxLevel)
			h.Attr("value", v.Draft.Level)
			h.Raw(`></label><button type="submit">Добавить</button></form>`)
		} else {
			h.Raw(`<p class="hint">`)
			h.Text(v.Restricted)
			h.Raw("</p>")
		}

		switch {
		case len(v.Rows) > 0:
			h.Raw(`<table><thead><tr><th>Пользователь</th><th>Email</th><th>Уровень</th><th>Действия</th></tr></thead><tbody>`)
			for _, r := range v.Rows {
				adminRow(ctx, h, r, maxLevel)
			}
			h.Raw("</tbody></table>")
		case v.Error == "":
			h.Empty("Администраторы не найдены.")
		}
		h.Raw("</section>")
	}))
}

func adminRow(ctx context.Context, h *templates.HTML, r Row, maxLevel string) {
	id := strconv.Itoa(r.ID)
	h.Raw("<tr><td>")
	h.Text(r.User.Username)
	h.Raw("</td><td>")
	h.Text(r.User.Email)
	h.Raw("</td><td>")
	if r.CanEdit {
		h.Raw(`<form method="post"`)
		h.URL("action", "/admin/"+id+"/level")
		h.Raw(">")
		h.CSRF(ctx)
		h.Raw(`<input type="number" name="level" min="1"`)
		h.Attr("max", maxLevel)
		h.Attr("value", strconv.Itoa(r.Level))
		h.Raw(`><button type="submit">Сохранить</button></form>`)
	} else {
		h.Int(r.Level)
	}
	h.Error(r.Error)
	h.Raw("</td><td>")
	if r.CanRemove {
		h.Raw(`<a class="danger"`)
		h.URL("href", "/admin/"+id+"/delete")
		h.Attr("title", r.RemoveHint)
		h.Raw(">Удалить</a>")
	} else {
		h.Raw(`<span class="muted"`)
		h.Attr("title", r.RemoveHint)
		h.Raw(">Удалить</span>")
	}
	h.Raw("</td></tr>")
}
