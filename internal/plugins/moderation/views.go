package moderation

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/keyxmakerx/saga/internal/templates"
)

const tableHead = `<table><thead><tr><th>Приключение</th><th>Автор</th><th>`

func moderationPage(v PageView) templ.Component {
	return templates.Page("Модерация", templates.Component(func(ctx context.Context, h *templates.HTML) {
		h.Raw(`<section class="moderation"><h1>Модерация</h1>`)
		h.Error(v.Error)

		h.Raw("<h2>Очередь</h2>")
		h.Error(v.QueueError)
		switch {
		case len(v.Queue) > 0:
			h.Raw(tableHead + `Отправлено</th><th>Действия</th></tr></thead><tbody>`)
			for _, q := range v.Queue {
				id := strconv.Itoa(q.AdventureID)
				row(h, q.Title, q.AuthorUsername, templates.FormatTime(q.SubmittedAt))
				h.Raw(`<td class="actions">`)
				h.Link("/adventures/"+id+"/edit", "Открыть", "")
				h.PostButton(ctx, "/moderation/"+id+"/publish", "Опубликовать", "")
				h.PostButton(ctx, "/moderation/"+id+"/reject", "Отклонить", "danger")
				h.Raw("</td></tr>")
			}
			h.Raw("</tbody></table>")
		case v.QueueError == "":
			h.Empty("Очередь модерации пуста.")
		}

		h.Raw("<h2>Опубликованные</h2>")
		h.Error(v.PublishedError)
		switch {
		case len(v.Published) > 0:
			h.Raw(tableHead + `Опубликовано</th><th>Действия</th></tr></thead><tbody>`)
			for _, p := range v.Published {
				row(h, p.Title, p.AuthorUsername, templates.FormatTime(p.PublishedAt))
				h.Raw(`<td class="actions">`)
				h.Link("/adventures/"+strconv.Itoa(p.AdventureID)+"/edit", "Открыть", "")
				h.Raw("</td></tr>")
			}
			h.Raw("</tbody></table>")
		case v.PublishedError == "":
			h.Empty("Опубликованных приключений пока нет.")
		}
		h.Raw("</section>")
	}))
}

// row opens a table row with its text cells.
func row(h *templates.HTML, cells ...string) {
	h.Raw("<tr>")
	for _, c := range cells {
		h.Raw("<td>")
		h.Text(c)
		h.Raw("</td>")
	}
}
