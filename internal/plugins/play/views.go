package play

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/keyxmakerx/saga/internal/sanitize"
	"github.com/keyxmakerx/saga/internal/templates"
)

func playPage(v PageView) templ.Component {
	return templates.Page(v.Title, templates.Component(func(ctx context.Context, h *templates.HTML) {
		h.Raw(`<section class="play"><header><h1>`)
		h.Text(v.Title)
		h.Raw("</h1>")
		h.Link(v.Base+"/pdf", "Скачать PDF", "")
		h.Raw(`</header><aside class="party"><h2>Отряд</h2>`)
		if len(v.Party) == 0 {
			h.Empty("В отряде пока никого нет.")
		} else {
			h.Raw("<ul>")
			for _, c := range v.Party {
				h.Raw("<li><strong>")
				h.Text(c.Title)
				h.Raw("</strong>")
				if c.Description != "" {
					h.Text(" · " + c.Description)
				}
				h.Raw("</li>")
			}
			h.Raw("</ul>")
		}
		h.Raw(`</aside><ol class="history">`)
		for _, e := range v.History {
			history(ctx, h, v.Base, e)
		}
		if len(v.History) == 0 {
			h.Raw(`<li class="empty">История пока пуста.</li>`)
		}
		h.Raw("</ol>")
		h.Error(v.Error)

		h.Raw(`<form class="prompt" method="post"`)
		h.URL("action", v.Base+"/say")
		h.Raw(">")
		h.CSRF(ctx)
		h.Raw(`<textarea name="content" rows="3" placeholder="Что вы делаете?">`)
		h.Text(v.Prompt)
		h.Raw(`</textarea><label class="check"><input type="checkbox" name="as_hero" value="true"`)
		h.Flag("checked", v.AsHero)
		h.Raw(`> От лица героя</label><button type="submit">Отправить</button></form>`)
		h.PostButton(ctx, v.Base+"/next", "Продолжить историю", "")
		h.Raw("</section>")
	}))
}

func history(ctx context.Context, h *templates.HTML, base string, e EntryView) {
	id := strconv.Itoa(e.ID)
	h.Raw("<li")
	h.Attr("class", "entry entry-"+e.Role)
	h.Attr("id", "entry-"+id)
	h.Raw(`><div class="content">`)
	h.Raw(sanitize.Story(e.Content))
	h.Raw(`</div><div class="actions">`)
	if e.CanRollback {
		h.PostButton(ctx, base+"/rollback/"+id, "Откатить сюда", "")
	}
	if e.CanRegenerate {
		h.PostButton(ctx, base+"/regenerate", "Перегенерировать", "")
	}
	h.Raw("</div></li>")
}
