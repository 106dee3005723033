package templates

import (
	"context"
	"encoding/json"
	"io"

	"github.com/a-h/templ"

	"github.com/keyxmakerx/saga/internal/templates/layouts"
)

// Page renders body inside the layout.
func Page(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return Layout(title).Render(templ.WithChildren(ctx, body), w)
	})
}

// Layout is the page shell. The page content is passed as children; the
// signed-in user and the CSRF token are read from the context.
func Layout(title string) templ.Component {
	return Component(func(ctx context.Context, h *HTML) {
		d := layouts.FromContext(ctx)
		body := templ.GetChildren(ctx)
		ctx = templ.ClearChildren(ctx)

		h.Raw("<!DOCTYPE html>\n<html lang=\"ru\"><head>")
		h.Raw(`<meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.Raw(`<meta name="csrf-token"`)
		h.Attr("content", d.CSRFToken)
		h.Raw("><title>")
		h.Text(title)
		h.Raw(" · Saga</title>")
		h.Raw(`<link rel="stylesheet" href="/static/css/app.css">`)
		h.Raw(`<script src="/static/vendor/htmx.min.js" defer></script></head>`)

		headers, _ := json.Marshal(map[string]string{"X-CSRF-Token": d.CSRFToken})
		h.Raw("<body")
		h.Attr("hx-headers", string(headers))
		h.Raw(`><header class="topbar"><a class="brand" href="/">Saga</a>`)
		if d.IsAuthenticated {
			h.Raw("<nav>")
			navLink(h, d, "/adventures", "Приключения")
			if d.IsModerator() {
				navLink(h, d, "/moderation", "Модерация")
				navLink(h, d, "/admin", "Администраторы")
			}
			h.Raw(`</nav><form class="logout" method="post" action="/logout">`)
			h.CSRF(ctx)
			h.Raw("<span>")
			h.Text(d.UserName)
			h.Raw(`</span><button type="submit">Выйти</button></form>`)
		} else {
			h.Raw(`<nav><a href="/login">Вход</a><a href="/register">Регистрация</a></nav>`)
		}
		h.Raw("</header><main>")
		if d.Flash != "" {
			h.Raw(`<div class="flash">`)
			h.Text(d.Flash)
			h.Raw("</div>")
		}
		h.Render(ctx, body)
		h.Raw("</main></body></html>")
	})
}

func navLink(h *HTML, d layouts.Data, path, label string) {
	class := ""
	if d.IsActive(path) {
		class = "active"
	}
	h.Link(path, label, class)
}
