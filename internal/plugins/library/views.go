package library

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/keyxmakerx/saga/internal/adventures"
	"github.com/keyxmakerx/saga/internal/templates"
)

func adventureURL(id int, suffix string) string {
	return "/adventures/" + strconv.Itoa(id) + suffix
}

func libraryPage(v PageView) templ.Component {
	return templates.Page("Приключения", templates.Component(func(ctx context.Context, h *templates.HTML) {
		h.Raw(`<section class="library"><h1>Мои приключения</h1>`)
		h.Error(v.Error)

		h.Raw(`<details class="create"`)
		h.Flag("open", v.ShowCreate)
		h.Raw(`><summary>Создать приключение</summary>`)
		h.Error(v.CreateError)
		h.Raw(`<form method="post" action="/adventures">`)
		h.CSRF(ctx)
		h.Raw(`<label>Название <input type="text" name="title"`)
		h.Attr("value", v.Create.Title)
		h.Raw(`></label><label>Описание <textarea name="description" rows="3">`)
		h.Text(v.Create.Description)
		h.Raw(`</textarea></label><button type="submit">Создать</button></form></details>`)

		h.Raw(`<form class="import" method="post" action="/adventures/import" enctype="multipart/form-data">`)
		h.CSRF(ctx)
		h.Raw(`<label>Импорт из JSON <input type="file" name="file" accept="application/json,.json"></label>`)
		h.Raw(`<button type="submit">Импортировать</button></form>`)

		templateCards(ctx, h, v.Templates)

		h.Raw("<h2>Начатые приключения</h2>")
		runCards(h, v.Runs)

		h.Raw("<h2>Опубликованные</h2>")
		publishedCards(ctx, h, v.Published)
		h.Raw("</section>")
	}))
}

func cardHeader(h *templates.HTML, title, description string) {
	h.Raw(`<li class="card"><h3>`)
	h.Text(title)
	h.Raw("</h3>")
	if description != "" {
		h.Raw("<p>")
		h.Text(description)
		h.Raw("</p>")
	}
}

func templateCards(ctx context.Context, h *templates.HTML, list []adventures.Adventure) {
	if len(list) == 0 {
		h.Empty("У вас пока нет приключений.")
		return
	}
	h.Raw(`<ul class="cards">`)
	for _, a := range list {
		cardHeader(h, a.Title, a.Description)
		h.Raw(`<div class="actions">`)
		h.Link(adventureURL(a.ID, "/edit"), "Редактировать", "")
		h.PostButton(ctx, adventureURL(a.ID, "/start"), "Начать", "")
		h.Link(adventureURL(a.ID, "/export"), "Экспорт", "")
		h.Link(adventureURL(a.ID, "/delete"), "Удалить", "danger")
		h.Raw("</div></li>")
	}
	h.Raw("</ul>")
}

func runCards(h *templates.HTML, list []adventures.Adventure) {
	if len(list) == 0 {
		h.Empty("Нет начатых приключений.")
		return
	}
	h.Raw(`<ul class="cards">`)
	for _, a := range list {
		// A run without a hero goes through the creation wizard first.
		next := "/hero"
		if a.HasHero() {
			next = "/play"
		}
		cardHeader(h, a.Title, "")
		h.Raw(`<div class="actions">`)
		h.Link(adventureURL(a.ID, next), "Продолжить", "")
		h.Link("/adventures/runs/"+strconv.Itoa(a.ID)+"/edit", "Редактировать", "")
		h.Link("/adventures/runs/"+strconv.Itoa(a.ID)+"/delete", "Удалить", "danger")
		h.Raw("</div></li>")
	}
	h.Raw("</ul>")
}

func publishedCards(ctx context.Context, h *templates.HTML, list []PublishedCard) {
	if len(list) == 0 {
		h.Empty("Опубликованных приключений пока нет.")
		return
	}
	h.Raw(`<ul class="cards">`)
	for _, p := range list {
		cardHeader(h, p.Title, p.Description)
		h.Raw(`<p class="meta">`)
		h.Text(p.AuthorUsername + " · " + templates.FormatTime(p.PublishedAt))
		h.Raw(`</p><div class="actions">`)
		h.PostButton(ctx, adventureURL(p.AdventureID, "/start"), "Начать", "")
		if p.IsOwner {
			h.Link(adventureURL(p.AdventureID, "/edit"), "Редактировать", "")
		}
		h.Raw("</div></li>")
	}
	h.Raw("</ul>")
}
