package templates

import (
	"context"
	"strconv"

	"github.com/a-h/templ"
)

// ConfirmView is a yes/no question guarding a destructive post. The form
// posts confirm=yes to Action; Cancel is a plain link back.
type ConfirmView struct {
	Prompt string
	Action string
	Cancel string
}

// ConfirmPage renders a confirmation page.
func ConfirmPage(v ConfirmView) templ.Component {
	return Page("Подтверждение", Component(func(ctx context.Context, h *HTML) {
		h.Raw(`<section class="confirm"><p>`)
		h.Text(v.Prompt)
		h.Raw(`</p><form method="post"`)
		h.URL("action", v.Action)
		h.Raw(">")
		h.CSRF(ctx)
		h.Raw(`<input type="hidden" name="confirm" value="yes">`)
		h.Raw(`<button type="submit" class="danger">Удалить</button>`)
		h.Link(v.Cancel, "Отмена", "")
		h.Raw("</form></section>")
	}))
}

// ErrorPage renders the error page used by the HTTP error handler.
func ErrorPage(code int, message string) templ.Component {
	return Page("Ошибка "+strconv.Itoa(code), ErrorContent(code, message))
}

// ErrorContent is the body of the error page without the layout.
func ErrorContent(code int, message string) templ.Component {
	return Component(func(_ context.Context, h *HTML) {
		h.Raw(`<section class="error-page"><h1>`)
		h.Int(code)
		h.Raw("</h1><p>")
		h.Text(message)
		h.Raw(`</p><a href="/">На главную</a></section>`)
	})
}
