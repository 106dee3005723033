package auth

import (
	"context"

	"github.com/a-h/templ"

	"github.com/keyxmakerx/saga/internal/templates"
)

func loginPage(v LoginView) templ.Component {
	return templates.Page("Вход", templates.Component(func(ctx context.Context, h *templates.HTML) {
		h.Raw(`<section class="auth"><h1>Вход</h1>`)
		h.Error(v.Error)
		h.Raw(`<form method="post" action="/login">`)
		h.CSRF(ctx)
		h.Raw(`<label>Логин <input type="text" name="username"`)
		h.Attr("value", v.Username)
		h.Raw(` autocomplete="username" required></label>`)
		h.Raw(`<label>Пароль <input type="password" name="password" autocomplete="current-password" required></label>`)
		h.Raw(`<button type="submit">Войти</button></form>`)
		h.Raw(`<p>Нет аккаунта? <a href="/register">Зарегистрироваться</a></p></section>`)
	}))
}

func registerPage(v RegisterView) templ.Component {
	return templates.Page("Регистрация", templates.Component(func(ctx context.Context, h *templates.HTML) {
		h.Raw(`<section class="auth"><h1>Регистрация</h1>`)
		h.Error(v.Error)
		h.Raw(`<form method="post" action="/register">`)
		h.CSRF(ctx)
		h.Raw(`<label>Логин <input type="text" name="username"`)
		h.Attr("value", v.Username)
		h.Raw(` autocomplete="username" required></label>`)
		h.Raw(`<label>Email <input type="email" name="email"`)
		h.Attr("value", v.Email)
		h.Raw(` autocomplete="email" required></label>`)
		h.Raw(`<label>Пароль <input type="password" name="password" autocomplete="new-password" required></label>`)
		h.Raw(`<label>Повторите пароль <input type="password" name="password2" autocomplete="new-password" required></label>`)
		h.Raw(`<button type="submit">Зарегистрироваться</button></form>`)
		h.Raw(`<p>Уже есть аккаунт? <a href="/login">Войти</a></p></section>`)
	}))
}
