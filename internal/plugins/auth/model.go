// Package auth signs users in against the adventure backend. Credentials
// are exchanged for a JWT pair that is kept server-side in a Redis session;
// the browser only holds the opaque session id cookie.
//
// This is a CORE plugin: every other page sits behind RequireAuth.
package auth

// --- Request DTOs (bound from HTTP requests) ---

// LoginRequest holds the data submitted by the login form.
type LoginRequest struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// RegisterRequest holds the data submitted by the registration form.
type RegisterRequest struct {
	Username  string `form:"username"`
	Email     string `form:"email"`
	Password  string `form:"password"`
	Password2 string `form:"password2"`
}

// --- View models ---

// LoginView is rendered by the login page.
type LoginView struct {
	Username string
	Error    string
}

// RegisterView is rendered by the registration page. Passwords are never
// echoed back.
type RegisterView struct {
	Username string
	Email    string
	Error    string
}

// User-facing messages.
const (
	msgBadCredentials  = "Неправильный логин или пароль."
	msgRegisterFailed  = "Ошибка регистрации."
	msgPasswordsDiffer = "Пароли не совпадают."
	msgPasswordLength  = "Пароль должен содержать от 8 до 24 символов."
	msgEmailInvalid    = "Введите корректный адрес электронной почты."
	msgUsernameMissing = "Введите логин."
)

// Password length bounds enforced by the backend.
const (
	minPasswordLen = 8
	maxPasswordLen = 24
)
