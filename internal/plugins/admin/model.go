package admin

import (
	"strconv"
	"time"
)

const (
	slotAdmins = "admin/administrators"

	msgLoadFailed      = "Не удалось загрузить список администраторов."
	msgCreateRestrict  = "Добавление администраторов доступно только с уровня 2."
	msgNoRights        = "Недостаточно прав для добавления администраторов."
	msgUsernameMissing = "Введите имя пользователя."
	msgCreateFailed    = "Не удалось добавить администратора."
	msgCreated         = "Администратор добавлен."
	msgRemoveFailed    = "Не удалось удалить администратора."
	msgLevelFailed     = "Не удалось изменить уровень."
	msgEmpty           = "Администраторы не найдены."
	msgRemoveDenied    = "Можно удалить только администратора с уровнем ниже вашего"
	promptRemove       = "Удалить администратора?"
)

func msgLevelRange(max int) string {
	return "Уровень должен быть от 1 до " + strconv.Itoa(max) + "."
}

// AdminUser is the account behind an administrator entry.
type AdminUser struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Administrator grants a user an admin level.
type Administrator struct {
	ID        int        `json:"id"`
	User      AdminUser  `json:"user"`
	Level     int        `json:"level"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

func (a Administrator) EntityID() int { return a.ID }

// AdminDraft is the "add administrator" form.
type AdminDraft struct {
	Username string `form:"username"`
	Level    string `form:"level"`
}

type adminPayload struct {
	Username string `json:"username"`
	Level    int    `json:"level"`
}

type levelPayload struct {
	Level int `json:"level"`
}

func toPayload(d AdminDraft) adminPayload {
	n, _ := strconv.Atoi(d.Level)
	return adminPayload{Username: d.Username, Level: n}
}

func toDraft(a Administrator) AdminDraft {
	return AdminDraft{Username: a.User.Username, Level: strconv.Itoa(a.Level)}
}

// Row is one administrator with what the current user may do to it.
type Row struct {
	Administrator
	CanEdit    bool
	CanRemove  bool
	RemoveHint string
	Error      string
}

// PageView is the administration page.
type PageView struct {
	Level     int
	MaxLevel  int
	CanCreate bool

	// Restricted explains why the add form is missing.
	Restricted string

	Rows      []Row
	Draft     AdminDraft
	FormError string
	Notice    string
	Error     string
}

// NewPageView applies the level rules: a user manages only administrators
// below their own level and grants levels up to their own minus one.
func NewPageView(level int, admins []Administrator) PageView {
	v := PageView{
		Level:     level,
		MaxLevel:  level - 1,
		CanCreate: level >= 2,
	}
	if !v.CanCreate {
		v.Restricted = msgCreateRestrict
	}
	for _, a := range admins {
		row := Row{
			Administrator: a,
			CanEdit:       level >= 2 && level > a.Level,
			CanRemove:     level > a.Level,
			RemoveHint:    "Удалить администратора",
		}
		if !row.CanRemove {
			row.RemoveHint = msgRemoveDenied
		}
		v.Rows = append(v.Rows, row)
	}
	return v
}
