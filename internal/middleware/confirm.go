package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/saga/internal/collection"
)

// confirmField is the form field posted by a confirmation page.
const confirmField = "confirm"

// FormConfirmer approves a deletion when the request carries confirm=yes,
// which only the confirmation page's submit button sends.
func FormConfirmer(c echo.Context) collection.Confirmer {
	return collection.ConfirmFunc(func(context.Context, string) bool {
		return c.FormValue(confirmField) == "yes"
	})
}
