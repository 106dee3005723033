package collection

import "context"

// DeletePrompt is the question shown before an entity is deleted.
const DeletePrompt = "Удалить запись?"

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

// Always approves every prompt.
var Always Confirmer = ConfirmFunc(func(context.Context, string) bool { return true })

// Never declines every prompt.
var Never Confirmer = ConfirmFunc(func(context.Context, string) bool { return false })
