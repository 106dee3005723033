package editor

import (
	"context"
	"errors"

	"github.com/keyxmakerx/saga/internal/apperror"
	"github.com/keyxmakerx/saga/internal/collection"
)

// Tab is one entity tab with its entity type erased, so the handler can
// dispatch on the tab name from the URL.
type Tab interface {
	Name() string
	Load(ctx context.Context) error
	View(errMsg string) TabView
	// Save binds the posted form into a fresh draft and submits it, returning
	// the id of the saved entity. editingID is the entity the form was shown
	// for, or 0 for a create form.
	Save(ctx context.Context, editingID int, bind func(any) error) (int, error)
	// BeginEdit loads the entity into the form; false if it is unknown.
	BeginEdit(ctx context.Context, id int) bool
	Cancel()
	Remove(ctx context.Context, id int, confirmer collection.Confirmer) error
}

// entityTab adapts a typed controller to Tab.
type entityTab[E collection.Identifiable, D any] struct {
	name    string
	heading string
	empty   string
	ctrl    *collection.Controller[E, D]
	card    func(E) Card
	fields  func(D) []Field

	// visible filters the listed entities; nil lists all of them.
	visible func(E) bool
	// prepare completes a bound draft; an error aborts the save.
	prepare func(*D) error
	// disabled blocks saving and greys out the form.
	disabled    bool
	disabledMsg string

	action string
	query  string
}

func (t *entityTab[E, D]) Name() string { return t.name }

func (t *entityTab[E, D]) Load(ctx context.Context) error { return t.ctrl.Load(ctx) }

func (t *entityTab[E, D]) items() []E {
	all := t.ctrl.Items()
	if t.visible == nil {
		return all
	}
	out := all[:0:0]
	for _, item := range all {
		if t.visible(item) {
			out = append(out, item)
		}
	}
	return out
}

func (t *entityTab[E, D]) View(errMsg string) TabView {
	if errMsg == "" {
		errMsg = failureMessage(t.ctrl.Err())
	}
	draft := t.ctrl.Draft()
	editingID, editing := t.ctrl.EditingID()

	v := TabView{
		Name:      t.name,
		Heading:   t.heading,
		Empty:     t.empty,
		Fields:    fill(t.fields(draft), draft),
		Editing:   editing,
		EditingID: editingID,
		Saving:    t.ctrl.Saving(),
		Disabled:  t.disabled,
		Error:     errMsg,
		Action:    t.action,
		Query:     t.query,
	}
	if t.disabled {
		v.Empty = t.disabledMsg
		return v
	}
	for _, item := range t.items() {
		v.Cards = append(v.Cards, t.card(item))
	}
	return v
}

// failureMessage is the banner for the controller's error flag.
func failureMessage(err error) string {
	var opErr *collection.OperationError
	if !errors.As(err, &opErr) {
		return ""
	}
	if opErr.Op == collection.OpRemove {
		return msgDeleteFailed
	}
	return msgSaveFailed
}

func (t *entityTab[E, D]) Save(ctx context.Context, editingID int, bind func(any) error) (int, error) {
	if t.disabled {
		return 0, apperror.NewValidation(t.disabledMsg)
	}
	var d D
	if err := bind(&d); err != nil {
		return 0, apperror.NewBadRequest("Некорректный запрос.").WithInternal(err)
	}
	if err := t.follow(ctx, editingID); err != nil {
		return 0, err
	}
	if t.prepare != nil {
		if err := t.prepare(&d); err != nil {
			t.ctrl.SetDraft(d)
			return 0, err
		}
	}
	t.ctrl.SetDraft(d)
	saved, err := t.ctrl.SubmitEntity(ctx)
	if err != nil {
		return 0, err
	}
	return saved.EntityID(), nil
}

// follow puts the controller back into the mode the form was rendered in.
// The session's controller may have been evicted or switched to another
// entity since then; an edit form must never turn into a create.
func (t *entityTab[E, D]) follow(ctx context.Context, editingID int) error {
	current, editing := t.ctrl.EditingID()
	switch {
	case editingID <= 0:
		if editing {
			t.ctrl.CancelEdit()
		}
		return nil
	case editing && current == editingID:
		return nil
	}
	if !t.BeginEdit(ctx, editingID) {
		return apperror.NewNotFound(msgEntryNotFound)
	}
	return nil
}

func (t *entityTab[E, D]) BeginEdit(ctx context.Context, id int) bool {
	entity, ok := t.ctrl.Find(id)
	if !ok {
		// The registry may have evicted the list since the page was shown.
		if err := t.ctrl.Load(ctx); err != nil {
			return false
		}
		if entity, ok = t.ctrl.Find(id); !ok {
			return false
		}
	}
	t.ctrl.BeginEdit(entity)
	return true
}

func (t *entityTab[E, D]) Cancel() { t.ctrl.CancelEdit() }

func (t *entityTab[E, D]) Remove(ctx context.Context, id int, confirmer collection.Confirmer) error {
	return t.ctrl.Remove(ctx, id, confirmer)
}
