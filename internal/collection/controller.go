// Package collection implements the remote collection controller: the
// state behind every entity editing tab. A Controller owns the list of
// entities fetched from one REST collection endpoint, a single edit-form
// draft, and the create/update/delete calls against that endpoint.
//
// The server is the source of truth. The local list changes only after the
// backend has confirmed an operation; nothing is applied optimistically.
package collection

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/keyxmakerx/saga/internal/backend"
)

// ErrOperationFailed is the single user-facing failure of a controller.
// Errors returned by Load, Submit and Remove wrap it together with the cause.
var ErrOperationFailed = errors.New("operation failed")

// ErrBusy is returned by Submit while another submit is in flight.
var ErrBusy = errors.New("submit already in progress")

// ErrDeclined is returned by Remove when the deletion was not confirmed.
var ErrDeclined = errors.New("deletion not confirmed")

// ErrSuperseded is returned by Submit and Remove when a Retarget replaced
// the target while the call was in flight. The outcome of the call is
// unknown; it matches ErrOperationFailed.
var ErrSuperseded = fmt.Errorf("%w: target changed during the call", ErrOperationFailed)

// Op names the operation behind the error flag.
type Op string

const (
	OpSubmit Op = "submit"
	OpRemove Op = "remove"
)

// OperationError is the error flag left by a failed Submit or Remove. It
// matches ErrOperationFailed.
type OperationError struct {
	Op Op
}

func (e *OperationError) Error() string { return string(e.Op) + ": " + ErrOperationFailed.Error() }

func (e *OperationError) Is(target error) bool { return target == ErrOperationFailed }

// Identifiable is satisfied by every entity kind a controller can hold.
type Identifiable interface {
	EntityID() int
}

// Mode tells OnSaved whether the entity was created or updated.
type Mode int

const (
	ModeCreate Mode = iota
	ModeUpdate
)

func (m Mode) String() string {
	if m == ModeUpdate {
		return "update"
	}
	return "create"
}

// Config binds a controller to one endpoint and one entity kind.
type Config[E Identifiable, D any] struct {
	// OwnerKey identifies the parent adventure. Load does nothing while empty.
	OwnerKey string

	// Endpoint is the collection URL, ending in "/". The item URL is
	// Endpoint + id + "/".
	Endpoint string

	// Requester performs the authenticated backend calls.
	Requester backend.Requester

	// InitialDraft is the empty create-mode form.
	InitialDraft D

	// ToDraft projects an entity into an edit form.
	ToDraft func(E) D

	// ToPayload builds the request body from a form.
	ToPayload func(D) any

	// OnSaved, if set, runs after every successful create or update.
	OnSaved func(E, Mode)
}

// PayloadOf adapts a typed payload builder to Config.ToPayload.
func PayloadOf[D, P any](f func(D) P) func(D) any {
	return func(d D) any { return f(d) }
}

// Controller holds the client-side state of one remote collection.
// All methods are safe for concurrent use; no lock is held across a
// backend call.
type Controller[E Identifiable, D any] struct {
	mu  sync.Mutex
	cfg Config[E, D]

	items     []E
	draft     D
	editingID int
	editing   bool
	err       error
	saving    bool

	// loadSeq identifies the newest Load; older responses are discarded.
	loadSeq uint64
	// generation changes on Retarget so that in-flight results for the old
	// target are dropped.
	generation uint64
}

// New creates a controller in the idle state with an empty collection.
func New[E Identifiable, D any](cfg Config[E, D]) *Controller[E, D] {
	return &Controller[E, D]{
		cfg:   cfg,
		items: []E{},
		draft: cfg.InitialDraft,
	}
}

func (c *Controller[E, D]) itemURL(endpoint string, id int) string {
	return endpoint + strconv.Itoa(id) + "/"
}

// Load fetches the collection. It is a no-op while the owner key is empty.
// On failure the collection is reset to empty and the error flag is left
// alone; the returned error is for logging.
func (c *Controller[E, D]) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.cfg.OwnerKey == "" {
		c.mu.Unlock()
		return nil
	}
	c.loadSeq++
	seq := c.loadSeq
	endpoint := c.cfg.Endpoint
	requester := c.cfg.Requester
	c.mu.Unlock()

	var items []E
	resp, err := requester.Do(ctx, backend.Request{Method: http.MethodGet, URL: endpoint})
	if err == nil {
		err = resp.Decode(&items)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.loadSeq {
		return nil
	}
	if err != nil {
		c.items = []E{}
		return fmt.Errorf("%w: loading %s: %w", ErrOperationFailed, endpoint, err)
	}
	if items == nil {
		items = []E{}
	}
	c.items = items
	return nil
}

// BeginEdit switches to edit mode for the given entity.
func (c *Controller[E, D]) BeginEdit(entity E) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.editing = true
	c.editingID = entity.EntityID()
	c.draft = c.cfg.ToDraft(entity)
	c.err = nil
}

// CancelEdit returns to create mode with the initial draft.
func (c *Controller[E, D]) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

func (c *Controller[E, D]) resetLocked() {
	c.editing = false
	c.editingID = 0
	c.draft = c.cfg.InitialDraft
	c.err = nil
}

// SetDraft replaces the form with user input.
func (c *Controller[E, D]) SetDraft(d D) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = d
}

// Submit creates or updates an entity from the current draft. On success the
// collection is patched, the draft is reset and OnSaved runs. On failure the
// collection and draft are untouched and Err reports ErrOperationFailed.
func (c *Controller[E, D]) Submit(ctx context.Context) error {
	_, err := c.SubmitEntity(ctx)
	return err
}

// SubmitEntity is Submit returning the entity the backend saved.
func (c *Controller[E, D]) SubmitEntity(ctx context.Context) (E, error) {
	var saved E

	c.mu.Lock()
	if c.saving {
		c.mu.Unlock()
		return saved, ErrBusy
	}
	c.saving = true
	c.err = nil
	gen := c.generation
	editing, id := c.editing, c.editingID
	endpoint := c.cfg.Endpoint
	requester := c.cfg.Requester
	payload := c.cfg.ToPayload(c.draft)
	c.mu.Unlock()

	req := backend.Request{Method: http.MethodPost, URL: endpoint, Body: payload}
	mode := ModeCreate
	if editing {
		req = backend.Request{Method: http.MethodPut, URL: c.itemURL(endpoint, id), Body: payload}
		mode = ModeUpdate
	}

	resp, err := requester.Do(ctx, req)
	if err == nil {
		err = resp.Decode(&saved)
	}

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		var zero E
		return zero, ErrSuperseded
	}
	c.saving = false
	if err != nil {
		c.err = &OperationError{Op: OpSubmit}
		c.mu.Unlock()
		var zero E
		return zero, fmt.Errorf("%w: saving to %s: %w", ErrOperationFailed, endpoint, err)
	}

	if mode == ModeUpdate {
		for i := range c.items {
			if c.items[i].EntityID() == saved.EntityID() {
				c.items[i] = saved
			}
		}
	} else {
		c.items = append([]E{saved}, c.items...)
	}
	c.resetLocked()
	onSaved := c.cfg.OnSaved
	c.mu.Unlock()

	if onSaved != nil {
		onSaved(saved, mode)
	}
	return saved, nil
}

// Remove deletes the entity with the given id after confirmation. A nil or
// declining confirmer issues no request and returns ErrDeclined. Removing an
// id that is not in the collection leaves the collection unchanged.
func (c *Controller[E, D]) Remove(ctx context.Context, id int, confirmer Confirmer) error {
	if confirmer == nil || !confirmer.Confirm(ctx, DeletePrompt) {
		return ErrDeclined
	}

	c.mu.Lock()
	gen := c.generation
	endpoint := c.cfg.Endpoint
	requester := c.cfg.Requester
	c.mu.Unlock()

	_, err := requester.Do(ctx, backend.Request{Method: http.MethodDelete, URL: c.itemURL(endpoint, id)})

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return ErrSuperseded
	}
	if err != nil {
		c.err = &OperationError{Op: OpRemove}
		return fmt.Errorf("%w: deleting from %s: %w", ErrOperationFailed, endpoint, err)
	}

	kept := c.items[:0:0]
	for _, item := range c.items {
		if item.EntityID() != id {
			kept = append(kept, item)
		}
	}
	c.items = kept
	return nil
}

// Retarget points the controller at a new owner and endpoint. Collection,
// draft and editing state are re-created and in-flight results are dropped.
func (c *Controller[E, D]) Retarget(ownerKey, endpoint string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cfg.OwnerKey = ownerKey
	c.cfg.Endpoint = endpoint
	c.generation++
	c.loadSeq++
	c.items = []E{}
	c.saving = false
	c.resetLocked()
}

// Rebind swaps the per-request collaborators of cfg (Requester, ToDraft
// and OnSaved) without touching state. Nil fields are left alone.
func (c *Controller[E, D]) Rebind(cfg Config[E, D]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cfg.Requester != nil {
		c.cfg.Requester = cfg.Requester
	}
	if cfg.ToDraft != nil {
		c.cfg.ToDraft = cfg.ToDraft
	}
	if cfg.OnSaved != nil {
		c.cfg.OnSaved = cfg.OnSaved
	}
}

// Target returns the current owner key and endpoint.
func (c *Controller[E, D]) Target() (ownerKey, endpoint string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg.OwnerKey, c.cfg.Endpoint
}

// Items returns a copy of the collection in display order.
func (c *Controller[E, D]) Items() []E {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]E, len(c.items))
	copy(out, c.items)
	return out
}

// Find returns the entity with the given id.
func (c *Controller[E, D]) Find(id int) (E, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.items {
		if item.EntityID() == id {
			return item, true
		}
	}
	var zero E
	return zero, false
}

// Draft returns the current form.
func (c *Controller[E, D]) Draft() D {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// EditingID returns the id under edit, or false in create mode.
func (c *Controller[E, D]) EditingID() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editingID, c.editing
}

// Err returns an *OperationError after a failed submit or remove, else nil.
// It matches ErrOperationFailed.
func (c *Controller[E, D]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Saving reports whether a submit is in flight.
func (c *Controller[E, D]) Saving() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saving
}
