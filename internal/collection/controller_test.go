package collection

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/keyxmakerx/saga/internal/backend"
)

// --- Test entity ---

type note struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

func (n note) EntityID() int { return n.ID }

type noteDraft struct {
	Title string
}

// --- Mock Requester ---

// mockRequester implements backend.Requester for testing and records calls.
type mockRequester struct {
	doFn func(ctx context.Context, req backend.Request) (*backend.Response, error)

	mu    sync.Mutex
	calls []backend.Request
}

func (m *mockRequester) Do(ctx context.Context, req backend.Request) (*backend.Response, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()
	if m.doFn != nil {
		return m.doFn(ctx, req)
	}
	return jsonResponse([]note{}), nil
}

func (m *mockRequester) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockRequester) lastCall() backend.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[len(m.calls)-1]
}

func jsonResponse(v any) *backend.Response {
	body, _ := json.Marshal(v)
	return &backend.Response{StatusCode: http.StatusOK, Body: body}
}

var errNetwork = errors.New("connection refused")

type savedCall struct {
	Entity note
	Mode   Mode
}

func newNoteController(req backend.Requester, saved *[]savedCall) *Controller[note, noteDraft] {
	cfg := Config[note, noteDraft]{
		OwnerKey:     "5",
		Endpoint:     "/api/adventures/templates/5/notes/",
		Requester:    req,
		InitialDraft: noteDraft{},
		ToDraft:      func(n note) noteDraft { return noteDraft{Title: n.Title} },
		ToPayload:    func(d noteDraft) any { return map[string]string{"title": d.Title} },
	}
	if saved != nil {
		cfg.OnSaved = func(n note, m Mode) { *saved = append(*saved, savedCall{n, m}) }
	}
	return New(cfg)
}

// seed loads the given items into the controller through a list call.
func seed(t *testing.T, c *Controller[note, noteDraft], req *mockRequester, items []note) {
	t.Helper()
	prev := req.doFn
	req.doFn = func(context.Context, backend.Request) (*backend.Response, error) {
		return jsonResponse(items), nil
	}
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("seeding: %v", err)
	}
	req.doFn = prev
}

func assertItems(t *testing.T, c *Controller[note, noteDraft], want []note) {
	t.Helper()
	if diff := cmp.Diff(want, c.Items()); diff != "" {
		t.Errorf("collection mismatch (-want +got):\n%s", diff)
	}
}

// --- Load ---

func TestLoad_ReplacesCollection(t *testing.T) {
	req := &mockRequester{
		doFn: func(ctx context.Context, r backend.Request) (*backend.Response, error) {
			if r.Method != http.MethodGet || r.URL != "/api/adventures/templates/5/notes/" {
				t.Errorf("unexpected request %s %s", r.Method, r.URL)
			}
			return jsonResponse([]note{{ID: 2, Title: "B"}, {ID: 1, Title: "A"}}), nil
		},
	}
	c := newNoteController(req, nil)

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertItems(t, c, []note{{ID: 2, Title: "B"}, {ID: 1, Title: "A"}})
}

func TestLoad_NoOwnerIsNoop(t *testing.T) {
	req := &mockRequester{}
	c := New(Config[note, noteDraft]{Endpoint: "/x/", Requester: req})

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.callCount() != 0 {
		t.Errorf("expected no request without owner, got %d", req.callCount())
	}
	assertItems(t, c, []note{})
}

func TestLoad_FailureEmptiesCollectionWithoutErrorFlag(t *testing.T) {
	req := &mockRequester{}
	c := newNoteController(req, nil)
	seed(t, c, req, []note{{ID: 1, Title: "A"}})

	req.doFn = func(context.Context, backend.Request) (*backend.Response, error) {
		return nil, errNetwork
	}
	err := c.Load(context.Background())
	if !errors.Is(err, ErrOperationFailed) || !errors.Is(err, errNetwork) {
		t.Errorf("expected wrapped failure, got %v", err)
	}
	assertItems(t, c, []note{})
	if c.Err() != nil {
		t.Errorf("list failure must not set the error flag, got %v", c.Err())
	}
}

func TestLoad_StaleResponseDiscarded(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var mu sync.Mutex
	first := true

	req := &mockRequester{
		doFn: func(ctx context.Context, r backend.Request) (*backend.Response, error) {
			mu.Lock()
			isFirst := first
			first = false
			mu.Unlock()
			if isFirst {
				close(started)
				<-release
				return jsonResponse([]note{{ID: 1, Title: "old"}}), nil
			}
			return jsonResponse([]note{{ID: 2, Title: "new"}}), nil
		},
	}
	c := newNoteController(req, nil)

	done := make(chan error)
	go func() { done <- c.Load(context.Background()) }()
	<-started

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertItems(t, c, []note{{ID: 2, Title: "new"}})
}

// --- Submit ---

func TestSubmit_CreatePrepends(t *testing.T) {
	var saved []savedCall
	req := &mockRequester{}
	c := newNoteController(req, &saved)
	seed(t, c, req, []note{{ID: 1, Title: "A"}})

	req.doFn = func(ctx context.Context, r backend.Request) (*backend.Response, error) {
		return jsonResponse(note{ID: 7, Title: "X"}), nil
	}
	c.SetDraft(noteDraft{Title: "X"})

	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	call := req.lastCall()
	if call.Method != http.MethodPost || call.URL != "/api/adventures/templates/5/notes/" {
		t.Errorf("expected POST to collection, got %s %s", call.Method, call.URL)
	}
	if diff := cmp.Diff(map[string]string{"title": "X"}, call.Body); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
	assertItems(t, c, []note{{ID: 7, Title: "X"}, {ID: 1, Title: "A"}})
	if diff := cmp.Diff([]savedCall{{note{ID: 7, Title: "X"}, ModeCreate}}, saved); diff != "" {
		t.Errorf("OnSaved mismatch (-want +got):\n%s", diff)
	}
	if got := c.Draft(); got != (noteDraft{}) {
		t.Errorf("expected draft reset, got %+v", got)
	}
}

func TestSubmit_CreateIntoEmptyCollection(t *testing.T) {
	req := &mockRequester{
		doFn: func(context.Context, backend.Request) (*backend.Response, error) {
			return jsonResponse(note{ID: 7, Title: "X"}), nil
		},
	}
	c := newNoteController(req, nil)
	c.SetDraft(noteDraft{Title: "X"})

	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertItems(t, c, []note{{ID: 7, Title: "X"}})
}

func TestSubmit_UpdateReplacesInPlace(t *testing.T) {
	var saved []savedCall
	req := &mockRequester{}
	c := newNoteController(req, &saved)
	seed(t, c, req, []note{{ID: 3, Title: "C"}, {ID: 1, Title: "A"}, {ID: 2, Title: "B"}})

	c.BeginEdit(note{ID: 1, Title: "A"})
	if got := c.Draft(); got.Title != "A" {
		t.Fatalf("expected draft from entity, got %+v", got)
	}
	c.SetDraft(noteDraft{Title: "A2"})

	req.doFn = func(ctx context.Context, r backend.Request) (*backend.Response, error) {
		return jsonResponse(note{ID: 1, Title: "A2"}), nil
	}
	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	call := req.lastCall()
	if call.Method != http.MethodPut || call.URL != "/api/adventures/templates/5/notes/1/" {
		t.Errorf("expected PUT to item, got %s %s", call.Method, call.URL)
	}
	assertItems(t, c, []note{{ID: 3, Title: "C"}, {ID: 1, Title: "A2"}, {ID: 2, Title: "B"}})
	if _, editing := c.EditingID(); editing {
		t.Error("expected idle state after update")
	}
	if len(saved) != 1 || saved[0].Mode != ModeUpdate {
		t.Errorf("expected one update callback, got %+v", saved)
	}
}

func TestSubmit_EditScenario(t *testing.T) {
	req := &mockRequester{}
	c := newNoteController(req, nil)
	seed(t, c, req, []note{{ID: 1, Title: "A"}})

	c.BeginEdit(note{ID: 1, Title: "A"})
	d := c.Draft()
	d.Title = "B"
	c.SetDraft(d)

	req.doFn = func(context.Context, backend.Request) (*backend.Response, error) {
		return jsonResponse(note{ID: 1, Title: "B"}), nil
	}
	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertItems(t, c, []note{{ID: 1, Title: "B"}})
	if _, editing := c.EditingID(); editing {
		t.Error("expected editing id to be cleared")
	}
}

func TestSubmit_FailureLeavesState(t *testing.T) {
	var saved []savedCall
	req := &mockRequester{}
	c := newNoteController(req, &saved)
	seed(t, c, req, []note{{ID: 1, Title: "A"}})

	c.BeginEdit(note{ID: 1, Title: "A"})
	c.SetDraft(noteDraft{Title: "changed"})

	req.doFn = func(context.Context, backend.Request) (*backend.Response, error) {
		return nil, errNetwork
	}
	err := c.Submit(context.Background())
	if !errors.Is(err, ErrOperationFailed) {
		t.Fatalf("expected ErrOperationFailed, got %v", err)
	}

	assertItems(t, c, []note{{ID: 1, Title: "A"}})
	if got := c.Draft(); got.Title != "changed" {
		t.Errorf("expected draft preserved, got %+v", got)
	}
	if id, editing := c.EditingID(); !editing || id != 1 {
		t.Errorf("expected still editing 1, got %d %v", id, editing)
	}
	if !errors.Is(c.Err(), ErrOperationFailed) {
		t.Errorf("expected error flag, got %v", c.Err())
	}
	if c.Saving() {
		t.Error("expected saving flag cleared")
	}
	if len(saved) != 0 {
		t.Errorf("OnSaved must not run on failure, got %+v", saved)
	}
}

func TestSubmit_BusyRejectsConcurrentSubmit(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	req := &mockRequester{
		doFn: func(context.Context, backend.Request) (*backend.Response, error) {
			close(started)
			<-release
			return jsonResponse(note{ID: 9, Title: "N"}), nil
		},
	}
	c := newNoteController(req, nil)
	c.SetDraft(noteDraft{Title: "N"})

	done := make(chan error)
	go func() { done <- c.Submit(context.Background()) }()
	<-started

	if !c.Saving() {
		t.Error("expected saving while in flight")
	}
	if err := c.Submit(context.Background()); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}
	if req.callCount() != 1 {
		t.Errorf("expected a single request, got %d", req.callCount())
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertItems(t, c, []note{{ID: 9, Title: "N"}})
}

func TestSubmit_ClearsPreviousError(t *testing.T) {
	req := &mockRequester{
		doFn: func(context.Context, backend.Request) (*backend.Response, error) {
			return nil, errNetwork
		},
	}
	c := newNoteController(req, nil)
	_ = c.Submit(context.Background())
	if c.Err() == nil {
		t.Fatal("expected error flag after failure")
	}

	req.doFn = func(context.Context, backend.Request) (*backend.Response, error) {
		return jsonResponse(note{ID: 1}), nil
	}
	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Err() != nil {
		t.Errorf("expected error flag cleared, got %v", c.Err())
	}
}

// --- Edit state ---

func TestBeginEditThenCancelIsNoop(t *testing.T) {
	req := &mockRequester{}
	c := newNoteController(req, nil)
	seed(t, c, req, []note{{ID: 1, Title: "A"}})
	before := c.Items()

	c.BeginEdit(note{ID: 1, Title: "A"})
	c.CancelEdit()

	if diff := cmp.Diff(before, c.Items()); diff != "" {
		t.Errorf("collection changed (-before +after):\n%s", diff)
	}
	if got := c.Draft(); got != (noteDraft{}) {
		t.Errorf("expected initial draft, got %+v", got)
	}
	if _, editing := c.EditingID(); editing {
		t.Error("expected idle state")
	}
	if req.callCount() != 1 {
		t.Errorf("edit and cancel must not call the backend, got %d calls", req.callCount())
	}
}

// --- Remove ---

func TestRemove_RemovesExactlyOne(t *testing.T) {
	req := &mockRequester{}
	c := newNoteController(req, nil)
	seed(t, c, req, []note{{ID: 1}, {ID: 2}})

	req.doFn = func(ctx context.Context, r backend.Request) (*backend.Response, error) {
		if r.Method != http.MethodDelete || r.URL != "/api/adventures/templates/5/notes/1/" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL)
		}
		return &backend.Response{StatusCode: http.StatusNoContent}, nil
	}
	if err := c.Remove(context.Background(), 1, Always); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertItems(t, c, []note{{ID: 2}})
}

func TestRemove_AbsentIDIsNoop(t *testing.T) {
	req := &mockRequester{}
	c := newNoteController(req, nil)
	seed(t, c, req, []note{{ID: 1}, {ID: 2}})

	req.doFn = func(context.Context, backend.Request) (*backend.Response, error) {
		return &backend.Response{StatusCode: http.StatusNoContent}, nil
	}
	if err := c.Remove(context.Background(), 42, Always); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertItems(t, c, []note{{ID: 1}, {ID: 2}})
}

func TestRemove_DeclinedSendsNothing(t *testing.T) {
	tests := []struct {
		name      string
		confirmer Confirmer
	}{
		{name: "declined", confirmer: Never},
		{name: "nil confirmer", confirmer: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &mockRequester{}
			c := newNoteController(req, nil)
			seed(t, c, req, []note{{ID: 1}})

			err := c.Remove(context.Background(), 1, tt.confirmer)
			if !errors.Is(err, ErrDeclined) {
				t.Errorf("expected ErrDeclined, got %v", err)
			}
			if req.callCount() != 1 {
				t.Errorf("expected no delete request, got %d calls", req.callCount())
			}
			if c.Err() != nil {
				t.Errorf("declining must not set the error flag, got %v", c.Err())
			}
			assertItems(t, c, []note{{ID: 1}})
		})
	}
}

func TestRemove_PassesPrompt(t *testing.T) {
	var prompt string
	req := &mockRequester{}
	c := newNoteController(req, nil)

	confirmer := ConfirmFunc(func(_ context.Context, p string) bool {
		prompt = p
		return false
	})
	_ = c.Remove(context.Background(), 1, confirmer)
	if prompt != DeletePrompt {
		t.Errorf("expected prompt %q, got %q", DeletePrompt, prompt)
	}
}

func TestRemove_FailureLeavesCollection(t *testing.T) {
	req := &mockRequester{}
	c := newNoteController(req, nil)
	seed(t, c, req, []note{{ID: 1}, {ID: 2}})

	req.doFn = func(context.Context, backend.Request) (*backend.Response, error) {
		return nil, &backend.StatusError{Code: http.StatusForbidden}
	}
	err := c.Remove(context.Background(), 1, Always)
	if !errors.Is(err, ErrOperationFailed) {
		t.Fatalf("expected ErrOperationFailed, got %v", err)
	}
	assertItems(t, c, []note{{ID: 1}, {ID: 2}})
	if !errors.Is(c.Err(), ErrOperationFailed) {
		t.Errorf("expected error flag, got %v", c.Err())
	}
	var opErr *OperationError
	if !errors.As(c.Err(), &opErr) || opErr.Op != OpRemove {
		t.Errorf("expected a remove failure, got %v", c.Err())
	}
}

// --- Retarget ---

func TestRetarget_ResetsStateAndDropsInFlightLoad(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	req := &mockRequester{
		doFn: func(context.Context, backend.Request) (*backend.Response, error) {
			close(started)
			<-release
			return jsonResponse([]note{{ID: 1, Title: "from old"}}), nil
		},
	}
	c := newNoteController(req, nil)
	c.BeginEdit(note{ID: 1, Title: "A"})

	done := make(chan error)
	go func() { done <- c.Load(context.Background()) }()
	<-started

	c.Retarget("6", "/api/adventures/templates/6/notes/")
	close(release)
	<-done

	assertItems(t, c, []note{})
	if _, editing := c.EditingID(); editing {
		t.Error("expected editing state reset")
	}
	owner, endpoint := c.Target()
	if owner != "6" || endpoint != "/api/adventures/templates/6/notes/" {
		t.Errorf("unexpected target %q %q", owner, endpoint)
	}
}

func TestRetarget_DropsInFlightSubmit(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var saved []savedCall
	req := &mockRequester{
		doFn: func(context.Context, backend.Request) (*backend.Response, error) {
			close(started)
			<-release
			return jsonResponse(note{ID: 3, Title: "late"}), nil
		},
	}
	c := newNoteController(req, &saved)

	done := make(chan error)
	go func() { done <- c.Submit(context.Background()) }()
	<-started
	c.Retarget("6", "/api/adventures/templates/6/notes/")
	close(release)

	select {
	case err := <-done:
		if !errors.Is(err, ErrSuperseded) || !errors.Is(err, ErrOperationFailed) {
			t.Fatalf("expected ErrSuperseded, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("submit did not return")
	}
	assertItems(t, c, []note{})
	if len(saved) != 0 {
		t.Errorf("superseded submit must not run OnSaved, got %+v", saved)
	}
}

func TestRetarget_DropsInFlightRemove(t *testing.T) {
	req := &mockRequester{}
	c := newNoteController(req, nil)
	seed(t, c, req, []note{{ID: 1}})

	release := make(chan struct{})
	started := make(chan struct{})
	req.doFn = func(context.Context, backend.Request) (*backend.Response, error) {
		close(started)
		<-release
		return nil, errNetwork
	}

	done := make(chan error)
	go func() { done <- c.Remove(context.Background(), 1, Always) }()
	<-started
	c.Retarget("6", "/api/adventures/templates/6/notes/")
	close(release)

	if err := <-done; !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got %v", err)
	}
	if c.Err() != nil {
		t.Errorf("superseded remove must not flag the new target, got %v", c.Err())
	}
}

func TestSubmitEntity_ReturnsSaved(t *testing.T) {
	req := &mockRequester{
		doFn: func(context.Context, backend.Request) (*backend.Response, error) {
			return jsonResponse(note{ID: 9, Title: "new"}), nil
		},
	}
	c := newNoteController(req, nil)
	c.SetDraft(noteDraft{Title: "new"})

	saved, err := c.SubmitEntity(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.ID != 9 {
		t.Errorf("expected saved id 9, got %d", saved.ID)
	}
}

func TestSubmit_FailureKind(t *testing.T) {
	req := &mockRequester{
		doFn: func(context.Context, backend.Request) (*backend.Response, error) {
			return nil, errNetwork
		},
	}
	c := newNoteController(req, nil)

	_ = c.Submit(context.Background())
	var opErr *OperationError
	if !errors.As(c.Err(), &opErr) || opErr.Op != OpSubmit {
		t.Errorf("expected a submit failure, got %v", c.Err())
	}
}

func TestRebind_KeepsOnSavedWhenNil(t *testing.T) {
	var saved []savedCall
	req := &mockRequester{
		doFn: func(context.Context, backend.Request) (*backend.Response, error) {
			return jsonResponse(note{ID: 4}), nil
		},
	}
	c := newNoteController(req, &saved)

	c.Rebind(Config[note, noteDraft]{Requester: req})
	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(saved) != 1 {
		t.Errorf("expected OnSaved to survive a rebind without one, got %+v", saved)
	}
}
