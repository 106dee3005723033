package collection

import (
	"context"
	"testing"
	"time"

	"github.com/keyxmakerx/saga/internal/backend"
)

func noteConfig(owner string, req backend.Requester) Config[note, noteDraft] {
	return Config[note, noteDraft]{
		OwnerKey:  owner,
		Endpoint:  "/api/adventures/templates/" + owner + "/notes/",
		Requester: req,
		ToDraft:   func(n note) noteDraft { return noteDraft{Title: n.Title} },
		ToPayload: func(d noteDraft) any { return d },
	}
}

func newTestRegistry(t *testing.T, ttl time.Duration) *Registry {
	t.Helper()
	r := NewRegistry(ttl)
	t.Cleanup(r.Close)
	return r
}

func TestObtain_ReusesControllerPerSlot(t *testing.T) {
	r := newTestRegistry(t, time.Hour)
	req := &mockRequester{}

	a := Obtain(r, "s1", "notes", noteConfig("5", req))
	b := Obtain(r, "s1", "notes", noteConfig("5", req))
	if a != b {
		t.Error("expected the same controller for the same session and slot")
	}

	other := Obtain(r, "s2", "notes", noteConfig("5", req))
	if other == a {
		t.Error("expected a separate controller per session")
	}
	if r.Len() != 2 {
		t.Errorf("expected 2 live controllers, got %d", r.Len())
	}
}

func TestObtain_KeepsDraftAcrossRequests(t *testing.T) {
	r := newTestRegistry(t, time.Hour)
	req := &mockRequester{}

	c := Obtain(r, "s1", "notes", noteConfig("5", req))
	c.BeginEdit(note{ID: 4, Title: "kept"})

	again := Obtain(r, "s1", "notes", noteConfig("5", &mockRequester{}))
	if id, editing := again.EditingID(); !editing || id != 4 {
		t.Errorf("expected edit state to survive, got %d %v", id, editing)
	}
}

func TestObtain_RetargetsOnOwnerChange(t *testing.T) {
	r := newTestRegistry(t, time.Hour)
	req := &mockRequester{
		doFn: func(context.Context, backend.Request) (*backend.Response, error) {
			return jsonResponse([]note{{ID: 1}}), nil
		},
	}

	c := Obtain(r, "s1", "notes", noteConfig("5", req))
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.BeginEdit(note{ID: 1})

	same := Obtain(r, "s1", "notes", noteConfig("6", req))
	if same != c {
		t.Fatal("expected the slot's controller to be reused")
	}
	if len(same.Items()) != 0 {
		t.Errorf("expected collection re-created, got %+v", same.Items())
	}
	if _, editing := same.EditingID(); editing {
		t.Error("expected edit state reset on retarget")
	}
	if _, endpoint := same.Target(); endpoint != "/api/adventures/templates/6/notes/" {
		t.Errorf("unexpected endpoint %q", endpoint)
	}
}

func TestSweep_EvictsIdleControllers(t *testing.T) {
	r := newTestRegistry(t, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	Obtain(r, "s1", "notes", noteConfig("5", &mockRequester{}))
	now = now.Add(30 * time.Second)
	Obtain(r, "s2", "notes", noteConfig("5", &mockRequester{}))

	now = now.Add(45 * time.Second)
	if n := r.Sweep(); n != 1 {
		t.Errorf("expected 1 eviction, got %d", n)
	}
	if r.Len() != 1 {
		t.Errorf("expected 1 live controller, got %d", r.Len())
	}
}

func TestDropSession(t *testing.T) {
	r := newTestRegistry(t, time.Hour)
	req := &mockRequester{}

	Obtain(r, "s1", "notes", noteConfig("5", req))
	Obtain(r, "s1", "other", noteConfig("5", req))
	Obtain(r, "s2", "notes", noteConfig("5", req))

	r.DropSession("s1")
	if r.Len() != 1 {
		t.Errorf("expected only s2 to remain, got %d", r.Len())
	}
}
