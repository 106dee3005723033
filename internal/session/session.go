// Package session holds the per-browser authentication context: the
// backend token pair and the cached user profile. Sessions are stored in
// Redis under an opaque id carried by the session cookie; nothing else in
// Saga reads or writes tokens.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a session id has no stored data.
var ErrNotFound = errors.New("session not found")

// Data is the persisted part of a session.
type Data struct {
	Access     string    `json:"access"`
	Refresh    string    `json:"refresh"`
	UserID     int       `json:"user_id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Credits    int       `json:"credits"`
	AdminLevel *int      `json:"admin_level,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// IsModerator reports whether the user may review submitted adventures.
func (d Data) IsModerator() bool {
	return d.AdminLevel != nil && *d.AdminLevel >= 1
}

// Level returns the admin level, or 0 for regular users.
func (d Data) Level() int {
	if d.AdminLevel == nil {
		return 0
	}
	return *d.AdminLevel
}

// Store persists session data.
type Store interface {
	Get(ctx context.Context, id string) (*Data, error)
	Set(ctx context.Context, id string, data *Data, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// Manager creates and opens sessions.
type Manager struct {
	store Store
	ttl   time.Duration
}

// NewManager returns a Manager storing sessions for ttl.
func NewManager(store Store, ttl time.Duration) *Manager {
	return &Manager{store: store, ttl: ttl}
}

// Create stores a new session and returns it.
func (m *Manager) Create(ctx context.Context, data Data) (*Session, error) {
	if data.CreatedAt.IsZero() {
		data.CreatedAt = time.Now().UTC()
	}
	s := &Session{ID: uuid.NewString(), store: m.store, ttl: m.ttl, data: data}
	if err := s.Save(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Open loads an existing session.
func (m *Manager) Open(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	s := &Session{ID: id, store: m.store, ttl: m.ttl}
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Destroy removes a session by id.
func (m *Manager) Destroy(ctx context.Context, id string) error {
	return m.store.Delete(ctx, id)
}

// Session is one user's authentication context. It is safe for concurrent
// use; the backend gateway may refresh the access token while a page reads
// the profile.
type Session struct {
	ID string

	store Store
	ttl   time.Duration

	mu      sync.Mutex
	data    Data
	cleared bool
}

// Load re-reads the session from the store.
func (s *Session) Load(ctx context.Context) error {
	data, err := s.store.Get(ctx, s.ID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data = *data
	s.cleared = false
	s.mu.Unlock()
	return nil
}

// Save writes the session to the store and extends its lifetime.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	data := s.data
	s.mu.Unlock()

	if err := s.store.Set(ctx, s.ID, &data, s.ttl); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Clear forgets the tokens and deletes the stored session.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.data = Data{}
	s.cleared = true
	s.mu.Unlock()

	if err := s.store.Delete(ctx, s.ID); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// Cleared reports whether Clear has been called since the last Load.
func (s *Session) Cleared() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cleared
}

// Data returns a copy of the session data.
func (s *Session) Data() Data {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// Tokens implements backend.Credentials.
func (s *Session) Tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Access, s.data.Refresh
}

// SetAccess implements backend.Credentials.
func (s *Session) SetAccess(ctx context.Context, access string) error {
	s.mu.Lock()
	s.data.Access = access
	s.mu.Unlock()
	return s.Save(ctx)
}

// Update applies fn to the session data and saves it.
func (s *Session) Update(ctx context.Context, fn func(*Data)) error {
	s.mu.Lock()
	fn(&s.data)
	s.mu.Unlock()
	return s.Save(ctx)
}
