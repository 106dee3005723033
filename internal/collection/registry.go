package collection

import (
	"log/slog"
	"sync"
	"time"
)

// Registry keeps controllers alive between requests. A controller belongs
// to one browser session and one slot (for example "editor:locations");
// when the slot is reused for another adventure the controller is
// retargeted rather than replaced. Controllers unused for longer than the
// idle TTL are evicted by a background sweep.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*registryEntry
	ttl     time.Duration
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

type registryEntry struct {
	sessionID string
	ctrl      any
	lastUsed  time.Time
}

// NewRegistry creates a registry evicting controllers idle longer than ttl
// and starts its sweeper. Call Close to stop it.
func NewRegistry(ttl time.Duration) *Registry {
	r := &Registry{
		entries: make(map[string]*registryEntry),
		ttl:     ttl,
		now:     time.Now,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	interval := ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	go r.sweepLoop(interval)
	return r
}

func (r *Registry) sweepLoop(interval time.Duration) {
	defer close(r.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				slog.Debug("evicted idle controllers", slog.Int("count", n))
			}
		case <-r.stop:
			return
		}
	}
}

func registryKey(sessionID, slot string) string {
	return sessionID + "|" + slot
}

// Obtain returns the session's controller for slot, creating it from cfg on
// first use. An existing controller is rebound to cfg's per-request hooks
// and retargeted if cfg names another owner or endpoint.
func Obtain[E Identifiable, D any](r *Registry, sessionID, slot string, cfg Config[E, D]) *Controller[E, D] {
	key := registryKey(sessionID, slot)

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[key]; ok {
		if ctrl, ok := e.ctrl.(*Controller[E, D]); ok {
			e.lastUsed = r.now()
			ctrl.Rebind(cfg)
			if owner, endpoint := ctrl.Target(); owner != cfg.OwnerKey || endpoint != cfg.Endpoint {
				ctrl.Retarget(cfg.OwnerKey, cfg.Endpoint)
			}
			return ctrl
		}
	}

	ctrl := New(cfg)
	r.entries[key] = &registryEntry{sessionID: sessionID, ctrl: ctrl, lastUsed: r.now()}
	return ctrl
}

// Sweep evicts idle controllers and returns how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.ttl)
	n := 0
	for key, e := range r.entries {
		if e.lastUsed.Before(cutoff) {
			delete(r.entries, key)
			n++
		}
	}
	return n
}

// DropSession forgets every controller of a session (on logout).
func (r *Registry) DropSession(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, e := range r.entries {
		if e.sessionID == sessionID {
			delete(r.entries, key)
		}
	}
}

// Len returns the number of live controllers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Close stops the background sweep.
func (r *Registry) Close() {
	r.stopOnce.Do(func() { close(r.stop) })
	<-r.done
}
