package play

import "sync"

// locker serializes the story operations of each run. Acquire never
// waits: a second action while one is running is refused.
type locker struct {
	mu   sync.Mutex
	held map[string]bool
}

func newLocker() *locker {
	return &locker{held: make(map[string]bool)}
}

// TryAcquire takes key and returns its release func, or false if key is
// already held.
func (l *locker) TryAcquire(key string) (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return nil, false
	}
	l.held[key] = true
	return func() {
		l.mu.Lock()
		delete(l.held, key)
		l.mu.Unlock()
	}, true
}
