// Package locking provides keyed mutual exclusion for per-session work.
package locking

import "sync"

// SessionLock serializes lead writes for a single session so that
// concurrent turns on the same conversation cannot interleave their
// read-merge-write cycles. Locks are refcounted and removed from the
// table once the last holder releases.
type SessionLock struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// NewSessionLock creates a new instance of a SessionLock.
func NewSessionLock() *SessionLock {
	return &SessionLock{
		locks: make(map[string]*entry),
	}
}

// Lock blocks until the lock for key is held by the caller.
func (l *SessionLock) Lock(key string) {
	l.mu.Lock()
	e, exists := l.locks[key]
	if !exists {
		e = &entry{}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
}

// Unlock releases the lock for key. This should be called with `defer`
// by the goroutine that acquired the lock.
func (l *SessionLock) Unlock(key string) {
	l.mu.Lock()
	e, exists := l.locks[key]
	if exists {
		e.refs--
		if e.refs <= 0 {
			delete(l.locks, key)
		}
	}
	l.mu.Unlock()

	if exists {
		e.mu.Unlock()
	}
}
