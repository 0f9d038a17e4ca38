// Package pending tracks writes in flight so views can flag the affected
// records.
package pending

import (
	"maps"
	"sync"
)

// Operation is the kind of write in flight for a record.
type Operation string

const (
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Tracker maps record ids to their in-flight operation and hands out per-id
// locks for read-modify-write sequences.
type Tracker struct {
	mu  sync.RWMutex
	ops map[string]Operation

	locksMu sync.Mutex
	locks   map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func NewTracker() *Tracker {
	return &Tracker{
		ops:   make(map[string]Operation),
		locks: make(map[string]*keyLock),
	}
}

// Begin flags id and returns the func that clears the flag. Callers defer it
// so the flag is removed whether the write succeeds or fails.
func (t *Tracker) Begin(id string, op Operation) func() {
	t.mu.Lock()
	t.ops[id] = op
	t.mu.Unlock()
	return func() {
		t.mu.Lock()
		if t.ops[id] == op {
			delete(t.ops, id)
		}
		t.mu.Unlock()
	}
}

// Lock blocks until no other caller holds id and returns the unlock func.
// Entries are dropped once the last holder or waiter is done.
func (t *Tracker) Lock(id string) func() {
	t.locksMu.Lock()
	l, ok := t.locks[id]
	if !ok {
		l = &keyLock{}
		t.locks[id] = l
	}
	l.refs++
	t.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		t.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(t.locks, id)
		}
		t.locksMu.Unlock()
	}
}

// Snapshot returns a copy of all flags.
func (t *Tracker) Snapshot() map[string]Operation {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return maps.Clone(t.ops)
}
