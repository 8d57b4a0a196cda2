package service

import "sync"

// eventLocks hands out one mutex per event id so booking attempts for the
// same event are serialised while unrelated events proceed in parallel.
// Locks are never discarded; events are never deleted, so the map is
// bounded by the number of events.
type eventLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newEventLocks() *eventLocks {
	return &eventLocks{locks: make(map[string]*sync.Mutex)}
}

// forEvent returns the mutex guarding the given event id, creating it on
// first use.
func (l *eventLocks) forEvent(eventID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[eventID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[eventID] = m
	}
	return m
}
