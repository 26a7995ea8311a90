package analytics

import (
	"sync"
	"time"
)

// Entry is one retained payload with its fetch time.
type Entry struct {
	View      View
	Payload   any
	FetchedAt time.Time
}

// Snapshot retains the most recent successful payload per view. It exists
// for inspection and offline debugging only: the dashboard always renders
// from the value a fetch just returned, never from here. Failed fetches
// leave the previous entry untouched.
type Snapshot struct {
	mu    sync.RWMutex
	slots map[View]Entry
}

// NewSnapshot returns an empty snapshot cache.
func NewSnapshot() *Snapshot {
	return &Snapshot{slots: make(map[View]Entry, len(Views))}
}

func (s *Snapshot) put(v View, payload any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[v] = Entry{View: v, Payload: payload, FetchedAt: time.Now()}
}

// Entry returns the retained payload for a view, if any.
func (s *Snapshot) Entry(v View) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.slots[v]
	return e, ok
}

// Entries returns all retained entries in dashboard view order.
func (s *Snapshot) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, 0, len(s.slots))
	for _, v := range Views {
		if e, ok := s.slots[v]; ok {
			out = append(out, e)
		}
	}
	return out
}

// Clear drops every retained entry.
func (s *Snapshot) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots = make(map[View]Entry, len(Views))
}
