package hsv

import "sync/atomic"

// Store is a last-writer-wins holder for an Adjustment.
// Loads always observe a complete record, never a mix of two writes.
type Store struct {
	v atomic.Pointer[Adjustment]
}

// NewStore creates a Store seeded with initial (clamped).
func NewStore(initial Adjustment) *Store {
	s := &Store{}
	s.Set(initial)
	return s
}

// Set clamps a and replaces the stored record.
func (s *Store) Set(a Adjustment) Adjustment {
	c := a.Clamp()
	s.v.Store(&c)
	return c
}

// Load returns a snapshot of the current record.
func (s *Store) Load() Adjustment {
	if p := s.v.Load(); p != nil {
		return *p
	}
	return Adjustment{}
}
