// Package session holds the process-wide state shared between the console
// loop and background tasks: the authenticated connection and the currently
// selected file.
//
// Each field lives in a Slot. A Slot only ever hands out copies of its value,
// so a caller cannot keep the lock while it talks to the network or waits for
// user input.
package session

import (
	"sync"

	"github.com/dmitrijs2005/tgcloud/internal/client/client"
)

// Slot is an optional value guarded by its own mutex. The zero value is an
// empty slot ready to use.
type Slot[T comparable] struct {
	mu  sync.Mutex
	v   T
	set bool
}

// Load returns a copy of the value and whether one is set.
func (s *Slot[T]) Load() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v, s.set
}

// Store sets the value and returns the previous one, if any.
func (s *Slot[T]) Store(v T) (prev T, had bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, had = s.v, s.set
	s.v, s.set = v, true
	return prev, had
}

// StoreIfEmpty sets v only when the slot is empty and reports whether it did.
func (s *Slot[T]) StoreIfEmpty(v T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.set {
		return false
	}
	s.v, s.set = v, true
	return true
}

// Take empties the slot and returns what it held.
func (s *Slot[T]) Take() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, had := s.v, s.set
	var zero T
	s.v, s.set = zero, false
	return v, had
}

// CompareAndClear empties the slot only if it still holds old.
func (s *Slot[T]) CompareAndClear(old T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set || s.v != old {
		return false
	}
	var zero T
	s.v, s.set = zero, false
	return true
}

// State is the shared session state. Both slots are independent.
type State struct {
	Conn     Slot[client.Conn]
	Selected Slot[string]
}

func NewState() *State {
	return &State{}
}
