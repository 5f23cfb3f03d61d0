// Package session holds the client's single authentication slot.
//
// The slot is an immutable State value. Every transition swaps in a new
// value as a whole, so a reader never sees a half-updated state. The auth
// service is the only caller of Store.Replace and Store.Settle; everything else reads
// snapshots.
package session

import (
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/authdesk/internal/client/models"
)

// State is a snapshot of the authentication slot.
type State struct {
	// User is nil for an anonymous session.
	User *models.User
	// Initializing is true until the startup session check has finished.
	Initializing bool
}

// Authenticated reports whether a user is present.
func (s State) Authenticated() bool {
	return s.User != nil
}

// Username returns the current user's name, or "" when anonymous.
func (s State) Username() string {
	if s.User == nil {
		return ""
	}
	return s.User.Username
}

// Store keeps the current State.
type Store struct {
	state atomic.Pointer[State]

	mu        sync.Mutex
	listeners []func(State)
}

// NewStore returns a store in the startup state: no user, initializing.
func NewStore() *Store {
	s := &Store{}
	s.state.Store(&State{Initializing: true})
	return s
}

// Snapshot returns a copy of the current state. The User it points to is a
// private copy too, so callers cannot reach back into the store.
func (s *Store) Snapshot() State {
	st := *s.state.Load()
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

// OnChange registers fn to be called with the new state after every
// transition.
func (s *Store) OnChange(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Settle replaces the state with next only while the store is still
// initializing. It reports whether next was applied; false means another
// transition (a login, say) already ended the startup phase.
func (s *Store) Settle(next State) bool {
	if next.User != nil {
		u := *next.User
		next.User = &u
	}
	for {
		cur := s.state.Load()
		if !cur.Initializing {
			return false
		}
		if s.state.CompareAndSwap(cur, &next) {
			s.notify()
			return true
		}
	}
}

// Replace swaps in next as the whole new state and notifies listeners.
func (s *Store) Replace(next State) {
	if next.User != nil {
		u := *next.User
		next.User = &u
	}
	s.state.Store(&next)
	s.notify()
}

func (s *Store) notify() {
	s.mu.Lock()
	listeners := append([]func(State){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(s.Snapshot())
	}
}
