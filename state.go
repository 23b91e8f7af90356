package shttp

import "sync"

// State is the shared state container handed to every handler. It
// holds two values: an immutable configuration, readable without any
// locking, and a mutable dynamic value that is only reachable through
// View and Update so every access happens under the lock.
//
// Both values are set once at startup and never replaced wholesale;
// the dynamic value is mutated in place inside Update.
type State struct {
	config any

	mu      sync.RWMutex
	dynamic any
}

// NewState builds a container from the immutable configuration and the
// initial dynamic value.
func NewState(config, dynamic any) *State {
	return &State{config: config, dynamic: dynamic}
}

// Config returns the immutable configuration. Safe from any goroutine.
func (s *State) Config() any {
	return s.config
}

// View runs fn with the dynamic value under the read lock. fn must not
// mutate the value or retain it past the call.
func (s *State) View(fn func(dynamic any)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.dynamic)
}

// Update runs fn with the dynamic value under the exclusive lock.
// Mutations made inside fn are atomic with respect to View: concurrent
// handlers never observe a partial update.
func (s *State) Update(fn func(dynamic any)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.dynamic)
}
