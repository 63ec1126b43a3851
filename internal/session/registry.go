// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package session

import (
	"errors"
	"sync"
)

var (
	// ErrSessionExists is returned when adding an ID that is already registered.
	ErrSessionExists = errors.New("session already exists")

	// ErrSessionNotFound is returned for an ID that is not registered.
	ErrSessionNotFound = errors.New("session not found")
)

// Registry maps session IDs to per-session state. Only insert, remove and
// lookup are synchronized; the values themselves are owned by their lanes.
type Registry[S any] struct {
	mu       sync.RWMutex
	sessions map[string]S
}

// NewRegistry creates an empty registry.
func NewRegistry[S any]() *Registry[S] {
	return &Registry[S]{sessions: make(map[string]S)}
}

// Add registers s under id.
func (r *Registry[S]) Add(id string, s S) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; ok {
		return ErrSessionExists
	}
	r.sessions[id] = s
	return nil
}

// Get returns the session for id.
func (r *Registry[S]) Get(id string) (S, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Remove unregisters id and returns what was stored. Removing an unknown
// id is a no-op.
func (r *Registry[S]) Remove(id string) (S, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	return s, ok
}

// Len returns the number of registered sessions.
func (r *Registry[S]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Range calls fn for each session until fn returns false. fn runs without
// the registry lock held, over a snapshot taken at call time.
func (r *Registry[S]) Range(fn func(id string, s S) bool) {
	r.mu.RLock()
	snap := make(map[string]S, len(r.sessions))
	for id, s := range r.sessions {
		snap[id] = s
	}
	r.mu.RUnlock()

	for id, s := range snap {
		if !fn(id, s) {
			return
		}
	}
}
