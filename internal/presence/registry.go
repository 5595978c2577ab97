// Package presence tracks which authenticated users are currently connected.
package presence

import (
	"sync"

	"github.com/google/uuid"
)

// Snapshot is the authenticated-user projection cached for the lifetime of a
// connection. It is captured at authentication time and never re-read from
// the user store afterwards.
type Snapshot struct {
	ConnID     uuid.UUID `json:"connectionId"`
	UserID     int64     `json:"userId"`
	Username   string    `json:"username"`
	ProfilePic string    `json:"profilePic,omitempty"`
	IsAdmin    bool      `json:"isAdmin"`
}

// Registry maps live connection IDs to user snapshots. Entries are keyed by
// connection, not by user: the same account connected from two tabs holds
// two independent entries. List returns entries in insertion order, which is
// the roster order clients see.
type Registry struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]Snapshot
	order []uuid.UUID
}

func NewRegistry() *Registry {
	return &Registry{
		byID: make(map[uuid.UUID]Snapshot),
	}
}

// Add records a snapshot for a connection. Adding an already-known connection
// overwrites its snapshot in place; re-authentication replaces, never rejects.
func (r *Registry) Add(connID uuid.UUID, snap Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[connID]; !ok {
		r.order = append(r.order, connID)
	}
	r.byID[connID] = snap
}

// Remove deletes a connection's entry and returns it. Removing an unknown
// connection is a no-op; the second return value tells callers whether a
// departure actually happened.
func (r *Registry) Remove(connID uuid.UUID) (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap, ok := r.byID[connID]
	if !ok {
		return Snapshot{}, false
	}
	delete(r.byID, connID)
	for i, id := range r.order {
		if id == connID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return snap, true
}

// Get looks up the snapshot for a connection.
func (r *Registry) Get(connID uuid.UUID) (Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap, ok := r.byID[connID]
	return snap, ok
}

// List returns all snapshots in insertion order.
func (r *Registry) List() []Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Snapshot, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Len reports the number of live entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
