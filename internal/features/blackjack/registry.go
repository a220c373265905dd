// Package blackjack — registry.go tracks live sessions. The registry is
// owned by the service and injected where needed, never global.
package blackjack

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Registry maps session ids to live sessions and enforces one live
// game per player. Entries are inserted on start and removed on
// settlement; a removed id behaves as never having existed.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	byUser   map[string]string // user id -> session id
	entropy  *ulid.MonotonicEntropy
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		byUser:   make(map[string]string),
		entropy:  ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

// Create deals a new session for the player. Fails when the player
// already has a live game.
func (r *Registry) Create(userID, channelID string, bet int64, rng *rand.Rand) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, busy := r.byUser[userID]; busy {
		return nil, false
	}

	id := ulid.MustNew(ulid.Timestamp(time.Now()), r.entropy).String()
	s := newSession(id, userID, channelID, bet, rng)

	// A natural resolves on the deal; only still-open games are live.
	if s.Snapshot().Finished {
		return s, true
	}

	r.sessions[id] = s
	r.byUser[userID] = id
	return s, true
}

// Get returns a live session by id.
func (r *Registry) Get(sessionID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	return s, ok
}

// GetByUser returns the player's live session.
func (r *Registry) GetByUser(userID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byUser[userID]
	if !ok {
		return nil, false
	}
	s, ok := r.sessions[id]
	return s, ok
}

// Remove drops a settled session. Safe to call twice.
func (r *Registry) Remove(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return
	}
	delete(r.sessions, sessionID)
	if r.byUser[s.UserID] == sessionID {
		delete(r.byUser, s.UserID)
	}
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
