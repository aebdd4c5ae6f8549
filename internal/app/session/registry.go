/*
Package session contains the server-side state for live client connections.

This file defines the Registry, the set of all currently live Sessions. The
transports add a session on connect and remove it on disconnect; the command
handlers enumerate and filter it. A single registry-wide lock serializes all
membership changes and snapshots, so concurrent logins, room moves, and
broadcasts never observe each other mid-update.
*/
package session

import (
	"sync"

	"github.com/rs/zerolog"

	"chatrelay/internal/pkg/logx"
)

// Registry is the live collection of all connected sessions, kept in
// connection order so "first match" lookups are deterministic.
type Registry struct {
	// mu guards sessions and order.
	mu sync.RWMutex

	// sessions maps session ID to the live Session.
	sessions map[string]*Session

	// order holds session IDs in the order the connections arrived.
	order []string

	logger zerolog.Logger
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	registryLogger := logx.Logger().With().Str("component", "Registry").Logger()

	return &Registry{
		sessions: make(map[string]*Session),
		logger:   registryLogger,
	}
}

// Add registers a newly connected session. Invoked by the transport connect hook.
func (r *Registry) Add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[s.ID]; ok {
		return
	}

	r.sessions[s.ID] = s
	r.order = append(r.order, s.ID)

	r.logger.Info().
		Str("session_id", s.ID).
		Int("total_sessions", len(r.sessions)).
		Msg("Client connected.")
}

// Remove drops a disconnected session. Invoked by the transport disconnect hook.
func (r *Registry) Remove(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[s.ID]; !ok {
		return
	}

	delete(r.sessions, s.ID)
	for i, id := range r.order {
		if id == s.ID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	r.logger.Info().
		Str("session_id", s.ID).
		Int("total_sessions", len(r.sessions)).
		Msg("Client disconnected.")
}

// All returns a snapshot of every live session in connection order. Adds and
// removes made after the call do not affect the returned slice.
func (r *Registry) All() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make([]*Session, 0, len(r.order))
	for _, id := range r.order {
		snapshot = append(snapshot, r.sessions[id])
	}
	return snapshot
}

// InRoom returns a snapshot of the sessions whose room exactly equals room.
func (r *Registry) InRoom(room string) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []*Session
	for _, id := range r.order {
		if s := r.sessions[id]; s.Room() == room {
			matches = append(matches, s)
		}
	}
	return matches
}

// ByUserID returns a snapshot of the sessions whose user id exactly equals
// userID, in connection order. User ids are not unique, so more than one
// session may match; callers wanting a single target take the first.
func (r *Registry) ByUserID(userID string) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []*Session
	for _, id := range r.order {
		if s := r.sessions[id]; s.UserID() == userID {
			matches = append(matches, s)
		}
	}
	return matches
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// MoveRoom reassigns every session currently in room from to room to, and
// returns how many sessions moved. The whole move runs under the registry
// lock, so the set of moved sessions is exactly the set in from at the
// instant of execution.
func (r *Registry) MoveRoom(from, to string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	moved := 0
	for _, id := range r.order {
		if s := r.sessions[id]; s.Room() == from {
			s.SetRoom(to)
			moved++
		}
	}

	if moved > 0 {
		r.logger.Info().
			Str("from_room", from).
			Str("to_room", to).
			Int("moved", moved).
			Msg("Bulk room move applied.")
	}
	return moved
}

// Shutdown drops every session and closes its transport. Used during server
// shutdown; no further Add calls are expected afterwards.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.sessions = make(map[string]*Session)
	r.order = nil
	r.mu.Unlock()

	for _, s := range sessions {
		if err := s.Close(); err != nil {
			r.logger.Warn().
				Err(err).
				Str("session_id", s.ID).
				Msg("Error closing session transport during shutdown.")
		}
	}

	r.logger.Info().Int("closed", len(sessions)).Msg("Registry shutdown complete.")
}
