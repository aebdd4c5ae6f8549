/*
Package session contains the server-side state for live client connections.

This file defines the Session struct, the per-connection mutable record: the
transport handle used to send data back, the user id assigned at login, and the
room the connection currently belongs to. Sessions are created by the transports
on connect and owned by the Registry until disconnect.
*/
package session

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"chatrelay/internal/pkg/logx"
	"chatrelay/internal/protocol"
)

// Sender is the transport handle a Session borrows to send frames back to its
// connection. Implementations apply their own write deadlines so a slow peer
// never blocks a broadcast loop indefinitely.
type Sender interface {
	Send(frame protocol.Frame) error
	Close() error
}

// Session represents one live client connection and its mutable chat state.
// UserID and Room start unset; login assigns both together, so a session with
// a room always has a user id.
type Session struct {
	// ID uniquely identifies the connection for the registry. It is not the
	// user id; two connections may claim the same user id.
	ID string

	sender Sender

	// mu guards userID and room. SetLogin writes both under one critical
	// section so snapshots never observe a half-updated session.
	mu     sync.RWMutex
	userID string
	room   string

	logger zerolog.Logger
}

// New constructs a Session around the given transport handle.
func New(sender Sender) *Session {
	id := uuid.NewString()

	sessionLogger := logx.Logger().With().
		Str("component", "Session").
		Str("session_id", id).
		Logger()

	return &Session{
		ID:     id,
		sender: sender,
		logger: sessionLogger,
	}
}

// Send forwards a frame to this connection through its transport handle.
func (s *Session) Send(frame protocol.Frame) error {
	return s.sender.Send(frame)
}

// Close closes the underlying transport handle.
func (s *Session) Close() error {
	return s.sender.Close()
}

// UserID returns the user id assigned at login, or "" before login.
func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// Room returns the room the session currently belongs to, or "" before login.
func (s *Session) Room() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.room
}

// Snapshot returns the user id and room as one consistent pair.
func (s *Session) Snapshot() (userID, room string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID, s.room
}

// LoggedIn reports whether a login command has assigned this session a user id.
func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID != ""
}

// SetLogin assigns the user id and the initial room in one step.
func (s *Session) SetLogin(userID, room string) {
	s.mu.Lock()
	s.userID = userID
	s.room = room
	s.mu.Unlock()

	s.logger.Info().
		Str("user_id", userID).
		Str("room", room).
		Msg("Session logged in.")
}

// SetRoom moves the session to the given room.
func (s *Session) SetRoom(room string) {
	s.mu.Lock()
	s.room = room
	s.mu.Unlock()
}
