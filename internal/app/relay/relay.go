/*
Package relay contains the command dispatch core of the chat relay: deciding
what an inbound frame means and routing its effects to the right sessions.

This file defines the Relay struct and the dispatcher. Each frame is handled
independently within its own connection's context; there is no state machine
across commands beyond the session fields themselves. Plain chat text bypasses
command dispatch entirely and is broadcast to the sender's room.
*/
package relay

import (
	"context"

	"github.com/rs/zerolog"

	"chatrelay/internal/app/session"
	"chatrelay/internal/app/store"
	"chatrelay/internal/pkg/errs"
	"chatrelay/internal/pkg/logx"
	"chatrelay/internal/protocol"
)

// Relay dispatches inbound frames to command handlers and routes the resulting
// messages through the session registry. No handler failure ever terminates
// the connection or the process; failures become reply strings to the sender.
type Relay struct {
	registry    *session.Registry
	store       store.FileStore
	defaultRoom string
	logger      zerolog.Logger
}

// New constructs a Relay over the given registry and file store. defaultRoom
// is the room assigned by login.
func New(registry *session.Registry, fileStore store.FileStore, defaultRoom string) *Relay {
	relayLogger := logx.Logger().With().Str("component", "Relay").Logger()

	return &Relay{
		registry:    registry,
		store:       fileStore,
		defaultRoom: defaultRoom,
		logger:      relayLogger,
	}
}

// Registry exposes the session registry for the HTTP status surface.
func (r *Relay) Registry() *session.Registry {
	return r.registry
}

// Dispatch handles one inbound frame from the given session. Envelopes are
// routed to exactly one command handler by exact case-sensitive name match;
// anything else is treated as room chat.
func (r *Relay) Dispatch(ctx context.Context, sess *session.Session, frame protocol.Frame) {
	if !frame.IsEnvelope() {
		r.handleChat(sess, frame.Chat)
		return
	}

	env := frame.Envelope
	switch env.Name {
	case protocol.CmdLogin:
		r.handleLogin(sess, env)
	case protocol.CmdJoin:
		r.handleJoin(sess, env)
	case protocol.CmdPM:
		r.handlePM(sess, env)
	case protocol.CmdWho:
		r.handleWho(sess)
	case protocol.CmdIsOn:
		r.handleIsOn(sess, env)
	case protocol.CmdUserStatus:
		r.handleUserStatus(sess)
	case protocol.CmdJoinRoom:
		r.handleJoinRoom(sess, env)
	case protocol.CmdFTPList:
		r.handleFTPList(ctx, sess)
	case protocol.CmdFTPGet:
		r.handleFTPGet(ctx, sess, env)
	case protocol.CmdFTPUpload:
		r.handleFTPUpload(ctx, sess, env)
	default:
		r.logger.Warn().Str("command", env.Name).Msg("Client sent unknown command.")
		r.replyError(sess, errs.NewError(errs.ErrUnknownCommand, env.Name))
	}
}

// handleChat broadcasts plain text to the sender's room, prefixed with the
// sender's user id. A session that has not logged in has no room to broadcast
// to and gets an explicit error instead.
func (r *Relay) handleChat(sess *session.Session, text string) {
	userID, room := sess.Snapshot()
	if room == "" {
		r.replyError(sess, errs.NewError(errs.ErrNotLoggedIn))
		return
	}

	r.logger.Info().
		Str("user_id", userID).
		Str("room", room).
		Msg("Message received.")

	r.broadcastRoom(room, protocol.ChatFrame(userID+": "+text))
}

// broadcastRoom sends a frame to every session currently in room. Unreachable
// sessions are skipped, not retried, and never abort delivery to the rest.
func (r *Relay) broadcastRoom(room string, frame protocol.Frame) {
	for _, target := range r.registry.InRoom(room) {
		if err := target.Send(frame); err != nil {
			r.logger.Warn().
				Err(err).
				Str("session_id", target.ID).
				Str("room", room).
				Msg("Skipping unreachable session during room broadcast.")
		}
	}
}

// reply sends a frame back to the issuing session, best effort.
func (r *Relay) reply(sess *session.Session, frame protocol.Frame) {
	if err := sess.Send(frame); err != nil {
		r.logger.Warn().
			Err(err).
			Str("session_id", sess.ID).
			Msg("Failed to deliver reply to sender.")
	}
}

// replyError converts a command failure into a plain failure string to the
// sender. The failure stays local to this one command.
func (r *Relay) replyError(sess *session.Session, customErr *errs.CustomError) {
	r.reply(sess, protocol.ChatFrame(customErr.Message))
}
