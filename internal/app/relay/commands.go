/*
Package relay contains the command dispatch core of the chat relay.

This file holds the per-command handlers. Reply strings follow the wire
protocol exactly: clients pattern-match on several of them, so their wording
is part of the contract (notably the ison and file transfer responses).
*/
package relay

import (
	"context"
	"errors"
	"strings"

	"chatrelay/internal/app/session"
	"chatrelay/internal/app/store"
	"chatrelay/internal/pkg/errs"
	"chatrelay/internal/protocol"
)

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

// handleLogin assigns the user id from the payload and places the session in
// the default room. Both fields are set together; login always succeeds for
// any asserted id. There is no re-login flow, so a second login simply
// overwrites the identity of this connection.
func (r *Relay) handleLogin(sess *session.Session, env *protocol.Envelope) {
	userID, shapeErr := env.TextValue()
	if shapeErr != nil {
		r.replyError(sess, shapeErr)
		return
	}

	sess.SetLogin(userID, r.defaultRoom)

	r.logger.Info().
		Str("user_id", userID).
		Str("room", r.defaultRoom).
		Msg("User has joined and has been placed in the default room.")

	r.reply(sess, protocol.ChatFrame(
		"you have joined with user id "+userID+" and been placed in room "+r.defaultRoom))
}

// handleJoin moves the sender to the room named by the payload.
func (r *Relay) handleJoin(sess *session.Session, env *protocol.Envelope) {
	if !sess.LoggedIn() {
		r.replyError(sess, errs.NewError(errs.ErrNotLoggedIn))
		return
	}

	room, shapeErr := env.TextValue()
	if shapeErr != nil {
		r.replyError(sess, shapeErr)
		return
	}
	if room == "" {
		r.replyError(sess, errs.NewError(errs.ErrRoomNameEmpty))
		return
	}

	sess.SetRoom(room)

	r.logger.Info().
		Str("user_id", sess.UserID()).
		Str("room", room).
		Msg("User has moved to a new room.")

	r.reply(sess, protocol.ChatFrame("You have moved to room "+room))
}

// handlePM sends the payload text to the target user id in Arg. User ids are
// not unique; the earliest still-connected match receives the message. A
// missing target is a silent no-op, but the sender always gets the echo.
func (r *Relay) handlePM(sess *session.Session, env *protocol.Envelope) {
	if !sess.LoggedIn() {
		r.replyError(sess, errs.NewError(errs.ErrNotLoggedIn))
		return
	}

	text, shapeErr := env.TextValue()
	if shapeErr != nil {
		r.replyError(sess, shapeErr)
		return
	}

	target := env.Arg
	if matches := r.registry.ByUserID(target); len(matches) > 0 {
		if err := matches[0].Send(protocol.ChatFrame(text)); err != nil {
			r.logger.Warn().
				Err(err).
				Str("target_user_id", target).
				Msg("Failed to deliver private message to target.")
		}
	}

	r.reply(sess, protocol.ChatFrame("You (PM to "+target+"): "+text))
}

// handleWho replies with an envelope listing the user ids of every session in
// the sender's room, the issuer included.
func (r *Relay) handleWho(sess *session.Session) {
	if !sess.LoggedIn() {
		r.replyError(sess, errs.NewError(errs.ErrNotLoggedIn))
		return
	}

	room := sess.Room()
	inRoom := r.registry.InRoom(room)

	ids := make([]string, 0, len(inRoom))
	for _, s := range inRoom {
		ids = append(ids, s.UserID())
	}

	r.reply(sess, protocol.EnvelopeFrame(
		protocol.NewEnvelope(protocol.CmdWho, "", protocol.ListPayload(ids))))
}

// handleIsOn reports which room the target user id is in. Always produces an
// answer: an absent user is a normal "not logged on" reply, never an error.
func (r *Relay) handleIsOn(sess *session.Session, env *protocol.Envelope) {
	if !sess.LoggedIn() {
		r.replyError(sess, errs.NewError(errs.ErrNotLoggedIn))
		return
	}

	target, shapeErr := env.TextValue()
	if shapeErr != nil {
		r.replyError(sess, shapeErr)
		return
	}

	if matches := r.registry.ByUserID(target); len(matches) > 0 {
		r.reply(sess, protocol.ChatFrame(target+" is in room "+matches[0].Room()))
		return
	}
	r.reply(sess, protocol.ChatFrame(target+" is not logged on"))
}

// handleUserStatus replies with a plain listing of every live session's user
// id and room.
func (r *Relay) handleUserStatus(sess *session.Session) {
	if !sess.LoggedIn() {
		r.replyError(sess, errs.NewError(errs.ErrNotLoggedIn))
		return
	}

	var b strings.Builder
	b.WriteString("---- All Users ---\n")
	for _, s := range r.registry.All() {
		userID, room := s.Snapshot()
		b.WriteString(userID + " - " + room + "\n")
	}

	r.reply(sess, protocol.ChatFrame(b.String()))
}

// handleJoinRoom bulk-moves every session in room Arg to the room named by
// the payload, the caller included if it is in the source room. Fire and
// forget: moved sessions are not notified and the issuer gets no confirmation.
func (r *Relay) handleJoinRoom(sess *session.Session, env *protocol.Envelope) {
	if !sess.LoggedIn() {
		r.replyError(sess, errs.NewError(errs.ErrNotLoggedIn))
		return
	}

	to, shapeErr := env.TextValue()
	if shapeErr != nil {
		r.replyError(sess, shapeErr)
		return
	}

	from := env.Arg
	if from == "" || to == "" {
		r.replyError(sess, errs.NewError(errs.ErrRoomNameEmpty))
		return
	}

	r.registry.MoveRoom(from, to)
}

// handleFTPList replies with an envelope listing the file names in the store.
// A listing failure is treated as an empty store, not a command failure.
func (r *Relay) handleFTPList(ctx context.Context, sess *session.Session) {
	names, err := r.store.List(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("Error listing stored files; replying with empty list.")
		names = []string{}
	}

	r.reply(sess, protocol.EnvelopeFrame(
		protocol.NewEnvelope(protocol.CmdFTPList, "", protocol.ListPayload(names))))
}

// handleFTPGet replies with the named file's bytes, or with an error string
// payload when the file does not exist.
func (r *Relay) handleFTPGet(ctx context.Context, sess *session.Session, env *protocol.Envelope) {
	name := env.Arg

	data, err := r.store.Read(ctx, name)
	if err != nil {
		if isNotFound(err) {
			r.reply(sess, protocol.EnvelopeFrame(
				protocol.NewEnvelope(protocol.CmdFTPGet, name, protocol.TextPayload("Error: File not found."))))
			return
		}

		r.logger.Error().Err(err).Str("file_name", name).Msg("Error reading stored file.")
		r.reply(sess, protocol.EnvelopeFrame(
			protocol.NewEnvelope(protocol.CmdFTPGet, name, protocol.TextPayload("Error: Could not read file."))))
		return
	}

	r.logger.Info().Str("file_name", name).Int("bytes", len(data)).Msg("File sent.")
	r.reply(sess, protocol.EnvelopeFrame(
		protocol.NewEnvelope(protocol.CmdFTPGet, name, protocol.BytesPayload(data))))
}

// handleFTPUpload writes the payload bytes under the file name in Arg and
// replies with a plain success or failure string. Storage failures are logged
// and never fatal.
func (r *Relay) handleFTPUpload(ctx context.Context, sess *session.Session, env *protocol.Envelope) {
	data, shapeErr := env.BytesValue()
	if shapeErr != nil {
		r.replyError(sess, shapeErr)
		return
	}

	name := env.Arg
	if err := r.store.Write(ctx, name, data); err != nil {
		r.logger.Error().Err(err).Str("file_name", name).Msg("Error saving file.")
		r.reply(sess, protocol.ChatFrame("Error saving file."))
		return
	}

	r.logger.Info().Str("file_name", name).Int("bytes", len(data)).Msg("File received.")
	r.reply(sess, protocol.ChatFrame("File "+name+" saved successfully."))
}
