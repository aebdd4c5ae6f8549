/*
Package handler provides the HTTP handlers and routing setup for the chat relay server.

This file contains the session status handlers: the live session listing (the
HTTP twin of the userstatus chat command) and the administrative bulk room move.
*/
package handler

import (
	"net/http"

	"chatrelay/internal/pkg/errs"
	"chatrelay/internal/pkg/req"
	"chatrelay/internal/pkg/resp"
)

// SessionStatus is one row of the live session listing.
type SessionStatus struct {
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId"`
	Room      string `json:"room"`
}

// HandleStatus returns the user id and room of every live session.
func HandleStatus(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions := deps.Registry.All()

		statuses := make([]SessionStatus, 0, len(sessions))
		for _, s := range sessions {
			userID, room := s.Snapshot()
			statuses = append(statuses, SessionStatus{
				SessionID: s.ID,
				UserID:    userID,
				Room:      room,
			})
		}

		data := map[string]any{
			"sessions": statuses,
		}
		resp.RespondSuccess(w, r, data)
	}
}

// MoveRoomInput defines the JSON input for the bulk room move.
type MoveRoomInput struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// HandleMoveRoom moves every session currently in the source room to the
// destination room, mirroring the joinroom chat command.
func HandleMoveRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input MoveRoomInput

		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.From == "" || input.To == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		moved := deps.Registry.MoveRoom(input.From, input.To)

		data := map[string]any{
			"moved": moved,
		}
		resp.RespondSuccess(w, r, data)
	}
}
