/*
Package protocol defines the wire-level message types exchanged between the relay
server and its clients.

This file defines the Envelope, the unit carrying a command through the relay:
a command name, an optional string argument, and an optional tagged payload.
Envelopes carry no behavior beyond construction and payload shape assertion;
command handlers are responsible for checking the payload variant before use.
*/
package protocol

import (
	"chatrelay/internal/pkg/errs"
)

// Recognized command names. Matching is exact and case-sensitive.
const (
	CmdLogin      = "login"
	CmdJoin       = "join"
	CmdPM         = "pm"
	CmdWho        = "who"
	CmdIsOn       = "ison"
	CmdUserStatus = "userstatus"
	CmdJoinRoom   = "joinroom"
	CmdFTPList    = "ftplist"
	CmdFTPGet     = "ftpget"
	CmdFTPUpload  = "ftpUpload"
)

// PayloadKind tags the variant carried by a Payload.
type PayloadKind string

const (
	// PayloadNone marks an envelope carrying no payload.
	PayloadNone PayloadKind = ""

	// PayloadText marks a payload carrying a single string.
	PayloadText PayloadKind = "text"

	// PayloadBytes marks a payload carrying raw file content.
	PayloadBytes PayloadKind = "bytes"

	// PayloadList marks a payload carrying an ordered list of strings
	// (user ids or file names).
	PayloadList PayloadKind = "list"
)

// Payload is the closed tagged variant carried by an Envelope. Exactly the
// field matching Kind is meaningful; the others are ignored on the wire.
type Payload struct {
	Kind PayloadKind `json:"kind,omitempty"`
	Text string      `json:"text,omitempty"`
	Data []byte      `json:"data,omitempty"`
	List []string    `json:"list,omitempty"`
}

// TextPayload constructs a Payload carrying a single string.
func TextPayload(text string) Payload {
	return Payload{Kind: PayloadText, Text: text}
}

// BytesPayload constructs a Payload carrying raw bytes.
func BytesPayload(data []byte) Payload {
	return Payload{Kind: PayloadBytes, Data: data}
}

// ListPayload constructs a Payload carrying an ordered list of strings.
func ListPayload(list []string) Payload {
	return Payload{Kind: PayloadList, List: list}
}

// Envelope is the wire-level command unit: a command name, an optional string
// argument, and an optional payload. Immutable once constructed.
type Envelope struct {
	Name    string  `json:"name"`
	Arg     string  `json:"arg,omitempty"`
	Payload Payload `json:"payload"`
}

// NewEnvelope constructs an Envelope. No validation is performed here; handlers
// assert the payload shape they expect via the typed accessors below.
func NewEnvelope(name, arg string, payload Payload) *Envelope {
	return &Envelope{Name: name, Arg: arg, Payload: payload}
}

// TextValue asserts that the envelope carries a text payload and returns it.
// A mismatched variant yields a typed shape error naming the command.
func (e *Envelope) TextValue() (string, *errs.CustomError) {
	if e.Payload.Kind != PayloadText {
		return "", errs.NewError(errs.ErrPayloadShape, e.Name)
	}
	return e.Payload.Text, nil
}

// BytesValue asserts that the envelope carries a bytes payload and returns it.
func (e *Envelope) BytesValue() ([]byte, *errs.CustomError) {
	if e.Payload.Kind != PayloadBytes {
		return nil, errs.NewError(errs.ErrPayloadShape, e.Name)
	}
	return e.Payload.Data, nil
}

// ListValue asserts that the envelope carries a list payload and returns it.
func (e *Envelope) ListValue() ([]string, *errs.CustomError) {
	if e.Payload.Kind != PayloadList {
		return nil, errs.NewError(errs.ErrPayloadShape, e.Name)
	}
	return e.Payload.List, nil
}
