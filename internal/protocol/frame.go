/*
Package protocol defines the wire-level message types exchanged between the relay
server and its clients.

This file defines the Frame, the outermost unit of the framed stream. A frame
deserializes to either an Envelope (a command) or a plain chat string. On the
TCP transport one frame is one newline-delimited JSON value; on the websocket
transport one frame is one text message.
*/
package protocol

// Frame is one inbound or outbound wire message. Exactly one of Envelope or
// Chat is set; a frame with neither is malformed and dropped by the transports.
type Frame struct {
	Envelope *Envelope `json:"envelope,omitempty"`
	Chat     string    `json:"chat,omitempty"`
}

// ChatFrame wraps plain chat text in a Frame.
func ChatFrame(text string) Frame {
	return Frame{Chat: text}
}

// EnvelopeFrame wraps a command envelope in a Frame.
func EnvelopeFrame(env *Envelope) Frame {
	return Frame{Envelope: env}
}

// IsEnvelope reports whether the frame carries a command envelope.
func (f Frame) IsEnvelope() bool {
	return f.Envelope != nil
}
