package protocol

import (
	"bytes"
	"encoding/json"
	"testing"

	"chatrelay/internal/pkg/errs"
)

func TestPayloadAccessors(t *testing.T) {
	env := NewEnvelope(CmdLogin, "", TextPayload("alice"))

	got, err := env.TextValue()
	if err != nil {
		t.Fatalf("TextValue failed: %v", err)
	}
	if got != "alice" {
		t.Fatalf("TextValue = %q, want %q", got, "alice")
	}

	if _, err := env.BytesValue(); err == nil {
		t.Fatal("BytesValue on a text payload should fail")
	}
	if _, err := env.ListValue(); err == nil {
		t.Fatal("ListValue on a text payload should fail")
	}
}

func TestShapeMismatchIsTyped(t *testing.T) {
	env := NewEnvelope(CmdFTPUpload, "a.txt", TextPayload("not bytes"))

	_, err := env.BytesValue()
	if err == nil {
		t.Fatal("expected a shape error")
	}
	if err.Code != errs.ErrPayloadShape {
		t.Fatalf("error code = %d, want %d", err.Code, errs.ErrPayloadShape)
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	original := NewEnvelope(CmdFTPUpload, "notes.txt", BytesPayload([]byte{0x00, 0x01, 0xFF}))

	data, err := json.Marshal(EnvelopeFrame(original))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var frame Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !frame.IsEnvelope() {
		t.Fatal("frame should carry an envelope")
	}
	if frame.Envelope.Name != CmdFTPUpload || frame.Envelope.Arg != "notes.txt" {
		t.Fatalf("unexpected envelope header: %+v", frame.Envelope)
	}

	content, shapeErr := frame.Envelope.BytesValue()
	if shapeErr != nil {
		t.Fatalf("BytesValue failed: %v", shapeErr)
	}
	if !bytes.Equal(content, []byte{0x00, 0x01, 0xFF}) {
		t.Fatalf("payload bytes = %v, want %v", content, []byte{0x00, 0x01, 0xFF})
	}
}

func TestChatFrame(t *testing.T) {
	data, err := json.Marshal(ChatFrame("hello room"))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var frame Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if frame.IsEnvelope() {
		t.Fatal("chat frame should not carry an envelope")
	}
	if frame.Chat != "hello room" {
		t.Fatalf("chat text = %q, want %q", frame.Chat, "hello room")
	}
}
