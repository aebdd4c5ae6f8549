package transport

import (
	"context"
	"encoding/json"
	"net"
	"strings"
	"testing"
	"time"

	"chatrelay/internal/app/relay"
	"chatrelay/internal/app/session"
	"chatrelay/internal/app/store"
	"chatrelay/internal/protocol"
)

type testClient struct {
	conn net.Conn
	enc  *json.Encoder
	dec  *json.Decoder
}

func startTestServer(t *testing.T) (string, *session.Registry, func()) {
	t.Helper()

	fileStore, err := store.NewFileStore(store.ServiceConfig{Backend: store.BackendDisk, Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("failed to create file store: %v", err)
	}

	registry := session.NewRegistry()
	relayCore := relay.New(registry, fileStore, "commons")
	server := NewTCPServer("127.0.0.1:0", registry, relayCore)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	deadline := time.Now().Add(2 * time.Second)
	for server.Addr() == nil {
		if time.Now().After(deadline) {
			t.Fatal("server did not bind in time")
		}
		time.Sleep(5 * time.Millisecond)
	}

	stop := func() {
		server.Close()
		registry.Shutdown()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			t.Fatalf("server did not stop: %v", err)
		}
		if err := <-errCh; err != nil {
			t.Fatalf("ListenAndServe returned error: %v", err)
		}
	}

	return server.Addr().String(), registry, stop
}

func newTestClient(t *testing.T, addr string) *testClient {
	t.Helper()

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return &testClient{
		conn: conn,
		enc:  json.NewEncoder(conn),
		dec:  json.NewDecoder(conn),
	}
}

func (c *testClient) send(t *testing.T, frame protocol.Frame) {
	t.Helper()

	if err := c.enc.Encode(frame); err != nil {
		t.Fatalf("send failed: %v", err)
	}
}

func (c *testClient) recv(t *testing.T) protocol.Frame {
	t.Helper()

	_ = c.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frame protocol.Frame
	if err := c.dec.Decode(&frame); err != nil {
		t.Fatalf("recv failed: %v", err)
	}
	return frame
}

func (c *testClient) login(t *testing.T, userID string) {
	t.Helper()

	c.send(t, protocol.EnvelopeFrame(
		protocol.NewEnvelope(protocol.CmdLogin, "", protocol.TextPayload(userID))))

	confirmation := c.recv(t)
	if !strings.Contains(confirmation.Chat, userID) {
		t.Fatalf("login confirmation %q should name %q", confirmation.Chat, userID)
	}
}

func TestLoginAndWhoOverTCP(t *testing.T) {
	addr, registry, stop := startTestServer(t)
	defer stop()

	alice := newTestClient(t, addr)
	alice.login(t, "alice")

	if registry.Len() != 1 {
		t.Fatalf("registry has %d sessions, want 1", registry.Len())
	}

	alice.send(t, protocol.EnvelopeFrame(
		protocol.NewEnvelope(protocol.CmdWho, "", protocol.Payload{})))

	reply := alice.recv(t)
	if !reply.IsEnvelope() || reply.Envelope.Name != protocol.CmdWho {
		t.Fatalf("expected a who envelope, got %+v", reply)
	}

	ids, err := reply.Envelope.ListValue()
	if err != nil {
		t.Fatalf("who payload: %v", err)
	}
	if len(ids) != 1 || ids[0] != "alice" {
		t.Fatalf("who = %v, want [alice]", ids)
	}
}

func TestChatRelayBetweenConnections(t *testing.T) {
	addr, _, stop := startTestServer(t)
	defer stop()

	alice := newTestClient(t, addr)
	bob := newTestClient(t, addr)
	alice.login(t, "alice")
	bob.login(t, "bob")

	alice.send(t, protocol.ChatFrame("hello"))

	if got := bob.recv(t); got.Chat != "alice: hello" {
		t.Fatalf("bob received %q, want %q", got.Chat, "alice: hello")
	}
	if got := alice.recv(t); got.Chat != "alice: hello" {
		t.Fatalf("alice received %q, want %q", got.Chat, "alice: hello")
	}
}

func TestFileTransferOverTCP(t *testing.T) {
	addr, _, stop := startTestServer(t)
	defer stop()

	client := newTestClient(t, addr)

	content := []byte("framed file content")
	client.send(t, protocol.EnvelopeFrame(
		protocol.NewEnvelope(protocol.CmdFTPUpload, "f.txt", protocol.BytesPayload(content))))

	if got := client.recv(t); got.Chat != "File f.txt saved successfully." {
		t.Fatalf("upload reply = %q", got.Chat)
	}

	client.send(t, protocol.EnvelopeFrame(
		protocol.NewEnvelope(protocol.CmdFTPGet, "f.txt", protocol.Payload{})))

	reply := client.recv(t)
	if !reply.IsEnvelope() {
		t.Fatalf("expected an ftpget envelope, got %+v", reply)
	}
	data, err := reply.Envelope.BytesValue()
	if err != nil {
		t.Fatalf("ftpget payload: %v", err)
	}
	if string(data) != string(content) {
		t.Fatalf("round trip = %q, want %q", data, content)
	}
}

func TestDisconnectRemovesSession(t *testing.T) {
	addr, registry, stop := startTestServer(t)
	defer stop()

	client := newTestClient(t, addr)
	client.login(t, "alice")

	if registry.Len() != 1 {
		t.Fatalf("registry has %d sessions, want 1", registry.Len())
	}

	client.conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for registry.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("session was not removed after disconnect, registry has %d", registry.Len())
		}
		time.Sleep(5 * time.Millisecond)
	}
}
