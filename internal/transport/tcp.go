/*
Package transport provides the framed TCP transport for the chat relay.

This file defines the TCPServer: the accept loop, the per-connection read loop,
and the write side of the connection. Each live connection is serviced by its
own goroutine; frames are newline-delimited JSON values carrying either a
command envelope or plain chat text. The server registers a session on connect
and removes it on any read failure, which is how disconnection is detected.
*/
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"chatrelay/internal/app/relay"
	"chatrelay/internal/app/session"
	"chatrelay/internal/pkg/limiter"
	"chatrelay/internal/pkg/logx"
	"chatrelay/internal/protocol"
)

const (
	// writeWait bounds every frame write so a slow or dead peer never blocks
	// a broadcast loop indefinitely.
	writeWait = 10 * time.Second

	// ConnectRate and ConnectBurst bound how fast a single IP may open
	// new chat connections.
	ConnectRate  = 1.0
	ConnectBurst = 5
)

// TCPServer accepts framed chat connections and feeds their frames to the Relay.
type TCPServer struct {
	addr     string
	registry *session.Registry
	relay    *relay.Relay
	limiter  *limiter.IPRateLimiter
	logger   zerolog.Logger

	ln net.Listener
	wg sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewTCPServer constructs a TCPServer listening on addr once ListenAndServe is called.
func NewTCPServer(addr string, registry *session.Registry, r *relay.Relay) *TCPServer {
	serverLogger := logx.Logger().With().
		Str("component", "TCPServer").
		Str("addr", addr).
		Logger()

	return &TCPServer{
		addr:     addr,
		registry: registry,
		relay:    r,
		limiter:  limiter.NewIPRateLimiter(rate.Limit(ConnectRate), ConnectBurst),
		logger:   serverLogger,
	}
}

// ListenAndServe binds the listener and runs the accept loop until Shutdown
// closes the listener. It returns nil on a clean shutdown.
func (s *TCPServer) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		ln.Close()
		return nil
	}
	s.ln = ln
	s.mu.Unlock()

	s.logger.Info().Msg("Server listening for connections.")

	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.isClosed() {
				s.logger.Info().Msg("Server has stopped listening for connections.")
				return nil
			}
			s.logger.Error().Err(err).Msg("Accept failed.")
			return err
		}

		if !s.allowConnection(conn) {
			conn.Close()
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveConn(conn)
		}()
	}
}

// allowConnection applies the per-IP connect rate limit.
func (s *TCPServer) allowConnection(conn net.Conn) bool {
	ip, _, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil {
		ip = conn.RemoteAddr().String()
	}
	if ip == "" {
		ip = "unknown_ip"
	}

	if !s.limiter.GetLimiter(ip).Allow() {
		s.logger.Warn().Str("ip", ip).Msg("Connection rejected: rate limit exceeded.")
		return false
	}
	return true
}

// serveConn runs one connection's lifecycle: register the session, decode
// frames until the stream fails, then unregister and close.
func (s *TCPServer) serveConn(conn net.Conn) {
	sender := newTCPSender(conn)
	sess := session.New(sender)

	s.registry.Add(sess)
	defer func() {
		s.registry.Remove(sess)
		conn.Close()
	}()

	ctx := context.Background()
	dec := json.NewDecoder(conn)

	for {
		var frame protocol.Frame
		if err := dec.Decode(&frame); err != nil {
			if !errors.Is(err, io.EOF) && !s.isClosed() {
				s.logger.Info().
					Err(err).
					Str("session_id", sess.ID).
					Msg("Connection read ended.")
			}
			return
		}

		if frame.Envelope == nil && frame.Chat == "" {
			s.logger.Warn().Str("session_id", sess.ID).Msg("Client sent an empty frame.")
			continue
		}

		s.relay.Dispatch(ctx, sess, frame)
	}
}

// Addr returns the bound listener address, or nil before ListenAndServe binds.
func (s *TCPServer) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

func (s *TCPServer) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close stops accepting new connections. Live connections are unaffected;
// closing their sessions (registry shutdown) is what unblocks their read loops.
func (s *TCPServer) Close() {
	s.mu.Lock()
	s.closed = true
	ln := s.ln
	s.mu.Unlock()

	if ln != nil {
		ln.Close()
	}
}

// Shutdown stops accepting connections and waits for in-flight connection
// goroutines to finish, bounded by ctx.
func (s *TCPServer) Shutdown(ctx context.Context) error {
	s.Close()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// tcpSender is the per-connection write side handed to the Session. A mutex
// serializes writers (broadcasts from other connections' handlers run
// concurrently) and every write carries a deadline.
type tcpSender struct {
	conn net.Conn
	enc  *json.Encoder
	mu   sync.Mutex
}

func newTCPSender(conn net.Conn) *tcpSender {
	return &tcpSender{
		conn: conn,
		enc:  json.NewEncoder(conn),
	}
}

func (t *tcpSender) Send(frame protocol.Frame) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return t.enc.Encode(frame)
}

func (t *tcpSender) Close() error {
	return t.conn.Close()
}
