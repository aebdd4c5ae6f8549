/*
Package handler provides the HTTP handlers and routing setup for the chat relay server.

This file contains the websocket transport: HandleWebSocket upgrades the HTTP
connection, registers a session with the registry, and runs the read and write
pumps. Websocket clients speak the same frame protocol as TCP clients, one JSON
text message per frame, and go through the same relay dispatch.
*/
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"chatrelay/internal/app/session"
	"chatrelay/internal/pkg/errs"
	"chatrelay/internal/pkg/limiter"
	"chatrelay/internal/pkg/logx"
	"chatrelay/internal/pkg/resp"
	"chatrelay/internal/protocol"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client. File
	// uploads travel in a single frame, so this bound also caps upload size.
	maxMessageSize = 8 << 20
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		wsSess := newWSSender(conn)
		sess := session.New(wsSess)

		deps.Registry.Add(sess)

		go wsSess.writePump()

		logx.Info("WebSocket connection established and session registered", "session_id", sess.ID)

		readPump(deps, sess, wsSess)
	}
}

// readPump handles reading frames from the WebSocket connection. It handles
// heartbeats (Pong), frame parsing, and performs cleanup upon connection closure.
func readPump(deps *AppDeps, sess *session.Session, wsSess *wsSender) {
	defer func() {
		deps.Registry.Remove(sess)
		wsSess.Close()
	}()

	conn := wsSess.conn
	conn.SetReadLimit(maxMessageSize)

	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		wsSess.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	ctx := context.Background()

	for {
		_, messageBytes, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsSess.logger.Info().Err(err).Msg("Error reading message (client close/going away)")
			}
			return
		}

		var frame protocol.Frame
		if err := json.Unmarshal(messageBytes, &frame); err != nil {
			wsSess.logger.Warn().Err(err).Msg("Client sent invalid JSON frame")
			continue
		}

		if frame.Envelope == nil && frame.Chat == "" {
			wsSess.logger.Warn().Msg("Client sent an empty frame")
			continue
		}

		deps.Relay.Dispatch(ctx, sess, frame)
	}
}

// wsSender is the websocket write side handed to the Session. Outbound frames
// are queued on a buffered channel drained by writePump; a full queue drops
// the frame rather than blocking the sending handler.
type wsSender struct {
	conn   *websocket.Conn
	send   chan []byte
	logger zerolog.Logger
}

func newWSSender(conn *websocket.Conn) *wsSender {
	return &wsSender{
		conn:   conn,
		send:   make(chan []byte, 256),
		logger: logx.Logger().With().Str("component", "wsSender").Logger(),
	}
}

// Send marshals the frame and queues it for the write pump.
func (c *wsSender) Send(frame protocol.Frame) error {
	messageBytes, err := json.Marshal(frame)
	if err != nil {
		c.logger.Error().Err(err).Msg("Error marshaling frame for client")
		return err
	}

	select {
	case c.send <- messageBytes:
		return nil
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Client send channel full, dropping frame")
		return fmt.Errorf("client send queue full")
	}
}

func (c *wsSender) Close() error {
	return c.conn.Close()
}

// writePump handles writing queued frames to the WebSocket connection and
// maintains the heartbeat.
func (c *wsSender) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline")
				return
			}

			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Error().Err(err).Msg("Error writing message")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
				return
			}

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Error().Err(err).Msg("Error writing ping")
				return
			}
		}
	}
}
