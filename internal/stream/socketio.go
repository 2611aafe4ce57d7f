// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package stream

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/bgpwatch/internal/config"
	"github.com/tomtom215/bgpwatch/internal/logging"
	"github.com/tomtom215/bgpwatch/internal/metrics"
)

var (
	errServerClosed    = errors.New("server closed the engine session")
	errServerKicked    = errors.New("server disconnected the namespace")
	errHandshakeFailed = errors.New("socket.io handshake failed")
)

// SocketIOConfig configures a SocketIOClient.
type SocketIOConfig struct {
	// URL of the detector, e.g. http://localhost:5000.
	URL string

	// Event name carrying alerts. Default: "alert".
	Event string

	// HandshakeTimeout bounds the dial and the namespace connect.
	// Default: 10s
	HandshakeTimeout time.Duration

	// MaxReconnectDelay caps the reconnect backoff. Default: 32s
	MaxReconnectDelay time.Duration
}

// SocketIOConfigFrom maps the feed section of the application config.
func SocketIOConfigFrom(cfg *config.FeedConfig) SocketIOConfig {
	return SocketIOConfig{
		URL:               cfg.URL,
		Event:             cfg.Event,
		HandshakeTimeout:  cfg.HandshakeTimeout,
		MaxReconnectDelay: cfg.MaxReconnectDelay,
	}
}

// SocketIOClient receives alerts pushed by the detector's Socket.IO server.
//
// Connection lifecycle:
//  1. Dial ws(s)://host/socket.io/?EIO=4&transport=websocket
//  2. Read the engine open packet (sid, ping interval and timeout)
//  3. Send "40" and wait for the namespace connect ack
//  4. Answer engine pings, decode "42" events named cfg.Event
//  5. On any failure close, back off (1s doubling to MaxReconnectDelay)
//     and start again from 1
//
// The backoff resets after any session that completed the handshake.
type SocketIOClient struct {
	dispatcher
	runner

	cfg       SocketIOConfig
	connected atomic.Bool
}

// NewSocketIOClient creates a client. Nothing is dialed until Run or Start.
func NewSocketIOClient(cfg SocketIOConfig) *SocketIOClient {
	if cfg.Event == "" {
		cfg.Event = "alert"
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = 10 * time.Second
	}
	if cfg.MaxReconnectDelay <= 0 {
		cfg.MaxReconnectDelay = 32 * time.Second
	}
	return &SocketIOClient{cfg: cfg}
}

// String identifies the client in logs and supervisor events.
func (c *SocketIOClient) String() string {
	return "socketio-feed"
}

// IsConnected reports whether the namespace handshake has completed on the
// current connection.
func (c *SocketIOClient) IsConnected() bool {
	return c.connected.Load()
}

// Start runs the client in a background goroutine.
func (c *SocketIOClient) Start(ctx context.Context) error {
	return c.start(ctx, c.listen, c.String())
}

// Stop cancels a client started with Start and waits for it to exit.
func (c *SocketIOClient) Stop() error {
	c.stop()
	return nil
}

// Run connects and delivers alerts until ctx is cancelled, reconnecting with
// exponential backoff. It returns ctx.Err(), or ErrAlreadyStarted when the
// client is already running.
func (c *SocketIOClient) Run(ctx context.Context) error {
	return c.exclusive(ctx, c.listen)
}

// listen is the reconnect loop behind Run and Start.
func (c *SocketIOClient) listen(ctx context.Context) error {
	endpoint, err := websocketURL(c.cfg.URL)
	if err != nil {
		return err
	}

	delay := initialReconnectDelay
	for {
		established, err := c.session(ctx, endpoint)
		if ctx.Err() != nil {
			logging.Info().Str("client", c.String()).Msg("Feed listener stopping (context canceled)")
			return ctx.Err()
		}
		if established {
			delay = initialReconnectDelay
		}

		logging.Warn().Err(err).Str("url", endpoint).Dur("delay", delay).Msg("Feed connection lost, reconnecting")
		metrics.RecordFeedReconnect(config.TransportSocketIO)
		if !sleepCtx(ctx, delay) {
			return ctx.Err()
		}
		delay = backoff(delay, c.cfg.MaxReconnectDelay)
	}
}

// session runs one connection from dial to failure. established reports
// whether the namespace handshake succeeded.
func (c *SocketIOClient) session(ctx context.Context, endpoint string) (established bool, err error) {
	dialer := websocket.Dialer{
		HandshakeTimeout:  c.cfg.HandshakeTimeout,
		EnableCompression: true,
	}

	conn, resp, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		if resp != nil {
			return false, fmt.Errorf("websocket dial failed (status %d): %w", resp.StatusCode, err)
		}
		return false, fmt.Errorf("websocket dial failed: %w", err)
	}
	if resp != nil && resp.Body != nil {
		if cerr := resp.Body.Close(); cerr != nil {
			logging.Debug().Err(cerr).Msg("Failed to close handshake response body")
		}
	}

	// Unblock ReadMessage when ctx is canceled mid-session
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			closeConn(conn)
		case <-done:
		}
	}()
	defer func() {
		if c.connected.Swap(false) {
			metrics.SetFeedConnected(config.TransportSocketIO, false)
		}
		closeConn(conn)
	}()

	open, err := c.handshake(conn)
	if err != nil {
		return false, err
	}

	c.connected.Store(true)
	metrics.SetFeedConnected(config.TransportSocketIO, true)
	logging.Info().Str("url", endpoint).Str("sid", open.SID).Str("event", c.cfg.Event).Msg("Feed connected")

	// The server pings every pingInterval; missing one plus pingTimeout
	// means the session is dead.
	readTimeout := open.readTimeout()
	for {
		if err := conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
			return true, fmt.Errorf("set read deadline: %w", err)
		}
		msgType, frame, err := conn.ReadMessage()
		if err != nil {
			return true, fmt.Errorf("read: %w", err)
		}
		if msgType != websocket.TextMessage {
			continue
		}
		if err := c.handleFrame(conn, frame); err != nil {
			return true, err
		}
	}
}

// handshake reads the engine open packet and joins the default namespace.
func (c *SocketIOClient) handshake(conn *websocket.Conn) (openPacket, error) {
	deadline := time.Now().Add(c.cfg.HandshakeTimeout)
	if err := conn.SetReadDeadline(deadline); err != nil {
		return openPacket{}, err
	}

	_, frame, err := conn.ReadMessage()
	if err != nil {
		return openPacket{}, fmt.Errorf("%w: read open: %w", errHandshakeFailed, err)
	}
	open, err := parseOpen(frame)
	if err != nil {
		return openPacket{}, fmt.Errorf("%w: %w", errHandshakeFailed, err)
	}

	// Join the default namespace
	if err := c.write(conn, "40"); err != nil {
		return openPacket{}, fmt.Errorf("%w: send connect: %w", errHandshakeFailed, err)
	}

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			return openPacket{}, fmt.Errorf("%w: await connect: %w", errHandshakeFailed, err)
		}
		switch {
		case len(frame) == 1 && frame[0] == enginePing:
			if err := c.write(conn, string(enginePong)); err != nil {
				return openPacket{}, fmt.Errorf("%w: pong: %w", errHandshakeFailed, err)
			}
		case len(frame) >= 2 && frame[0] == engineMessage && frame[1] == socketConnect:
			return open, nil
		case len(frame) >= 2 && frame[0] == engineMessage && frame[1] == socketConnectError:
			return openPacket{}, fmt.Errorf("%w: %w", errHandshakeFailed, connectError(frame[2:]))
		default:
			logging.Debug().Str("frame", truncate(frame)).Msg("Ignoring frame before namespace connect")
		}
	}
}

// handleFrame processes one frame on an established session. A non-nil
// error ends the session.
func (c *SocketIOClient) handleFrame(conn *websocket.Conn, frame []byte) error {
	if len(frame) == 0 {
		c.rejectFrame(frame, ErrMalformedFrame)
		return nil
	}

	// Engine.IO layer
	switch frame[0] {
	case enginePing:
		return c.write(conn, string(enginePong))
	case engineClose:
		return errServerClosed
	case engineNoop, enginePong:
		return nil
	case engineMessage:
	default:
		c.rejectFrame(frame, ErrMalformedFrame)
		return nil
	}

	if len(frame) < 2 {
		c.rejectFrame(frame, ErrMalformedFrame)
		return nil
	}

	// Socket.IO layer
	switch frame[1] {
	case socketEvent:
		ev, ok, err := parseEvent(frame[2:])
		if err != nil {
			c.rejectFrame(frame, err)
			return nil
		}
		if !ok || ev.Name != c.cfg.Event {
			return nil // Other events are not ours
		}
		if len(ev.Args) == 0 {
			c.rejectFrame(frame, fmt.Errorf("%w: event without payload", ErrMalformedFrame))
			return nil
		}
		c.decodeAlert(config.TransportSocketIO, argPayload(ev.Args[0]))
	case socketDisconnect:
		return errServerKicked
	case socketConnectError:
		return connectError(frame[2:])
	}
	return nil
}

// rejectFrame counts and logs a frame that cannot be used. The session
// stays up.
func (c *SocketIOClient) rejectFrame(frame []byte, err error) {
	metrics.RecordRejectedAlert("frame")
	logging.Warn().Err(err).Str("frame", truncate(frame)).Msg("Dropping feed frame")
}

// write sends one text packet, bounded by the handshake timeout.
func (c *SocketIOClient) write(conn *websocket.Conn, packet string) error {
	if err := conn.SetWriteDeadline(time.Now().Add(c.cfg.HandshakeTimeout)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, []byte(packet))
}

// closeConn sends a close frame best-effort and closes the socket.
func closeConn(conn *websocket.Conn) {
	_ = conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	_ = conn.Close()
}
