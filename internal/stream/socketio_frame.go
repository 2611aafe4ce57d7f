// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

/*
socketio_frame.go - Engine.IO v4 / Socket.IO v5 text framing

Only the subset a receive-only client on the default namespace needs:

	0{"sid":..,"pingInterval":..,"pingTimeout":..}   engine open
	2 / 3                                            engine ping / pong
	1                                                engine close
	40 / 40{"sid":..}                                namespace connect
	41                                               namespace disconnect
	44{"message":..}                                 connect error
	42["event",arg,...]                              event
	42/ns,17["event",arg]                            event with namespace and ack id
*/

package stream

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Engine.IO packet types.
const (
	engineOpen    = '0'
	engineClose   = '1'
	enginePing    = '2'
	enginePong    = '3'
	engineMessage = '4'
	engineNoop    = '6'
)

// Socket.IO packet types, carried inside an engine message.
const (
	socketConnect      = '0'
	socketDisconnect   = '1'
	socketEvent        = '2'
	socketConnectError = '4'
)

// ErrMalformedFrame is returned for frames that do not follow the framing.
var ErrMalformedFrame = errors.New("malformed socket.io frame")

// openPacket is the engine handshake payload.
type openPacket struct {
	SID          string `json:"sid"`
	PingInterval int    `json:"pingInterval"`
	PingTimeout  int    `json:"pingTimeout"`
}

// readTimeout is how long the server may stay silent before the connection
// is considered dead.
func (o openPacket) readTimeout() time.Duration {
	interval, timeout := o.PingInterval, o.PingTimeout
	if interval <= 0 {
		interval = 25000
	}
	if timeout <= 0 {
		timeout = 20000
	}
	return time.Duration(interval+timeout) * time.Millisecond
}

func parseOpen(frame []byte) (openPacket, error) {
	var o openPacket
	if len(frame) < 2 || frame[0] != engineOpen {
		return o, fmt.Errorf("%w: expected open packet, got %q", ErrMalformedFrame, truncate(frame))
	}
	if err := json.Unmarshal(frame[1:], &o); err != nil {
		return o, fmt.Errorf("%w: open packet: %v", ErrMalformedFrame, err)
	}
	return o, nil
}

// event is a decoded Socket.IO event on the default namespace.
type event struct {
	Name string
	Args []json.RawMessage
}

// parseEvent decodes the part of a "42" frame after the two type bytes.
// ok is false for events addressed to another namespace.
func parseEvent(body []byte) (ev event, ok bool, err error) {
	if len(body) > 0 && body[0] == '/' {
		comma := strings.IndexByte(string(body), ',')
		if comma < 0 {
			return ev, false, fmt.Errorf("%w: unterminated namespace", ErrMalformedFrame)
		}
		if ns := string(body[:comma]); ns != "/" {
			return ev, false, nil
		}
		body = body[comma+1:]
	}

	// ack id
	for len(body) > 0 && body[0] >= '0' && body[0] <= '9' {
		body = body[1:]
	}

	var parts []json.RawMessage
	if err := json.Unmarshal(body, &parts); err != nil {
		return ev, false, fmt.Errorf("%w: event body: %v", ErrMalformedFrame, err)
	}
	if len(parts) == 0 {
		return ev, false, fmt.Errorf("%w: empty event", ErrMalformedFrame)
	}
	if err := json.Unmarshal(parts[0], &ev.Name); err != nil {
		return ev, false, fmt.Errorf("%w: event name: %v", ErrMalformedFrame, err)
	}
	ev.Args = parts[1:]
	return ev, true, nil
}

// argPayload returns the JSON document carried by an event argument. Some
// emitters send the alert pre-serialized as a JSON string.
func argPayload(arg json.RawMessage) []byte {
	if len(arg) > 0 && arg[0] == '"' {
		var s string
		if err := json.Unmarshal(arg, &s); err == nil {
			return []byte(s)
		}
	}
	return arg
}

// connectError extracts the message of a "44" packet.
func connectError(body []byte) error {
	var payload struct {
		Message string `json:"message"`
	}
	if len(body) > 0 && json.Unmarshal(body, &payload) == nil && payload.Message != "" {
		return fmt.Errorf("socket.io connect refused: %s", payload.Message)
	}
	return errors.New("socket.io connect refused")
}

// websocketURL turns the configured feed URL into the Engine.IO websocket
// endpoint. An empty path selects the default "/socket.io/".
func websocketURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse feed url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported feed url scheme %q", u.Scheme)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/socket.io/"
	}
	q := u.Query()
	q.Set("EIO", "4")
	q.Set("transport", "websocket")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// truncate shortens a frame for log output.
func truncate(b []byte) string {
	const limit = 64
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
