// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package stream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/bgpwatch/internal/models"
)

const openFrame = `0{"sid":"engine-sid","upgrades":[],"pingInterval":25000,"pingTimeout":20000,"maxPayload":1000000}`

// fakeDetector is a minimal Socket.IO server. Each accepted connection runs
// the handshake and then script with the connection number (starting at 1).
type fakeDetector struct {
	*httptest.Server
	connections atomic.Int32
}

func newFakeDetector(t *testing.T, script func(n int32, conn *websocket.Conn)) *fakeDetector {
	t.Helper()

	fd := &fakeDetector{}
	upgrader := websocket.Upgrader{}
	fd.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/socket.io/" || r.URL.Query().Get("EIO") != "4" || r.URL.Query().Get("transport") != "websocket" {
			http.Error(w, "bad handshake request", http.StatusBadRequest)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		n := fd.connections.Add(1)
		if err := conn.WriteMessage(websocket.TextMessage, []byte(openFrame)); err != nil {
			return
		}
		_, msg, err := conn.ReadMessage()
		if err != nil || string(msg) != "40" {
			return
		}
		if err := conn.WriteMessage(websocket.TextMessage, []byte(`40{"sid":"socket-sid"}`)); err != nil {
			return
		}
		script(n, conn)
	}))
	t.Cleanup(fd.Close)
	return fd
}

func send(conn *websocket.Conn, frames ...string) {
	for _, f := range frames {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
			return
		}
	}
}

// hold keeps the connection open until the client goes away.
func hold(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func collect(client Client) chan models.Alert {
	ch := make(chan models.Alert, 16)
	client.Subscribe(func(a models.Alert) { ch <- a })
	return ch
}

func next(t *testing.T, ch chan models.Alert) models.Alert {
	t.Helper()
	select {
	case a := <-ch:
		return a
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for alert")
		return models.Alert{}
	}
}

func startClient(t *testing.T, client Client) {
	t.Helper()
	if err := client.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { _ = client.Stop() })
}

func TestSocketIOClient_DeliversAlertsInOrder(t *testing.T) {
	fd := newFakeDetector(t, func(_ int32, conn *websocket.Conn) {
		send(conn,
			`42["alert",{"timestamp":"2024-05-01T10:00:00Z","anomaly_type":"Route Leak","confidence_score":0.87}]`,
			`42["status",{"ok":true}]`,
			`42/admin,["alert",{"timestamp":"admin","anomaly_type":"Hijack","confidence_score":0.1}]`,
			`42["alert","{\"timestamp\":\"2024-05-01T10:00:05Z\",\"anomaly_type\":\"Hijack\",\"confidence_score\":0.5}"]`,
			`42["alert",{"anomaly_type":"Hijack","confidence_score":0.5}]`,
			`42garbage`,
			`x`,
			`4212["alert",{"timestamp":1714557610,"anomaly_type":"Hijack","confidence_score":1}]`,
		)
		hold(conn)
	})

	client := NewSocketIOClient(SocketIOConfig{URL: fd.URL})
	alerts := collect(client)
	startClient(t, client)

	want := []string{"2024-05-01T10:00:00Z", "2024-05-01T10:00:05Z", "1714557610"}
	for i, ts := range want {
		a := next(t, alerts)
		if a.Timestamp.String() != ts {
			t.Errorf("alert %d timestamp = %q, want %q", i, a.Timestamp.String(), ts)
		}
	}
	select {
	case a := <-alerts:
		t.Errorf("unexpected extra alert %+v", a)
	case <-time.After(100 * time.Millisecond):
	}
	if !client.IsConnected() {
		t.Error("IsConnected() = false while session is open")
	}
}

func TestSocketIOClient_CustomEvent(t *testing.T) {
	fd := newFakeDetector(t, func(_ int32, conn *websocket.Conn) {
		send(conn,
			`42["alert",{"timestamp":"ignored","anomaly_type":"Hijack","confidence_score":0.5}]`,
			`42["bgp_alert",{"timestamp":"t1","anomaly_type":"Hijack","confidence_score":0.5}]`,
		)
		hold(conn)
	})

	client := NewSocketIOClient(SocketIOConfig{URL: fd.URL, Event: "bgp_alert"})
	alerts := collect(client)
	startClient(t, client)

	if a := next(t, alerts); a.Timestamp.String() != "t1" {
		t.Errorf("timestamp = %q, want t1", a.Timestamp.String())
	}
}

func TestSocketIOClient_AnswersPing(t *testing.T) {
	pong := make(chan string, 1)
	fd := newFakeDetector(t, func(_ int32, conn *websocket.Conn) {
		send(conn, "2")
		_, msg, err := conn.ReadMessage()
		if err == nil {
			pong <- string(msg)
		}
		hold(conn)
	})

	client := NewSocketIOClient(SocketIOConfig{URL: fd.URL})
	startClient(t, client)

	select {
	case got := <-pong:
		if got != "3" {
			t.Errorf("reply to ping = %q, want 3", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reply to ping")
	}
}

func TestSocketIOClient_ReconnectsAfterDisconnect(t *testing.T) {
	fd := newFakeDetector(t, func(n int32, conn *websocket.Conn) {
		if n == 1 {
			send(conn, "41")
			hold(conn)
			return
		}
		send(conn, `42["alert",{"timestamp":"after-reconnect","anomaly_type":"Hijack","confidence_score":0.5}]`)
		hold(conn)
	})

	client := NewSocketIOClient(SocketIOConfig{URL: fd.URL})
	alerts := collect(client)
	startClient(t, client)

	if a := next(t, alerts); a.Timestamp.String() != "after-reconnect" {
		t.Errorf("timestamp = %q, want after-reconnect", a.Timestamp.String())
	}
	if got := fd.connections.Load(); got != 2 {
		t.Errorf("connections = %d, want 2", got)
	}
}

func TestSocketIOClient_StopDisconnects(t *testing.T) {
	connected := make(chan struct{})
	fd := newFakeDetector(t, func(_ int32, conn *websocket.Conn) {
		close(connected)
		hold(conn)
	})

	client := NewSocketIOClient(SocketIOConfig{URL: fd.URL})
	if err := client.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := client.Start(context.Background()); err != ErrAlreadyStarted {
		t.Errorf("second Start() error = %v, want ErrAlreadyStarted", err)
	}
	if err := client.Run(context.Background()); err != ErrAlreadyStarted {
		t.Errorf("Run() on a started client error = %v, want ErrAlreadyStarted", err)
	}

	select {
	case <-connected:
	case <-time.After(5 * time.Second):
		t.Fatal("client never connected")
	}

	done := make(chan struct{})
	go func() {
		_ = client.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop() did not return")
	}
	if client.IsConnected() {
		t.Error("IsConnected() = true after Stop")
	}
}

func TestSocketIOClient_RunReturnsOnCancel(t *testing.T) {
	// Nothing listens here, so Run sits in its reconnect loop.
	client := NewSocketIOClient(SocketIOConfig{URL: "http://127.0.0.1:1", HandshakeTimeout: 100 * time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	if err := client.Run(ctx); err != context.DeadlineExceeded {
		t.Errorf("Run() error = %v, want context.DeadlineExceeded", err)
	}
}

func (r *runner) isActive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

func TestSocketIOClient_RunIsExclusive(t *testing.T) {
	client := NewSocketIOClient(SocketIOConfig{URL: "http://127.0.0.1:1", HandshakeTimeout: 100 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- client.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for !client.isActive() {
		if time.Now().After(deadline) {
			t.Fatal("Run() never became active")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := client.Start(context.Background()); err != ErrAlreadyStarted {
		t.Errorf("Start() during Run error = %v, want ErrAlreadyStarted", err)
	}
	if err := client.Run(ctx); err != ErrAlreadyStarted {
		t.Errorf("second Run() error = %v, want ErrAlreadyStarted", err)
	}

	cancel()
	if err := <-errCh; err != context.Canceled {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}

	// Once Run has returned the client can be started again.
	if err := client.Start(context.Background()); err != nil {
		t.Errorf("Start() after Run returned: %v", err)
	}
	_ = client.Stop()
}

func TestSocketIOClient_RunRejectsBadURL(t *testing.T) {
	client := NewSocketIOClient(SocketIOConfig{URL: "ftp://detector"})
	if err := client.Run(context.Background()); err == nil {
		t.Fatal("Run() error = nil, want scheme error")
	}
}
