// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package stream

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseEvent(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantOK   bool
		wantName string
		wantArgs int
		wantErr  bool
	}{
		{"plain", `["alert",{"a":1}]`, true, "alert", 1, false},
		{"no args", `["alert"]`, true, "alert", 0, false},
		{"ack id", `17["alert",{"a":1}]`, true, "alert", 1, false},
		{"default namespace", `/,["alert",{}]`, true, "alert", 1, false},
		{"other namespace", `/admin,["alert",{}]`, false, "", 0, false},
		{"namespace and ack", `/,3["alert",{},2]`, true, "alert", 2, false},
		{"unterminated namespace", `/admin`, false, "", 0, true},
		{"empty array", `[]`, false, "", 0, true},
		{"name not string", `[1,{}]`, false, "", 0, true},
		{"not json", `garbage`, false, "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok, err := parseEvent([]byte(tt.body))
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseEvent() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrMalformedFrame) {
					t.Errorf("error %v does not wrap ErrMalformedFrame", err)
				}
				return
			}
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if ev.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", ev.Name, tt.wantName)
			}
			if len(ev.Args) != tt.wantArgs {
				t.Errorf("len(Args) = %d, want %d", len(ev.Args), tt.wantArgs)
			}
		})
	}
}

func TestArgPayload(t *testing.T) {
	obj := `{"timestamp":"t1"}`
	if got := string(argPayload([]byte(obj))); got != obj {
		t.Errorf("object payload = %s, want unchanged", got)
	}
	if got := string(argPayload([]byte(`"{\"timestamp\":\"t1\"}"`))); got != obj {
		t.Errorf("string payload = %s, want %s", got, obj)
	}
}

func TestParseOpen(t *testing.T) {
	open, err := parseOpen([]byte(`0{"sid":"abc","upgrades":[],"pingInterval":300,"pingTimeout":200,"maxPayload":1000000}`))
	if err != nil {
		t.Fatalf("parseOpen() error = %v", err)
	}
	if open.SID != "abc" {
		t.Errorf("SID = %q", open.SID)
	}
	if got := open.readTimeout(); got != 500*time.Millisecond {
		t.Errorf("readTimeout() = %v, want 500ms", got)
	}

	if got := (openPacket{}).readTimeout(); got != 45*time.Second {
		t.Errorf("default readTimeout() = %v, want 45s", got)
	}

	for _, frame := range []string{"", "0", "40", "0{not json"} {
		if _, err := parseOpen([]byte(frame)); !errors.Is(err, ErrMalformedFrame) {
			t.Errorf("parseOpen(%q) error = %v, want ErrMalformedFrame", frame, err)
		}
	}
}

func TestConnectError(t *testing.T) {
	if err := connectError([]byte(`{"message":"unauthorized"}`)); !strings.Contains(err.Error(), "unauthorized") {
		t.Errorf("connectError() = %v, want message included", err)
	}
	if err := connectError(nil); err == nil {
		t.Error("connectError(nil) = nil, want error")
	}
}

func TestWebsocketURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"http://localhost:5000", "ws://localhost:5000/socket.io/?EIO=4&transport=websocket", false},
		{"https://detector.example/", "wss://detector.example/socket.io/?EIO=4&transport=websocket", false},
		{"ws://detector:5000/feed/socket.io/", "ws://detector:5000/feed/socket.io/?EIO=4&transport=websocket", false},
		{"wss://detector", "wss://detector/socket.io/?EIO=4&transport=websocket", false},
		{"ftp://detector", "", true},
		{"://bad", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := websocketURL(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("websocketURL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("websocketURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBackoff(t *testing.T) {
	delay := initialReconnectDelay
	var got []time.Duration
	for i := 0; i < 7; i++ {
		got = append(got, delay)
		delay = backoff(delay, 32*time.Second)
	}
	want := []time.Duration{1, 2, 4, 8, 16, 32, 32}
	for i := range want {
		if got[i] != want[i]*time.Second {
			t.Errorf("step %d = %v, want %v", i, got[i], want[i]*time.Second)
		}
	}
}
