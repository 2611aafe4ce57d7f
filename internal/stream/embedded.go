// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package stream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"
)

// EmbeddedServer is an in-process NATS server the detector can publish to.
// It is a plain core-NATS broker: no JetStream, no clustering, no auth. The
// NATSClient consumes from it like from any external server.
type EmbeddedServer struct {
	server    *server.Server
	clientURL string
}

// EmbeddedOptions configures the embedded server. Port -1 picks a random
// free port.
type EmbeddedOptions struct {
	// Host to listen on. Default: 127.0.0.1
	Host string

	// Port to listen on. -1 picks a random free port (tests).
	Port int

	// ReadyTimeout bounds the wait for the listener. Default: 10s
	ReadyTimeout time.Duration
}

// NewEmbeddedServer starts a NATS server and waits until it accepts clients.
func NewEmbeddedServer(opts EmbeddedOptions) (*EmbeddedServer, error) {
	if opts.Host == "" {
		opts.Host = "127.0.0.1"
	}
	if opts.ReadyTimeout <= 0 {
		opts.ReadyTimeout = 10 * time.Second
	}

	ns, err := server.NewServer(&server.Options{
		ServerName: "bgpwatch-feed",
		Host:       opts.Host,
		Port:       opts.Port,
		NoSigs:     true,        // Signals belong to the bgpwatch process
		MaxPayload: 1024 * 1024, // 1MB; alerts are a few hundred bytes
	})
	if err != nil {
		return nil, fmt.Errorf("create NATS server: %w", err)
	}

	// Start returns once the accept loop is running; readiness is checked
	// separately.
	go ns.Start()

	if !ns.ReadyForConnections(opts.ReadyTimeout) {
		ns.Shutdown()
		return nil, errors.New("NATS server not ready within timeout")
	}

	return &EmbeddedServer{server: ns, clientURL: ns.ClientURL()}, nil
}

// ClientURL is the nats:// URL clients connect to.
func (s *EmbeddedServer) ClientURL() string {
	return s.clientURL
}

// Shutdown stops the server, waiting for it to exit or ctx to end.
func (s *EmbeddedServer) Shutdown(ctx context.Context) error {
	// WaitForShutdown has no deadline of its own, so it runs in a goroutine
	// raced against ctx.
	done := make(chan struct{})
	go func() {
		s.server.Shutdown()
		s.server.WaitForShutdown()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
