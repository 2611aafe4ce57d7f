// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/bgpwatch/internal/logging"
)

// Broker is an in-process message broker, such as *stream.EmbeddedServer.
type Broker interface {
	ClientURL() string
	Shutdown(ctx context.Context) error
}

// EmbeddedNATSService owns the lifetime of the embedded broker. The broker
// is started by its constructor so clients can be configured with its URL
// before the tree runs.
type EmbeddedNATSService struct {
	broker          Broker
	shutdownTimeout time.Duration
}

// NewEmbeddedNATSService wraps broker. A non-positive timeout uses 10s.
func NewEmbeddedNATSService(broker Broker, shutdownTimeout time.Duration) *EmbeddedNATSService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &EmbeddedNATSService{broker: broker, shutdownTimeout: shutdownTimeout}
}

// Serve blocks until ctx is canceled, then shuts the broker down.
func (s *EmbeddedNATSService) Serve(ctx context.Context) error {
	logging.Info().Str("url", s.broker.ClientURL()).Msg("Embedded NATS broker running")
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.broker.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("embedded NATS shutdown: %w", err)
	}
	return ctx.Err()
}

func (s *EmbeddedNATSService) String() string {
	return "embedded-nats"
}
