// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package main

import (
	"fmt"

	"github.com/tomtom215/bgpwatch/internal/config"
	"github.com/tomtom215/bgpwatch/internal/logging"
	"github.com/tomtom215/bgpwatch/internal/stream"
)

// buildFeed creates the alert stream client for cfg. In embedded NATS mode
// it also starts the broker; the caller owns its shutdown.
func buildFeed(cfg *config.FeedConfig) (stream.Client, *stream.EmbeddedServer, error) {
	switch cfg.Transport {
	case config.TransportNATS:
		natsCfg := stream.NATSConfigFrom(cfg)
		var broker *stream.EmbeddedServer
		if cfg.NATSEmbedded {
			var err error
			broker, err = stream.NewEmbeddedServer(stream.EmbeddedOptions{Port: cfg.NATSEmbeddedPort})
			if err != nil {
				return nil, nil, fmt.Errorf("start embedded NATS: %w", err)
			}
			natsCfg.URL = broker.ClientURL()
		}
		logging.Info().
			Str("url", natsCfg.URL).
			Str("subject", natsCfg.Subject).
			Bool("embedded", broker != nil).
			Msg("Alert feed: NATS")
		return stream.NewNATSClient(natsCfg), broker, nil

	case config.TransportSocketIO, "":
		sioCfg := stream.SocketIOConfigFrom(cfg)
		logging.Info().Str("url", sioCfg.URL).Str("event", sioCfg.Event).Msg("Alert feed: Socket.IO")
		return stream.NewSocketIOClient(sioCfg), nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown feed transport %q", cfg.Transport)
	}
}
