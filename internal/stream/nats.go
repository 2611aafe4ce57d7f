// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package stream

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/tomtom215/bgpwatch/internal/config"
	"github.com/tomtom215/bgpwatch/internal/logging"
	"github.com/tomtom215/bgpwatch/internal/metrics"
)

// NATSConfig configures a NATSClient.
type NATSConfig struct {
	URL     string
	Subject string

	// ConnectTimeout bounds each dial attempt. Default: 10s
	ConnectTimeout time.Duration
}

// NATSConfigFrom maps the feed section of the application config.
func NATSConfigFrom(cfg *config.FeedConfig) NATSConfig {
	return NATSConfig{
		URL:            cfg.NATSURL,
		Subject:        cfg.NATSSubject,
		ConnectTimeout: cfg.HandshakeTimeout,
	}
}

// NATSClient receives alerts published as bare JSON on a NATS subject.
// Reconnection is left to the nats.go client.
type NATSClient struct {
	dispatcher
	runner

	cfg       NATSConfig
	connected atomic.Bool
}

// NewNATSClient creates a client. Nothing is dialed until Run or Start.
func NewNATSClient(cfg NATSConfig) *NATSClient {
	if cfg.Subject == "" {
		cfg.Subject = "bgp.alerts"
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	return &NATSClient{cfg: cfg}
}

func (c *NATSClient) String() string {
	return "nats-feed"
}

// IsConnected reports whether the underlying connection is up.
func (c *NATSClient) IsConnected() bool {
	return c.connected.Load()
}

// Start runs the client in a background goroutine.
func (c *NATSClient) Start(ctx context.Context) error {
	return c.start(ctx, c.listen, c.String())
}

// Stop cancels a client started with Start and waits for it to exit.
func (c *NATSClient) Stop() error {
	c.stop()
	return nil
}

// Run subscribes and delivers until ctx is cancelled, then drains. It
// returns ErrAlreadyStarted when the client is already running.
func (c *NATSClient) Run(ctx context.Context) error {
	return c.exclusive(ctx, c.listen)
}

func (c *NATSClient) listen(ctx context.Context) error {
	nc, err := nats.Connect(c.cfg.URL,
		nats.Name("bgpwatch"),
		nats.Timeout(c.cfg.ConnectTimeout),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(initialReconnectDelay),
		nats.ConnectHandler(func(*nats.Conn) { c.setConnected(true) }),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			metrics.RecordFeedReconnect(config.TransportNATS)
			logging.Info().Str("url", nc.ConnectedUrl()).Msg("Feed reconnected")
			c.setConnected(true)
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logging.Warn().Err(err).Msg("Feed disconnected")
			c.setConnected(false)
		}),
	)
	if err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}
	defer func() {
		nc.Close()
		c.setConnected(false)
	}()
	if nc.IsConnected() {
		c.setConnected(true)
	}

	// nats.go runs the handler on one goroutine per subscription, which
	// keeps delivery sequential.
	sub, err := nc.Subscribe(c.cfg.Subject, func(msg *nats.Msg) {
		c.decodeAlert(config.TransportNATS, msg.Data)
	})
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", c.cfg.Subject, err)
	}
	logging.Info().Str("url", c.cfg.URL).Str("subject", c.cfg.Subject).Msg("Feed subscribed")

	<-ctx.Done()

	if err := sub.Unsubscribe(); err != nil {
		logging.Debug().Err(err).Msg("Unsubscribe failed")
	}
	if err := nc.Drain(); err != nil {
		logging.Debug().Err(err).Msg("Drain failed")
	}
	logging.Info().Str("client", c.String()).Msg("Feed listener stopping (context canceled)")
	return ctx.Err()
}

func (c *NATSClient) setConnected(v bool) {
	if c.connected.Swap(v) != v {
		metrics.SetFeedConnected(config.TransportNATS, v)
	}
}
