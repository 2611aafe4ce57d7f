// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package config

import (
	"fmt"
	"net"
	"net/netip"
	"strings"

	"github.com/tomtom215/bgpwatch/internal/logging"
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateFeed(); err != nil {
		return err
	}
	if err := c.validateBackend(); err != nil {
		return err
	}
	if err := c.validateRemediation(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateFeed() error {
	switch c.Feed.Transport {
	case TransportSocketIO:
		if c.Feed.URL == "" {
			return fmt.Errorf("FEED_URL is required when FEED_TRANSPORT=%s", TransportSocketIO)
		}
		if err := validateSocketIOURL(c.Feed.URL, "FEED_URL"); err != nil {
			return err
		}
		if strings.TrimSpace(c.Feed.Event) == "" {
			return fmt.Errorf("FEED_EVENT must not be empty")
		}
	case TransportNATS:
		if c.Feed.NATSEmbedded {
			if c.Feed.NATSEmbeddedPort < 1 || c.Feed.NATSEmbeddedPort > 65535 {
				return fmt.Errorf("NATS_EMBEDDED_PORT must be between 1 and 65535, got %d", c.Feed.NATSEmbeddedPort)
			}
		} else if err := validateNATSURL(c.Feed.NATSURL, "NATS_URL"); err != nil {
			return err
		}
		if strings.TrimSpace(c.Feed.NATSSubject) == "" {
			return fmt.Errorf("NATS_SUBJECT must not be empty")
		}
	default:
		return fmt.Errorf("FEED_TRANSPORT must be %q or %q, got %q", TransportSocketIO, TransportNATS, c.Feed.Transport)
	}
	if c.Feed.HandshakeTimeout <= 0 {
		return fmt.Errorf("FEED_HANDSHAKE_TIMEOUT must be positive, got %v", c.Feed.HandshakeTimeout)
	}
	if c.Feed.MaxReconnectDelay <= 0 {
		return fmt.Errorf("FEED_MAX_RECONNECT_DELAY must be positive, got %v", c.Feed.MaxReconnectDelay)
	}
	return nil
}

func (c *Config) validateBackend() error {
	if c.Backend.URL == "" {
		return fmt.Errorf("BACKEND_URL is required")
	}
	if err := validateHTTPURL(c.Backend.URL, "BACKEND_URL"); err != nil {
		return err
	}
	for name, p := range map[string]string{
		"BACKEND_UPLOAD_PATH":   c.Backend.UploadPath,
		"BACKEND_DOWNLOAD_PATH": c.Backend.DownloadPath,
		"BACKEND_HEAL_PATH":     c.Backend.HealPath,
	} {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("%s must start with /, got %q", name, p)
		}
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("BACKEND_TIMEOUT must be positive, got %v", c.Backend.Timeout)
	}
	if c.Backend.BreakerMaxRequests == 0 {
		return fmt.Errorf("BACKEND_BREAKER_MAX_REQUESTS must be at least 1")
	}
	return nil
}

func (c *Config) validateRemediation() error {
	if _, err := netip.ParsePrefix(c.Remediation.DefaultPrefix); err != nil {
		return fmt.Errorf("REMEDIATION_DEFAULT_PREFIX must be a CIDR prefix: %w", err)
	}
	if net.ParseIP(c.Remediation.DefaultNextHop) == nil {
		return fmt.Errorf("REMEDIATION_DEFAULT_NEXT_HOP must be an IP address, got %q", c.Remediation.DefaultNextHop)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("SERVER_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	if c.Server.RateLimitReqs < 0 {
		return fmt.Errorf("RATE_LIMIT_REQS must not be negative, got %d", c.Server.RateLimitReqs)
	}
	if c.Server.RateLimitReqs > 0 && c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive when rate limiting is enabled")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// LogConfig converts the logging section for logging.Init.
func (c *Config) LogConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Logging.Level
	cfg.Format = c.Logging.Format
	cfg.Caller = c.Logging.Caller
	return cfg
}
