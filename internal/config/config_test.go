// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package config

import (
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"wss feed", func(c *Config) { c.Feed.URL = "wss://detector.example" }, false},
		{"ftp feed", func(c *Config) { c.Feed.URL = "ftp://detector.example" }, true},
		{"empty event", func(c *Config) { c.Feed.Event = " " }, true},
		{"nats transport", func(c *Config) { c.Feed.Transport = TransportNATS }, false},
		{"nats with http url", func(c *Config) {
			c.Feed.Transport = TransportNATS
			c.Feed.NATSURL = "http://broker:4222"
		}, true},
		{"embedded nats ignores url", func(c *Config) {
			c.Feed.Transport = TransportNATS
			c.Feed.NATSEmbedded = true
			c.Feed.NATSURL = ""
		}, false},
		{"embedded nats bad port", func(c *Config) {
			c.Feed.Transport = TransportNATS
			c.Feed.NATSEmbedded = true
			c.Feed.NATSEmbeddedPort = 0
		}, true},
		{"unknown transport", func(c *Config) { c.Feed.Transport = "mqtt" }, true},
		{"missing backend", func(c *Config) { c.Backend.URL = "" }, true},
		{"ws backend", func(c *Config) { c.Backend.URL = "ws://backend" }, true},
		{"backend with query", func(c *Config) { c.Backend.URL = "http://backend?x=1" }, true},
		{"relative heal path", func(c *Config) { c.Backend.HealPath = "trigger-heal" }, true},
		{"zero timeout", func(c *Config) { c.Backend.Timeout = 0 }, true},
		{"zero breaker requests", func(c *Config) { c.Backend.BreakerMaxRequests = 0 }, true},
		{"bad default prefix", func(c *Config) { c.Remediation.DefaultPrefix = "192.168.1.1" }, true},
		{"bad default next hop", func(c *Config) { c.Remediation.DefaultNextHop = "gateway" }, true},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, true},
		{"rate limit without window", func(c *Config) { c.Server.RateLimitWindow = 0 }, true},
		{"rate limit disabled", func(c *Config) {
			c.Server.RateLimitReqs = 0
			c.Server.RateLimitWindow = 0
		}, false},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, true},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, true},
		{"zero reconnect delay", func(c *Config) { c.Feed.MaxReconnectDelay = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLogConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.Logging = LoggingConfig{Level: "debug", Format: "console", Caller: true}

	lc := cfg.LogConfig()
	if lc.Level != "debug" || lc.Format != "console" || !lc.Caller {
		t.Errorf("LogConfig() = %+v", lc)
	}
	if lc.Output == nil {
		t.Error("LogConfig() should keep the default output")
	}
}

func TestServerAddr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8080, Timeout: time.Second}
	if got := s.Addr(); got != "127.0.0.1:8080" {
		t.Errorf("Addr() = %q", got)
	}
}
