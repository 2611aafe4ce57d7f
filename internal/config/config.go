// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package config

import (
	"fmt"
	"time"
)

// Feed transports.
const (
	TransportSocketIO = "socketio"
	TransportNATS     = "nats"
)

// Config holds all BGPWatch configuration.
//
//	cfg, err := config.LoadWithKoanf()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load config")
//	}
//	client := stream.NewSocketIOClient(stream.SocketIOConfigFrom(&cfg.Feed))
type Config struct {
	Feed        FeedConfig        `koanf:"feed"`
	Backend     BackendConfig     `koanf:"backend"`
	Remediation RemediationConfig `koanf:"remediation"`
	Commands    CommandsConfig    `koanf:"commands"`
	Export      ExportConfig      `koanf:"export"`
	Server      ServerConfig      `koanf:"server"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// FeedConfig selects and configures the alert feed.
type FeedConfig struct {
	// Transport is "socketio" (detector's native push) or "nats".
	Transport string `koanf:"transport"`

	// URL is the Socket.IO server base URL (http, https, ws or wss).
	URL string `koanf:"url"`

	// Event is the Socket.IO event name carrying alerts.
	Event string `koanf:"event"`

	NATSURL     string `koanf:"nats_url"`
	NATSSubject string `koanf:"nats_subject"`

	// NATSEmbedded starts an in-process NATS server on NATSEmbeddedPort and
	// subscribes to it, so the detector can publish without separate
	// infrastructure. NATSURL is ignored when set.
	NATSEmbedded     bool `koanf:"nats_embedded"`
	NATSEmbeddedPort int  `koanf:"nats_embedded_port"`

	HandshakeTimeout  time.Duration `koanf:"handshake_timeout"`
	MaxReconnectDelay time.Duration `koanf:"max_reconnect_delay"`
}

// BackendConfig points at the upload/download/remediation service.
type BackendConfig struct {
	URL          string        `koanf:"url"`
	UploadPath   string        `koanf:"upload_path"`
	DownloadPath string        `koanf:"download_path"`
	HealPath     string        `koanf:"heal_path"`
	Timeout      time.Duration `koanf:"timeout"`

	// Circuit breaker: requests allowed in half-open state, and how long the
	// breaker stays open before probing again.
	BreakerMaxRequests uint32        `koanf:"breaker_max_requests"`
	BreakerTimeout     time.Duration `koanf:"breaker_timeout"`
}

// RemediationConfig holds the request sent when a heal is triggered by voice.
type RemediationConfig struct {
	DefaultPrefix  string `koanf:"default_prefix"`
	DefaultNextHop string `koanf:"default_next_hop"`
}

// CommandsConfig tunes the command dispatcher.
type CommandsConfig struct {
	// AllowOverlappingUploads permits a second upload while one is in flight.
	AllowOverlappingUploads bool `koanf:"allow_overlapping_uploads"`
}

// ExportConfig controls where exported artifacts are saved.
type ExportConfig struct {
	Dir string `koanf:"dir"`
}

// ServerConfig holds the dashboard HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// Addr returns host:port for http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}
