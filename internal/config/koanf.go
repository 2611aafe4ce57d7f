// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists config file locations in priority order.
// The first file found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/bgpwatch/config.yaml",
	"/etc/bgpwatch/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the built-in defaults. They are applied first, then
// overridden by the config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Feed: FeedConfig{
			Transport:         TransportSocketIO, // Detector's native transport
			URL:               "http://localhost:5000",
			Event:             "alert",
			NATSURL:           "nats://127.0.0.1:4222",
			NATSSubject:       "bgp.alerts",
			NATSEmbeddedPort:  4222, // Only used when NATSEmbedded is set
			HandshakeTimeout:  10 * time.Second,
			MaxReconnectDelay: 32 * time.Second, // Backoff doubles from 1s up to this cap
		},
		Backend: BackendConfig{
			URL:                "http://localhost:5000",
			UploadPath:         "/upload",
			DownloadPath:       "/download/sample",
			HealPath:           "/trigger-heal",
			Timeout:            30 * time.Second,
			BreakerMaxRequests: 3,                // Probes in half-open state
			BreakerTimeout:     30 * time.Second, // Open -> half-open delay
		},
		Remediation: RemediationConfig{
			DefaultPrefix:  "192.168.1.0/24",
			DefaultNextHop: "192.168.1.1",
		},
		Commands: CommandsConfig{
			AllowOverlappingUploads: false, // A second upload is rejected while one is in flight
		},
		Export: ExportConfig{
			Dir: "exports", // Empty disables saving; artifacts are still streamed
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Timeout:         30 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100, // Per client IP per window; <= 0 disables limiting
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in values from defaultConfig
//  2. Config File: optional YAML file (CONFIG_PATH or DefaultConfigPaths)
//  3. Environment Variables: override any mapped setting
//
// Precedence is ENV > File > Defaults. The merged result is validated before
// it is returned.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// Transform environment variable names to koanf paths:
	// FEED_URL -> feed.url
	// HTTP_PORT -> server.port
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	// Unmarshal into Config struct
	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	// Check environment variable first; a missing file falls through to the
	// default paths
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	// Search default paths
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are split on commas when they arrive as a single string.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for
// the paths in sliceConfigPaths. Environment variables always arrive as
// strings; YAML lists are already slices and are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		// "a, b,,c" -> [a b c]
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
// Names are flat: HTTP_PORT, not SERVER_PORT.
var envMappings = map[string]string{
	// Alert feed
	"feed_transport":           "feed.transport",
	"feed_url":                 "feed.url",
	"feed_event":               "feed.event",
	"nats_url":                 "feed.nats_url",
	"nats_subject":             "feed.nats_subject",
	"nats_embedded":            "feed.nats_embedded",
	"nats_embedded_port":       "feed.nats_embedded_port",
	"feed_handshake_timeout":   "feed.handshake_timeout",
	"feed_max_reconnect_delay": "feed.max_reconnect_delay",

	// Remediation backend and its breaker
	"backend_url":                  "backend.url",
	"backend_upload_path":          "backend.upload_path",
	"backend_download_path":        "backend.download_path",
	"backend_heal_path":            "backend.heal_path",
	"backend_timeout":              "backend.timeout",
	"backend_breaker_max_requests": "backend.breaker_max_requests",
	"backend_breaker_timeout":      "backend.breaker_timeout",

	// Parameters for voice-triggered self-heal
	"remediation_default_prefix":   "remediation.default_prefix",
	"remediation_default_next_hop": "remediation.default_next_hop",

	"allow_overlapping_uploads": "commands.allow_overlapping_uploads",

	"export_dir": "export.dir",

	// HTTP server
	"http_host":         "server.host",
	"http_port":         "server.port",
	"server_timeout":    "server.timeout",
	"cors_origins":      "server.cors_origins",
	"rate_limit_reqs":   "server.rate_limit_reqs",
	"rate_limit_window": "server.rate_limit_window",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to its koanf path.
// Unmapped variables return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
