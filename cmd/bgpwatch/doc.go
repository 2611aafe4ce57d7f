// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

/*
Command bgpwatch runs the BGP alert dashboard controller.

It subscribes to the anomaly detector's alert stream (Socket.IO or NATS),
keeps the received alerts in memory, and serves them to browsers over a
chi HTTP API and a WebSocket push channel. Operator commands (upload,
download, self-heal, CSV/PDF export, display mode, voice) are forwarded to
the remediation backend behind a circuit breaker.

	root ("bgpwatch")
	├── feed-layer       embedded NATS (optional), alert feed
	├── messaging-layer  WebSocket hub, notification pump
	└── api-layer        HTTP server

Configuration is loaded with koanf from defaults, an optional YAML file and
the environment (see package config):

	FEED_TRANSPORT=socketio|nats
	FEED_URL=http://detector:5000
	NATS_URL=nats://127.0.0.1:4222
	NATS_EMBEDDED=true
	BACKEND_URL=http://remediation:5000
	EXPORT_DIR=exports
	HTTP_PORT=8080
	LOG_LEVEL=info
	LOG_FORMAT=json

SIGINT or SIGTERM stops the tree; every service gets ShutdownTimeout to
drain.
*/
package main
