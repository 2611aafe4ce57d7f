// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

/*
Package config loads BGPWatch configuration with Koanf v2.

Sources are layered, later layers overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, ./config.yaml or /etc/bgpwatch/config.yaml
 3. Environment variables, mapped explicitly by envTransformFunc

Unknown environment variables are ignored so that the process environment
cannot leak into the configuration tree.

Example config.yaml:

	feed:
	  transport: socketio
	  url: http://detector:5000
	backend:
	  url: http://remediator:5000
	remediation:
	  default_prefix: 192.168.1.0/24
	  default_next_hop: 192.168.1.1
	server:
	  port: 8080

Equivalent environment:

	FEED_TRANSPORT=socketio
	FEED_URL=http://detector:5000
	BACKEND_URL=http://remediator:5000
	HTTP_PORT=8080
*/
package config
