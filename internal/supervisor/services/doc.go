// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

/*
Package services adapts BGPWatch components to suture.Service.

	FeedService            stream.Client.Run; transport errors restart it
	EmbeddedNATSService    in-process NATS broker for nats_embedded mode
	HTTPServerService      ListenAndServe with graceful Shutdown

The WebSocket hub and the notification pump implement Serve themselves and
are added to the tree directly.

Each Serve returns ctx.Err() after a requested shutdown and a wrapped error
on failure, so the supervisor restarts failures only.
*/
package services
