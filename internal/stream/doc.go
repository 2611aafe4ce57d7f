// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

/*
Package stream subscribes to the anomaly detector's alert feed.

Two transports implement Client:

  - SocketIOClient: the detector's native Socket.IO v4 push, spoken over a
    gorilla/websocket connection (Engine.IO protocol 4, websocket transport
    only). Alerts arrive as named events, by default "alert".
  - NATSClient: a NATS core subscription, by default on "bgp.alerts",
    carrying the bare alert JSON.

Each client delivers alerts to at most one Consumer, sequentially and in
arrival order, from a single goroutine. Subscribe replaces the previous
consumer rather than adding a second one:

	client := stream.NewSocketIOClient(stream.SocketIOConfig{URL: cfg.Feed.URL})
	unsubscribe := client.Subscribe(store.Append)
	defer unsubscribe()
	if err := client.Start(ctx); err != nil { ... }
	defer client.Stop()

Disconnects are retried with exponential backoff from 1s up to the
configured maximum (32s by default). Malformed frames and invalid alert
payloads are logged and counted, never delivered.
*/
package stream
