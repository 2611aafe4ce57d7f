// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

/*
Package websocket pushes live dashboard updates to browser clients.

It uses gorilla/websocket with a hub-client architecture:

	┌──────────┐
	│   Hub    │ ← BroadcastAlert / BroadcastNotification / BroadcastMode
	└────┬─────┘
	     │
	┌────┴─────┬─────────┬─────────┐
	│ Client1  │ Client2 │ Client3 │
	└──────────┴─────────┴─────────┘

Each client has a readPump (answers application-level pings, enforces the
pong deadline) and a writePump (serializes messages, sends protocol pings).

Message types:

  - snapshot: sent once on connect, {"alerts":[...],"mode":"normal"}
  - alert: one alert appended to the store
  - notification: outcome of a dispatched command
  - mode: display mode changed
  - pong: reply to a client {"type":"ping"}

Clients whose send buffer is full are dropped rather than slowing the hub.

Alert messages carry their store position. A client that started from a
snapshot never receives an alert the snapshot already holds, and a gap left
by a dropped broadcast is filled from the store backlog.

Usage:

	hub := websocket.NewHub()
	hub.SetSnapshot(func() (interface{}, int) {
	    snap := session.Snapshot()
	    return snap, snap.Seq
	})
	hub.SetBacklog(session.Store().Since)
	go hub.RunWithContext(ctx)

	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
	    websocket.ServeWS(hub, upgrader, w, r)
	})
*/
package websocket
