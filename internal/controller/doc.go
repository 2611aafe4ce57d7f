// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

/*
Package controller holds the dashboard session: the alert store, the
category filter, the selected upload file, the voice transcript buffer and
the command dispatcher, and fans their changes out to connected browsers.

Data flow:

	stream.Client ──Subscribe──▶ Session.onAlert ──▶ alerts.Store
	                                    │
	                                    └──▶ Broadcaster.BroadcastAlert

	HTTP / voice ──▶ Session.Upload/Download/... ──▶ commands.Dispatcher
	                                                      │
	                              NotificationPump ◀──────┘
	                                    │
	                                    └──▶ Broadcaster.BroadcastNotification

A Session is safe for concurrent use. Reads (View, Summary, Snapshot) work
on copies of the store contents.
*/
package controller
