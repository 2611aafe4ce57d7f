// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

/*
Package supervisor runs the long-lived BGPWatch services under a suture v4
tree.

	root ("bgpwatch")
	├── feed-layer
	│   ├── EmbeddedNATSService (feed.transport=nats, nats_embedded=true)
	│   └── FeedService (Socket.IO or NATS alert stream)
	├── messaging-layer
	│   ├── websocket.Hub
	│   └── controller.NotificationPump
	└── api-layer
	    └── HTTPServerService

A feed that keeps failing is restarted with backoff inside its own layer;
browsers stay connected to the hub and the API keeps serving the alerts
already received.

Supervisor events are logged through sutureslog, which writes to the
zerolog stream via logging.NewSlogLogger:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddFeedService(services.NewFeedService(feed))
	tree.AddMessagingService(hub)
	tree.AddAPIService(services.NewHTTPServerService(srv, 10*time.Second))
	return tree.Serve(ctx)
*/
package supervisor
