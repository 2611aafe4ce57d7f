// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package controller

import (
	"context"

	"github.com/tomtom215/bgpwatch/internal/commands"
)

// NotificationPump forwards dispatcher notifications to the broadcaster.
// It implements suture.Service.
type NotificationPump struct {
	notifications <-chan commands.Notification
	hub           Broadcaster
}

// NewNotificationPump creates a pump from dispatcher to hub.
func NewNotificationPump(dispatcher *commands.Dispatcher, hub Broadcaster) *NotificationPump {
	return &NotificationPump{notifications: dispatcher.Notifications(), hub: hub}
}

// Serve forwards until ctx is cancelled.
func (p *NotificationPump) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n := <-p.notifications:
			p.hub.BroadcastNotification(n)
		}
	}
}

func (p *NotificationPump) String() string {
	return "notification-pump"
}
