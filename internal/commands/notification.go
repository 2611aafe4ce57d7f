// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package commands

import (
	"time"

	"github.com/google/uuid"
)

// Command names used in notifications, logs and metrics.
const (
	CommandUpload      = "upload"
	CommandDownload    = "download"
	CommandTriggerHeal = "trigger_heal"
	CommandExportCSV   = "export_csv"
	CommandExportPDF   = "export_pdf"
	CommandToggleMode  = "toggle_mode"
)

// Notification is the user-visible outcome of one command.
type Notification struct {
	ID        string    `json:"id"`
	Command   string    `json:"command"`
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`

	// Err is the classified failure; nil on success.
	Err error `json:"-"`
}

func newNotification(id, command string) Notification {
	if id == "" {
		id = uuid.NewString()
	}
	return Notification{ID: id, Command: command, Timestamp: time.Now().UTC()}
}

func (n Notification) succeed(message string) Notification {
	n.Success = true
	n.Message = message
	return n
}

func (n Notification) fail(err error) Notification {
	n.Success = false
	n.Err = err
	n.Message = userMessage(err)
	return n
}
