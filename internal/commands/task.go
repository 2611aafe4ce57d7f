// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package commands

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// UploadTask is a selected local file waiting to be uploaded.
// The content is held in memory so a failed upload can be retried.
type UploadTask struct {
	ID       string
	Filename string
	Data     []byte

	inFlight atomic.Bool
}

// NewUploadTask selects a file for upload.
func NewUploadTask(filename string, data []byte) *UploadTask {
	return &UploadTask{ID: uuid.NewString(), Filename: filename, Data: data}
}

// HasFile reports whether a file is selected.
func (t *UploadTask) HasFile() bool {
	return t != nil && t.Filename != ""
}

// InFlight reports whether the task's upload request is outstanding.
func (t *UploadTask) InFlight() bool {
	return t != nil && t.inFlight.Load()
}
