// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package commands

import (
	"errors"
	"fmt"

	"github.com/tomtom215/bgpwatch/internal/backend"
)

// ErrNoFileSelected is the cause of an upload without a selected file.
var ErrNoFileSelected = errors.New("no file selected")

// ErrUploadInFlight is the cause of an upload rejected while another runs.
var ErrUploadInFlight = errors.New("upload already in progress")

// ValidationError means a command was refused before any external call.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// TransportError means the external call failed or was refused.
// StatusCode is set when the backend replied.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError means the backend replied successfully with an unreadable body.
type ParseError struct {
	Op  string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: malformed response: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// classify maps a backend error into the command taxonomy.
func classify(op string, err error) error {
	var de *backend.DecodeError
	if errors.As(err, &de) {
		return &ParseError{Op: op, Err: err}
	}
	te := &TransportError{Op: op, Err: err}
	var se *backend.StatusError
	if errors.As(err, &se) {
		te.StatusCode = se.StatusCode
	}
	return te
}

// userMessage is the operator-facing text for a failed command.
func userMessage(err error) string {
	var se *backend.StatusError
	switch {
	case errors.As(err, &se) && se.Message != "":
		return se.Message
	case backend.IsRejected(err):
		return "Remediation backend is unavailable, try again shortly"
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	return err.Error()
}
