// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package models

import "github.com/tomtom215/bgpwatch/internal/validation"

// RemediationRequest asks the healing backend to re-route a prefix.
type RemediationRequest struct {
	Prefix  string `json:"prefix" validate:"required,cidr"`
	NextHop string `json:"next_hop" validate:"required,ip"`
}

// Validate checks that Prefix is a CIDR and NextHop an IP address.
func (r *RemediationRequest) Validate() error {
	if verr := validation.ValidateStruct(r); verr != nil {
		return verr
	}
	return nil
}

// RemediationResponse is the backend's reply. Message is shown to the
// operator verbatim; Error is populated on 4xx replies.
type RemediationResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
