// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

// Package validation wraps go-playground/validator v10 with a process-wide
// singleton and human-readable error messages.
//
// It validates inbound alert payloads (confidence score range, non-empty
// category), remediation requests (CIDR prefix, IP next hop) and API request
// bodies:
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
package validation
