// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

// Package models defines the data shapes shared across BGPWatch: alerts as
// delivered by the anomaly detector, remediation requests and responses sent to
// the healing backend, and the JSON envelope used by the dashboard API.
package models
