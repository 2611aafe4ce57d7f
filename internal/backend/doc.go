// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

/*
Package backend talks to the remediation service that sits next to the
anomaly detector.

Three endpoints are used, paths configurable under backend.*:

	POST {url}/upload           multipart/form-data, single field "file"
	GET  {url}/download/sample  opaque bytes, saved as "sample_file"
	POST {url}/trigger-heal     {"prefix": "...", "next_hop": "..."}

Successful replies carry {"message": "..."}; 4xx replies carry
{"error": "..."} and are returned as *StatusError.

CircuitBreakerClient wraps Client with sony/gobreaker. Network errors and
5xx replies count as failures; 4xx replies do not, since they describe the
request rather than the health of the service.
*/
package backend
