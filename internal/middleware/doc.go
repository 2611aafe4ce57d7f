// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

/*
Package middleware provides the HTTP middleware shared by the dashboard API.

  - RequestID: X-Request-ID propagation into the response header and the
    logging context (logging.Ctx picks it up).
  - PrometheusMetrics: request count, duration and in-flight gauge, labeled
    by chi route pattern so path parameters do not explode cardinality.
  - AccessLog: one zerolog line per request at debug level.

All wrappers use chi's WrapResponseWriter, which keeps http.Hijacker and
http.Flusher available for the WebSocket upgrade.

Usage:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)
*/
package middleware
