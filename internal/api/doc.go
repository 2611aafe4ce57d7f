// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

/*
Package api serves the dashboard session over HTTP using the chi router.

Endpoints (all JSON responses use the models.APIResponse envelope):

	GET    /api/v1/health/live          liveness
	GET    /api/v1/health/ready         feed connected, breaker state
	GET    /api/v1/alerts?category=X    visible rows and known categories
	GET    /api/v1/categories           known categories, All first
	GET    /api/v1/summary?category=X   counts and confidence series
	PUT    /api/v1/filter               {"category": "..."}
	DELETE /api/v1/filter               select All
	GET    /api/v1/file                 selected upload file
	POST   /api/v1/file                 multipart "file": select for upload
	DELETE /api/v1/file                 clear the selection
	POST   /api/v1/upload               upload the selection (or a multipart "file")
	POST   /api/v1/download             fetch the sample file
	POST   /api/v1/heal                 {"prefix": "...", "next_hop": "..."}
	GET    /api/v1/export/csv           BGP_Alerts.csv attachment
	GET    /api/v1/export/pdf           BGP_Alerts.pdf attachment
	GET    /api/v1/mode                 display mode
	POST   /api/v1/mode/toggle          flip display mode
	POST   /api/v1/voice                {"transcript": "...", "partial": false}
	GET    /api/v1/ws                   WebSocket push (see package websocket)
	GET    /metrics                     Prometheus

Command endpoints map failures by kind: validation errors are 400, an open
circuit breaker is 503 and other backend failures are 502.

Middleware: request ID, access log, panic recovery, CORS (go-chi/cors), rate
limiting (go-chi/httprate), security headers and Prometheus metrics.
*/
package api
