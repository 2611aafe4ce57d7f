// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

/*
Package metrics holds the Prometheus collectors for BGPWatch.

Collectors are registered with the default registry through promauto and
exposed at /metrics by the API router.

Feed:
  - bgpwatch_alerts_received_total{category}
  - bgpwatch_alerts_rejected_total{reason}
  - bgpwatch_feed_connected{transport} (0/1)
  - bgpwatch_feed_reconnects_total{transport}

Commands:
  - bgpwatch_commands_total{intent,result}
  - bgpwatch_command_duration_seconds{intent}
  - bgpwatch_upload_in_flight

Backend circuit breaker:
  - circuit_breaker_state{name} (0=closed, 1=half-open, 2=open)
  - circuit_breaker_requests_total{name,result}
  - circuit_breaker_consecutive_failures{name}
  - circuit_breaker_state_transitions_total{name,from_state,to_state}

Dashboard:
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests
  - websocket_connections
  - websocket_messages_sent_total
  - websocket_errors_total{error_type}
*/
package metrics
