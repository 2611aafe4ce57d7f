// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Feed Metrics
	AlertsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bgpwatch_alerts_received_total",
			Help: "Total number of alerts appended to the store",
		},
		[]string{"category"},
	)

	AlertsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bgpwatch_alerts_rejected_total",
			Help: "Total number of feed payloads dropped before reaching the store",
		},
		[]string{"reason"}, // "decode", "invalid", "frame"
	)

	FeedConnected = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bgpwatch_feed_connected",
			Help: "Whether the alert feed is connected (1) or not (0)",
		},
		[]string{"transport"},
	)

	FeedReconnects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bgpwatch_feed_reconnects_total",
			Help: "Total number of alert feed reconnect attempts",
		},
		[]string{"transport"},
	)

	// Command Metrics
	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bgpwatch_commands_total",
			Help: "Total number of dispatched commands",
		},
		[]string{"intent", "result"}, // result: "success", "failure"
	)

	CommandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bgpwatch_command_duration_seconds",
			Help:    "Duration of dispatched commands in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"intent"},
	)

	UploadInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bgpwatch_upload_in_flight",
			Help: "Number of uploads currently in flight",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAlert counts one alert appended to the store.
func RecordAlert(category string) {
	AlertsReceived.WithLabelValues(category).Inc()
}

// RecordRejectedAlert counts one payload dropped by the feed.
func RecordRejectedAlert(reason string) {
	AlertsRejected.WithLabelValues(reason).Inc()
}

// SetFeedConnected records the feed connection state.
func SetFeedConnected(transport string, connected bool) {
	v := 0.0
	if connected {
		v = 1
	}
	FeedConnected.WithLabelValues(transport).Set(v)
}

// RecordFeedReconnect counts one reconnect attempt.
func RecordFeedReconnect(transport string) {
	FeedReconnects.WithLabelValues(transport).Inc()
}

// RecordCommand records the outcome and duration of a dispatched command.
func RecordCommand(intent string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	CommandsTotal.WithLabelValues(intent, result).Inc()
	CommandDuration.WithLabelValues(intent).Observe(duration.Seconds())
}

// TrackUploadInFlight adjusts the in-flight upload gauge.
func TrackUploadInFlight(inc bool) {
	if inc {
		UploadInFlight.Inc()
	} else {
		UploadInFlight.Dec()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the active API request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
