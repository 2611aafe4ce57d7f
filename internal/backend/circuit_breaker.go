// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/bgpwatch/internal/config"
	"github.com/tomtom215/bgpwatch/internal/logging"
	"github.com/tomtom215/bgpwatch/internal/metrics"
	"github.com/tomtom215/bgpwatch/internal/models"
)

// BreakerName labels the backend breaker in logs and metrics.
const BreakerName = "remediation-backend"

var _ API = (*CircuitBreakerClient)(nil)

// CircuitBreakerClient wraps Client with a circuit breaker. While the
// remediation backend is unavailable, commands fail immediately rather than
// waiting out the HTTP timeout.
//
// Breaker states:
//   - closed: requests pass through; failures are counted
//   - open: requests are rejected with gobreaker.ErrOpenState (see IsRejected)
//   - half-open: up to MaxRequests probes pass; one failure reopens the
//     circuit, MaxRequests successes close it
//
// The breaker uses real time (via sony/gobreaker) for its interval and
// timeout. Tests that need to see it open drive consecutive failures rather
// than waiting on the clock.
type CircuitBreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// NewCircuitBreakerClient creates a breaker-protected backend client.
// Circuit breaker configuration:
//   - Opens after 5 consecutive failures
//   - cfg.BreakerMaxRequests probes in half-open state (1 when unset)
//   - 1 minute measurement window in closed state
//   - cfg.BreakerTimeout before attempting recovery (default 30s)
//   - 4xx replies count as successes: the backend answered
func NewCircuitBreakerClient(cfg *config.BackendConfig) *CircuitBreakerClient {
	client := NewClient(cfg)
	cbName := BreakerName

	// Initialize circuit breaker state metrics
	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbName).Set(0)

	maxRequests := cfg.BreakerMaxRequests
	if maxRequests == 0 {
		maxRequests = 1
	}
	timeout := cfg.BreakerTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: maxRequests, // Probes allowed in half-open state
		Interval:    time.Minute, // Reset counts after 1 minute in closed state
		Timeout:     timeout,     // Wait before transitioning from open to half-open

		// ReadyToTrip opens the circuit after 5 consecutive failures
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.ConsecutiveFailures < 5 {
				return false
			}
			logging.Warn().Uint32("consecutive_failures", counts.ConsecutiveFailures).Msg("[CIRCUIT BREAKER] Opening backend circuit")
			return true
		},

		// OnStateChange is called whenever the circuit breaker changes state
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			// Update metrics
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()

			// Reset consecutive failures when transitioning to closed
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},

		// IsSuccessful decides which errors count against the backend
		IsSuccessful: isBreakerSuccess,
	})

	return &CircuitBreakerClient{client: client, cb: cb, name: cbName}
}

// isBreakerSuccess treats client-side rejections as healthy replies.
// A 4xx StatusError means the backend is up and refused this request, so it
// is reported to the caller but does not move the breaker toward open.
// Transport errors, 5xx replies and undecodable bodies are failures.
func isBreakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return !se.Temporary()
	}
	return false
}

// IsRejected reports whether err came from an open or saturated breaker
// rather than from the backend.
func IsRejected(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// State returns the breaker state as "closed", "half-open" or "open".
func (cbc *CircuitBreakerClient) State() string {
	return stateToString(cbc.cb.State())
}

// execute wraps a backend call with circuit breaker protection.
// Returns the result, or an error if the circuit is open or the request fails.
func (cbc *CircuitBreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := cbc.cb.Execute(fn)

	// Update metrics based on result
	if err != nil {
		switch {
		case IsRejected(err):
			// Circuit is open or too many concurrent probes in half-open state
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
			logging.Warn().Err(err).Str("breaker", cbc.name).Msg("[CIRCUIT BREAKER] Request rejected")
		case isBreakerSuccess(err):
			// Backend answered with a client error
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
		default:
			// Request failed
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()
			counts := cbc.cb.Counts()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(float64(counts.ConsecutiveFailures))
		}
		return nil, err
	}

	// Request succeeded
	metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(0)
	return result, nil
}

// castResult safely type-casts the circuit breaker result with error checking.
// Returns typed result or error if type assertion fails.
func castResult[T any](result interface{}, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	typed, ok := result.(*T)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// stateToFloat maps breaker state to the circuit_breaker_state gauge:
// 0 = closed, 1 = half-open, 2 = open.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts breaker state to its log and label form.
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Upload posts a file through the breaker.
func (cbc *CircuitBreakerClient) Upload(ctx context.Context, filename string, content io.Reader) (*models.RemediationResponse, error) {
	return castResult[models.RemediationResponse](cbc.execute(func() (interface{}, error) {
		return cbc.client.Upload(ctx, filename, content)
	}))
}

// Download fetches the sample file through the breaker.
func (cbc *CircuitBreakerClient) Download(ctx context.Context) (*Download, error) {
	return castResult[Download](cbc.execute(func() (interface{}, error) {
		return cbc.client.Download(ctx)
	}))
}

// TriggerHeal posts a remediation request through the breaker.
func (cbc *CircuitBreakerClient) TriggerHeal(ctx context.Context, req models.RemediationRequest) (*models.RemediationResponse, error) {
	return castResult[models.RemediationResponse](cbc.execute(func() (interface{}, error) {
		return cbc.client.TriggerHeal(ctx, req)
	}))
}
