// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package api

import (
	"net/http"
	"time"

	gorillaws "github.com/gorilla/websocket"

	"github.com/tomtom215/bgpwatch/internal/config"
	"github.com/tomtom215/bgpwatch/internal/controller"
	"github.com/tomtom215/bgpwatch/internal/logging"
	ws "github.com/tomtom215/bgpwatch/internal/websocket"
)

// FeedStatus reports whether the alert feed is connected.
type FeedStatus interface {
	IsConnected() bool
	String() string
}

// BreakerStatus reports the backend circuit breaker state.
type BreakerStatus interface {
	State() string
}

// Handler serves the dashboard session over HTTP.
type Handler struct {
	session   *controller.Session
	hub       *ws.Hub
	config    *config.Config
	upgrader  *gorillaws.Upgrader
	feed      FeedStatus
	breaker   BreakerStatus
	startTime time.Time
}

// NewHandler creates a handler. cfg may be nil in tests, in which case
// every WebSocket origin is accepted.
func NewHandler(session *controller.Session, hub *ws.Hub, cfg *config.Config) *Handler {
	h := &Handler{
		session:   session,
		hub:       hub,
		config:    cfg,
		startTime: time.Now(),
	}
	h.upgrader = &gorillaws.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
	return h
}

// SetFeed wires the feed whose connection state gates readiness.
func (h *Handler) SetFeed(feed FeedStatus) {
	h.feed = feed
}

// SetBreaker wires the backend circuit breaker reported by readiness.
func (h *Handler) SetBreaker(b BreakerStatus) {
	h.breaker = b
}

// checkWebSocketOrigin validates WebSocket connection origins.
// Browsers always send Origin, so an empty one is rejected.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	if h.config == nil {
		return true
	}

	for _, allowed := range h.config.Server.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}

// WebSocket upgrades to the push channel.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		respondError(w, http.StatusServiceUnavailable, "WS_UNAVAILABLE", "WebSocket hub not running", nil)
		return
	}
	ws.ServeWS(h.hub, h.upgrader, w, r)
}
