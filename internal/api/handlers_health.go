// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/bgpwatch/internal/models"
)

// HealthLive always answers 200 while the process serves HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// HealthReady answers 200 once the alert feed is connected, 503 otherwise.
// An open breaker degrades commands but not the dashboard, so it is
// reported without affecting readiness.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	feedConnected := h.feed != nil && h.feed.IsConnected()

	statusCode := http.StatusOK
	status := "ready"
	if !feedConnected {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	data := map[string]interface{}{
		"feed_connected": feedConnected,
		"ready_to_serve": feedConnected,
		"alerts":         h.session.Store().Len(),
		"uptime":         time.Since(h.startTime).Seconds(),
	}
	if h.feed != nil {
		data["feed"] = h.feed.String()
	}
	if h.breaker != nil {
		data["backend_breaker"] = h.breaker.State()
	}
	if h.hub != nil {
		data["ws_clients"] = h.hub.GetClientCount()
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status:   status,
		Data:     data,
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}
