// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package api

import (
	"net/http"

	"github.com/tomtom215/bgpwatch/internal/logging"
	"github.com/tomtom215/bgpwatch/internal/models"
)

// FilterRequest selects a category. An empty category selects All.
type FilterRequest struct {
	Category string `json:"category" validate:"max=128"`
}

// Alerts returns the visible rows for ?category=, or for the selected
// filter when the parameter is absent.
func (h *Handler) Alerts(w http.ResponseWriter, r *http.Request) {
	view := h.session.View(r.URL.Query().Get("category"))
	respondCached(w, r, view, h.session.Store().Len())
}

// Categories lists the known categories with All first.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	respondCached(w, r, h.session.Categories(), h.session.Store().Len())
}

// Summary aggregates the visible rows for ?category=.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	respondCached(w, r, h.session.Summary(r.URL.Query().Get("category")), h.session.Store().Len())
}

// SelectFilter sets the session filter and returns the new view.
func (h *Handler) SelectFilter(w http.ResponseWriter, r *http.Request) {
	var req FilterRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	selected := h.session.SelectCategory(req.Category)
	logging.Ctx(r.Context()).Debug().Str("category", sanitizeLogValue(selected)).Msg("Filter selected")
	respondSuccess(w, h.session.View(selected), h.session.Store().Len())
}

// ResetFilter selects All.
func (h *Handler) ResetFilter(w http.ResponseWriter, r *http.Request) {
	h.session.ResetFilter()
	respondSuccess(w, h.session.View(models.CategoryAll), h.session.Store().Len())
}
