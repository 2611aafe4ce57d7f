// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/bgpwatch/internal/middleware"
)

// Router binds a Handler to its routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. mw may be nil for default middleware settings.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// SetupChi builds the HTTP handler.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		r.Get("/health/live", router.handler.HealthLive)
		r.Get("/health/ready", router.handler.HealthReady)

		// The WebSocket is long-lived; it is not rate limited per message.
		r.Get("/ws", router.handler.WebSocket)

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())

			r.Get("/alerts", router.handler.Alerts)
			r.Get("/categories", router.handler.Categories)
			r.Get("/summary", router.handler.Summary)
			r.Put("/filter", router.handler.SelectFilter)
			r.Delete("/filter", router.handler.ResetFilter)

			r.Get("/file", router.handler.SelectedFile)
			r.Post("/file", router.handler.SelectFile)
			r.Delete("/file", router.handler.ClearFile)

			r.Post("/upload", router.handler.Upload)
			r.Post("/download", router.handler.Download)
			r.Post("/heal", router.handler.TriggerHeal)

			r.Get("/export/csv", router.handler.ExportCSV)
			r.Get("/export/pdf", router.handler.ExportPDF)

			r.Get("/mode", router.handler.Mode)
			r.Post("/mode/toggle", router.handler.ToggleMode)

			r.Post("/voice", router.handler.Voice)
		})
	})

	return r
}
