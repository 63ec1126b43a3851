// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/vigil/internal/auth"
	"github.com/tomtom215/vigil/internal/middleware"
)

// NewRouter wires every route.
//
//	GET  /health                      capabilities and load
//	GET  /metrics                     Prometheus exposition
//	GET  /ws                          session WebSocket (authenticated)
//	GET  /api/v1/sessions             live sessions (authenticated, rate limited)
//	POST /api/v1/sessions/{id}/scan   manual scan request (authenticated, rate limited)
func NewRouter(h *Handler, authenticator auth.Authenticator) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(h.mw.CORS())
	r.Use(middleware.PrometheusMetrics)

	requireAuth := auth.Middleware(authenticator)

	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.With(requireAuth).Get("/ws", h.WebSocket)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(h.mw.RateLimit())
		r.Use(requireAuth)

		r.Get("/sessions", h.ListSessions)
		r.Post("/sessions/{id}/scan", h.RequestScan)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})
	return r
}
