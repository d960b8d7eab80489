// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Init builds the router with all middleware and routes mounted.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(h.withMetrics)
	if h.requestTimeout > 0 {
		router.Use(middleware.Timeout(h.requestTimeout))
	}

	router.Get("/api/health", h.health)
	router.Get("/api/version", h.getServerVersion)
	router.Method("GET", "/metrics", promhttp.Handler())

	router.Route("/api/auth", func(r chi.Router) {
		r.Use(h.withRateLimit)

		// routes without authorization
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Post("/refresh", h.refresh)
		r.Post("/logout", h.logout)

		// routes with authorization
		r.With(h.auth).Get("/me", h.me)
	})

	router.NotFound(h.notFound)
	router.MethodNotAllowed(CheckHTTPMethod(h.notFound))

	return router
}
