// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-forum/internal/logger"
)

// CheckHTTPMethod returns an [http.HandlerFunc] intended to be registered as
// the router's MethodNotAllowed handler via [chi.Mux.MethodNotAllowed].
//
// Chi responds with 405 Method Not Allowed whenever a request path matches a
// registered route but the method is not handled. This handler answers
// with notFound instead, hiding the existence of the route from callers
// that use an unsupported method.
//
// Chi propagates the handler to sub-routers created with Route, so a
// single registration on the root router covers every route group.
//
// Usage:
//
//	router := chi.NewRouter()
//	// ... register routes ...
//	router.MethodNotAllowed(CheckHTTPMethod(h.notFound))
func CheckHTTPMethod(notFound http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.FromRequest(r).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("unsupported method for registered route")

		notFound(w, r)
	}
}
