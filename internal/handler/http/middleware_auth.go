// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-forum/internal/logger"
	"github.com/MKhiriev/go-forum/internal/utils"
	"github.com/rs/zerolog"
)

// auth is an HTTP middleware that enforces bearer-token authentication.
//
// It extracts the token from the "Authorization" header, resolves it via
// [service.AuthService.Authenticate] and stores the resulting principal in
// the request context with [utils.WithPrincipal]. The request logger is
// enriched with the caller's user id.
//
// Every rejection answers 401 with the same message, whether the header is
// missing, malformed, the token is invalid or expired, or the account is
// gone or disabled.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			h.writeError(w, r, ErrEmptyAuthorizationHeader)
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			h.writeError(w, r, err)
			return
		}

		ctx := r.Context()
		principal, err := h.services.AuthService.Authenticate(ctx, tokenString)
		if err != nil {
			h.writeError(w, r, err)
			return
		}

		log := logger.FromRequest(r)
		log.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Int64("user_id", principal.UserID)
		})

		ctx = utils.WithPrincipal(log.WithContext(ctx), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
