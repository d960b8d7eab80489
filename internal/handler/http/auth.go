// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-forum/internal/utils"
	"github.com/MKhiriev/go-forum/models"
)

// register creates an account and answers 201 with a fresh token pair.
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var request models.RegisterRequest
	if err := utils.DecodeJSON(w, r, &request); err != nil {
		h.writeError(w, r, err)
		return
	}

	pair, err := h.services.AuthService.Register(r.Context(), request)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeTokenPair(w, r, pair, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var request models.LoginRequest
	if err := utils.DecodeJSON(w, r, &request); err != nil {
		h.writeError(w, r, err)
		return
	}

	pair, err := h.services.AuthService.Login(r.Context(), request)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeTokenPair(w, r, pair, http.StatusOK)
}

// refresh rotates a refresh token: the presented one is revoked and a new
// pair is returned.
func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var request models.RefreshRequest
	if err := utils.DecodeJSON(w, r, &request); err != nil {
		h.writeError(w, r, err)
		return
	}

	pair, err := h.services.AuthService.Refresh(r.Context(), request)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeTokenPair(w, r, pair, http.StatusOK)
}

// logout revokes the presented refresh token. Unknown or already revoked
// tokens still answer 204.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	var request models.RefreshRequest
	if err := utils.DecodeJSON(w, r, &request); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.services.AuthService.Logout(r.Context(), request); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// me describes the caller resolved by the auth middleware.
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	principal, ok := utils.GetPrincipalFromContext(r.Context())
	if !ok {
		h.writeError(w, r, errNoPrincipalInContext)
		return
	}

	authorities := principal.Authorities
	if authorities == nil {
		authorities = []string{}
	}

	h.writeJSON(w, r, models.PrincipalResponse{
		UserID:      principal.UserID,
		Username:    principal.Username,
		Authorities: authorities,
	}, http.StatusOK)
}

// writeTokenPair sends a token pair with caching disabled.
func (h *Handler) writeTokenPair(w http.ResponseWriter, r *http.Request, pair models.TokenPair, status int) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	h.writeJSON(w, r, pair, status)
}
