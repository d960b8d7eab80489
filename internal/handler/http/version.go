// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
)

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	buildInfo := h.services.AppInfoService.GetAppInfo(r.Context())

	h.writeJSON(w, r, buildInfo, http.StatusOK)
}

// health is a liveness probe. It does not touch the storage.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
