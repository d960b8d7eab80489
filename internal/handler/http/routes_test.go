// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_RegisteredRoutes(t *testing.T) {
	f := newHandlerFixture(t)

	registered := map[string]bool{}
	err := chi.Walk(f.router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		registered[method+" "+route] = true
		return nil
	})
	require.NoError(t, err)

	for _, want := range []string{
		"POST /api/auth/register",
		"POST /api/auth/login",
		"POST /api/auth/refresh",
		"POST /api/auth/logout",
		"GET /api/auth/me",
		"GET /api/health",
		"GET /api/version",
		"GET /metrics",
	} {
		assert.True(t, registered[want], "route %q is not registered", want)
	}
}

func TestInit_UnsupportedMethodAnswersNotFound(t *testing.T) {
	tests := []struct {
		method string
		path   string
	}{
		{method: http.MethodGet, path: "/api/auth/login"},
		{method: http.MethodPut, path: "/api/auth/register"},
		{method: http.MethodDelete, path: "/api/auth/logout"},
		{method: http.MethodPost, path: "/api/auth/me"},
		{method: http.MethodPost, path: "/api/health"},
		{method: http.MethodPatch, path: "/api/version"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			f := newHandlerFixture(t)

			rr := f.do(tt.method, tt.path, "", nil)

			require.Equal(t, http.StatusNotFound, rr.Code)
			assert.Equal(t, "not found", decodeEnvelope(t, rr).Message)
		})
	}
}

func TestInit_UnknownPath(t *testing.T) {
	f := newHandlerFixture(t)

	rr := f.do(http.MethodGet, "/api/users", "", nil)

	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "not found", decodeEnvelope(t, rr).Message)
}

func TestInit_TraceIDOnEveryResponse(t *testing.T) {
	f := newHandlerFixture(t)

	rr := f.do(http.MethodGet, "/api/health", "", map[string]string{traceIDHeader: "abc-123"})
	assert.Equal(t, "abc-123", rr.Header().Get(traceIDHeader))

	rr = f.do(http.MethodGet, "/nowhere", "", nil)
	assert.NotEmpty(t, rr.Header().Get(traceIDHeader))
}

func TestInit_MetricsEndpoint(t *testing.T) {
	f := newHandlerFixture(t)
	f.do(http.MethodGet, "/api/health", "", nil)

	rr := f.do(http.MethodGet, "/metrics", "", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "forum_http_requests_total")
}

func TestInit_RecoversFromPanics(t *testing.T) {
	f := newHandlerFixture(t)
	f.handler.services.AppInfoService = nil

	rr := f.do(http.MethodGet, "/api/version", "", nil)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
