// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-forum/internal/service"
	"github.com/MKhiriev/go-forum/internal/utils"
	"github.com/MKhiriev/go-forum/internal/validators"
	"github.com/stretchr/testify/assert"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{name: "invalid json", err: fmt.Errorf("%w: unexpected EOF", utils.ErrInvalidJSON), wantStatus: http.StatusBadRequest, wantMessage: "invalid JSON was passed"},
		{name: "validation", err: service.ErrValidationFailed, wantStatus: http.StatusBadRequest, wantMessage: "validation failed"},
		{name: "username taken", err: service.ErrUsernameTaken, wantStatus: http.StatusConflict, wantMessage: "username already in use"},
		{name: "email taken", err: fmt.Errorf("register: %w", service.ErrEmailTaken), wantStatus: http.StatusConflict, wantMessage: "email already in use"},
		{name: "bare conflict", err: service.ErrConflict, wantStatus: http.StatusConflict, wantMessage: "conflict"},
		{name: "invalid credentials", err: service.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized, wantMessage: "authentication failed"},
		{name: "lockout looks like bad credentials", err: service.ErrLoginLocked, wantStatus: http.StatusUnauthorized, wantMessage: "authentication failed"},
		{name: "expired refresh token", err: service.ErrRefreshTokenExpired, wantStatus: http.StatusUnauthorized, wantMessage: "authentication failed"},
		{name: "missing header", err: ErrEmptyAuthorizationHeader, wantStatus: http.StatusUnauthorized, wantMessage: "authentication failed"},
		{name: "malformed header", err: utils.ErrInvalidAuthorizationHeader, wantStatus: http.StatusUnauthorized, wantMessage: "authentication failed"},
		{name: "rate limit", err: ErrRateLimitExceeded, wantStatus: http.StatusTooManyRequests, wantMessage: "too many requests"},
		{name: "not found", err: ErrRouteNotFound, wantStatus: http.StatusNotFound, wantMessage: "not found"},
		{name: "deadline", err: fmt.Errorf("query: %w", context.DeadlineExceeded), wantStatus: http.StatusGatewayTimeout, wantMessage: "request timed out"},
		{name: "configuration fault", err: service.ErrDefaultRoleMissing, wantStatus: http.StatusInternalServerError, wantMessage: "internal server error"},
		{name: "unknown", err: errors.New("pq: relation does not exist"), wantStatus: http.StatusInternalServerError, wantMessage: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := statusFromError(tt.err)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMessage, message)
		})
	}
}

func TestFieldErrorsFromError(t *testing.T) {
	fields := map[string]string{"email": "must be a valid email address"}

	assert.Equal(t, fields, fieldErrorsFromError(fmt.Errorf("%w: %w", service.ErrValidationFailed, &validators.ValidationError{Fields: fields})))
	assert.Nil(t, fieldErrorsFromError(service.ErrValidationFailed))
	assert.Nil(t, fieldErrorsFromError(&validators.ValidationError{}))
}

func TestWriteError_Envelope(t *testing.T) {
	h := newTestHandler()
	rr := httptest.NewRecorder()

	h.writeError(rr, httptest.NewRequest(http.MethodGet, "/", nil), service.ErrInvalidAccessToken)

	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	envelope := decodeEnvelope(t, rr)
	assert.Equal(t, http.StatusUnauthorized, envelope.Status)
	assert.Equal(t, "authentication failed", envelope.Message)
	assert.Empty(t, envelope.Errors)
	assert.NotContains(t, rr.Body.String(), "access token")
}
