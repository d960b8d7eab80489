// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/MKhiriev/go-forum/internal/logger"
	"github.com/MKhiriev/go-forum/internal/service"
	"github.com/MKhiriev/go-forum/internal/utils"
	"github.com/MKhiriev/go-forum/internal/validators"
	"github.com/MKhiriev/go-forum/models"
)

const (
	msgValidationFailed     = "validation failed"
	msgAuthenticationFailed = "authentication failed"
	msgInternalError        = "internal server error"
	msgRequestTimedOut      = "request timed out"
)

// errorRule maps a sentinel to a status and a client-safe message. An empty
// message means the sentinel text itself is safe to expose.
type errorRule struct {
	target  error
	status  int
	message string
}

// errorRules are checked in order; the first match wins, so detail errors
// precede the category they wrap.
var errorRules = []errorRule{
	{target: utils.ErrInvalidJSON, status: http.StatusBadRequest},
	{target: service.ErrValidationFailed, status: http.StatusBadRequest, message: msgValidationFailed},

	{target: service.ErrUsernameTaken, status: http.StatusConflict, message: "username already in use"},
	{target: service.ErrEmailTaken, status: http.StatusConflict, message: "email already in use"},
	{target: service.ErrConflict, status: http.StatusConflict},

	{target: service.ErrAuthenticationFailed, status: http.StatusUnauthorized, message: msgAuthenticationFailed},
	{target: ErrEmptyAuthorizationHeader, status: http.StatusUnauthorized, message: msgAuthenticationFailed},
	{target: utils.ErrInvalidAuthorizationHeader, status: http.StatusUnauthorized, message: msgAuthenticationFailed},

	{target: ErrRateLimitExceeded, status: http.StatusTooManyRequests},
	{target: ErrRouteNotFound, status: http.StatusNotFound},
	{target: context.DeadlineExceeded, status: http.StatusGatewayTimeout, message: msgRequestTimedOut},
}

// statusFromError resolves the response status and message for err.
// Unknown errors, configuration faults included, become an opaque 500.
func statusFromError(err error) (int, string) {
	for _, rule := range errorRules {
		if errors.Is(err, rule.target) {
			if rule.message == "" {
				return rule.status, rule.target.Error()
			}
			return rule.status, rule.message
		}
	}
	return http.StatusInternalServerError, msgInternalError
}

// fieldErrorsFromError extracts per-field messages of a failed validation.
func fieldErrorsFromError(err error) map[string]string {
	var validationErr *validators.ValidationError
	if errors.As(err, &validationErr) && len(validationErr.Fields) > 0 {
		return validationErr.Fields
	}
	return nil
}

// writeError renders err as a [models.ErrorEnvelope]. Server-side failures
// are logged at error level, client failures at debug level.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := statusFromError(err)

	log := logger.FromRequest(r)
	if status >= http.StatusInternalServerError {
		log.Err(err).Int("status", status).Msg("request failed")
	} else {
		log.Debug().Err(err).Int("status", status).Msg("request rejected")
	}

	envelope := models.NewErrorEnvelope(status, message, fieldErrorsFromError(err))
	if _, writeErr := utils.WriteJSON(w, envelope, status); writeErr != nil {
		log.Err(writeErr).Msg("error writing error response")
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, data any, status int) {
	if _, err := utils.WriteJSON(w, data, status); err != nil {
		logger.FromRequest(r).Err(err).Msg("error writing response")
	}
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, r, ErrRouteNotFound)
}
