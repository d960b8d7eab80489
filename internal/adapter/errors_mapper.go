// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-forum/models"
	"github.com/go-resty/resty/v2"
)

var statusKinds = map[int]error{
	http.StatusBadRequest:          ErrBadRequest,
	http.StatusUnauthorized:        ErrUnauthorized,
	http.StatusNotFound:            ErrNotFound,
	http.StatusConflict:            ErrConflict,
	http.StatusTooManyRequests:     ErrTooManyRequests,
	http.StatusInternalServerError: ErrInternalServerError,
}

// mapHTTPError returns nil for 2xx responses and an [*APIError] otherwise.
// Bodies that are not an error envelope are kept verbatim as the message.
func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	apiErr := &APIError{
		Status: resp.StatusCode(),
		kind:   statusKinds[resp.StatusCode()],
	}

	var envelope models.ErrorEnvelope
	if err := json.Unmarshal(resp.Body(), &envelope); err == nil && envelope.Message != "" {
		apiErr.Message = envelope.Message
		apiErr.Fields = envelope.Errors
		return apiErr
	}

	apiErr.Message = strings.TrimSpace(string(resp.Body()))
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode())
	}
	return apiErr
}
