// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// ErrorEnvelope is the JSON body of every error response.
type ErrorEnvelope struct {
	// Status is the HTTP status code.
	Status int `json:"status"`

	// Message is a client-safe description of the failure.
	Message string `json:"message"`

	// Errors maps request fields to validation messages. Empty unless
	// validation failed.
	Errors map[string]string `json:"errors,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// NewErrorEnvelope builds an [ErrorEnvelope] stamped with the current UTC time.
func NewErrorEnvelope(status int, message string, fieldErrors map[string]string) ErrorEnvelope {
	return ErrorEnvelope{
		Status:    status,
		Message:   message,
		Errors:    fieldErrors,
		Timestamp: time.Now().UTC(),
	}
}

// PrincipalResponse describes the authenticated caller.
type PrincipalResponse struct {
	UserID      int64    `json:"id"`
	Username    string   `json:"username"`
	Authorities []string `json:"authorities"`
}
