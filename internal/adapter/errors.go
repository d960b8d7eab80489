// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"errors"
	"fmt"
)

var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrTooManyRequests     = errors.New("too many requests")
	ErrInternalServerError = errors.New("internal server error")

	// ErrNoRefreshToken is returned by Refresh and Logout when no pair has
	// been stored yet.
	ErrNoRefreshToken = errors.New("no refresh token stored")

	ErrEmptyBaseURL = errors.New("empty base url")
)

// APIError is a decoded error envelope.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string

	kind error
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("http %d: %s %v", e.Status, e.Message, e.Fields)
	}
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

// Unwrap exposes the sentinel matching Status, if any.
func (e *APIError) Unwrap() error {
	return e.kind
}
