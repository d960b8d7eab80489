// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"errors"
	"strings"
)

// ErrInvalidAuthorizationHeader is returned when the header is not of the
// form "Bearer <token>".
var ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

const bearerScheme = "bearer"

// ParseBearerToken extracts the token from an "Authorization: Bearer <token>"
// header value. The scheme is matched case-insensitively.
func ParseBearerToken(authorizationHeader string) (string, error) {
	scheme, token, found := strings.Cut(strings.TrimSpace(authorizationHeader), " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", ErrInvalidAuthorizationHeader
	}

	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", ErrInvalidAuthorizationHeader
	}

	return token, nil
}
