// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

var (
	// ErrEmptyAuthorizationHeader is returned by the auth middleware when the
	// incoming request does not include an "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrRateLimitExceeded is rendered when a client exhausts its quota.
	ErrRateLimitExceeded = errors.New("too many requests")

	// ErrRouteNotFound is rendered for unknown paths and unsupported methods.
	ErrRouteNotFound = errors.New("not found")

	errNoPrincipalInContext = errors.New("no principal in request context")
)
