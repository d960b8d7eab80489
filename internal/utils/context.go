// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package utils provides general-purpose helpers shared by the transport
// and service layers: typed context keys, keyed digests, refresh-token
// value generation, bearer header parsing and JSON response writing.
package utils

import (
	"context"

	"github.com/MKhiriev/go-forum/models"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
func (c contextKey) String() string {
	return string(c)
}

var (
	// UserIDCtxKey stores the authenticated user's numeric id (int64).
	UserIDCtxKey = contextKey("userID")

	// PrincipalCtxKey stores the authenticated [models.Principal].
	PrincipalCtxKey = contextKey("principal")
)

// WithPrincipal returns a copy of ctx carrying p and its user id.
func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	ctx = context.WithValue(ctx, PrincipalCtxKey, p)
	return context.WithValue(ctx, UserIDCtxKey, p.UserID)
}

// GetUserIDFromContext retrieves the user identifier from the context.
// ok is false when the value is missing or has an unexpected type.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(int64)
	return userID, ok
}

// GetPrincipalFromContext retrieves the authenticated principal.
func GetPrincipalFromContext(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(PrincipalCtxKey).(models.Principal)
	return p, ok
}
