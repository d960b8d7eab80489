// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides a Go client for the forum authentication API.
//
// The primary abstraction is [ServerAdapter], which hides the REST transport
// from callers such as sibling services, integration tests and tooling.
// The adapter keeps the current token pair, attaches the access token to
// authenticated calls and rotates it with the refresh token when the server
// answers 401.
//
// Error envelopes are decoded into [*APIError], which wraps one of the
// sentinel values from errors.go so callers can use [errors.Is] (e.g.
// [ErrConflict] for 409, [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-forum/models"
)

// ServerAdapter defines communication with the forum authentication API.
type ServerAdapter interface {
	// SetTokens replaces the stored token pair, e.g. one restored from disk.
	SetTokens(pair models.TokenPair)

	// Tokens returns the stored token pair; zero before the first
	// successful Register, Login or Refresh.
	Tokens() models.TokenPair

	// Register creates an account and stores the returned pair.
	Register(ctx context.Context, req models.RegisterRequest) (models.TokenPair, error)

	// Login authenticates by username or email and stores the returned pair.
	Login(ctx context.Context, req models.LoginRequest) (models.TokenPair, error)

	// Refresh rotates the stored refresh token. The old one stops working.
	Refresh(ctx context.Context) (models.TokenPair, error)

	// Logout revokes the stored refresh token and forgets the pair.
	Logout(ctx context.Context) error

	// Me describes the caller. On 401 it refreshes once and retries.
	Me(ctx context.Context) (models.PrincipalResponse, error)

	// Version reports the server build information.
	Version(ctx context.Context) (models.AppBuildInfo, error)
}
