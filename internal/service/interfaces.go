// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package service holds the business logic of the forum authentication
// core: account registration, credential checks, access-token issuance and
// refresh-token rotation.
//
// Every operation returns errors matching one of the taxonomy sentinels
// ([ErrValidationFailed], [ErrConflict], [ErrAuthenticationFailed],
// [ErrConfigurationFault]) or an internal error that must not be shown to
// clients.
package service

import (
	"context"

	"github.com/MKhiriev/go-forum/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// AuthService is the session issuer.
type AuthService interface {
	// Register creates an account with the default role and signs it in.
	Register(ctx context.Context, req models.RegisterRequest) (models.TokenPair, error)

	// Login checks the credentials of an existing account and signs it in.
	Login(ctx context.Context, req models.LoginRequest) (models.TokenPair, error)

	// Refresh consumes a refresh token and returns a new token pair.
	Refresh(ctx context.Context, req models.RefreshRequest) (models.TokenPair, error)

	// Logout revokes a refresh token. Unknown or already revoked tokens
	// are not an error.
	Logout(ctx context.Context, req models.RefreshRequest) error

	// IssueTokens mints an access token and persists a new refresh token
	// for principal.
	IssueTokens(ctx context.Context, principal models.Principal) (models.TokenPair, error)

	// Authenticate verifies a bearer access token and resolves the
	// principal it was issued to.
	Authenticate(ctx context.Context, rawToken string) (models.Principal, error)

	// CheckConfiguration fails with [ErrConfigurationFault] when the
	// server cannot serve authentication requests at all.
	CheckConfiguration(ctx context.Context) error
}

// AppInfoService reports build metadata of the running server.
type AppInfoService interface {
	GetAppInfo(ctx context.Context) models.AppBuildInfo
}
