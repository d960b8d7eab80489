// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// TokenTypeBearer is the token type reported to clients.
const TokenTypeBearer = "Bearer"

// AccessClaims is the decoded and verified claim set of an access token.
type AccessClaims struct {
	// Subject is the username the token was issued to.
	Subject string

	// UserID is the decoded "uid" claim.
	UserID int64

	// Roles is the "roles" claim in issuance order.
	Roles []string

	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenPair is the payload returned by every successful register, login
// and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`

	// ExpiresIn is the access-token lifetime in seconds.
	ExpiresIn int64 `json:"expiresIn"`
}
