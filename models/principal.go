// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Principal is the request-scoped identity built from a stored [User].
// It is never persisted and PasswordHash is never serialized.
type Principal struct {
	// UserID is the numeric identifier of the underlying user.
	UserID int64 `json:"id"`

	// Username is the subject of issued access tokens.
	Username string `json:"username"`

	// PasswordHash is only used for credential checks at login.
	PasswordHash string `json:"-"`

	// Authorities are the role codes prefixed with the scope marker,
	// e.g. "ROLE_USER", sorted.
	Authorities []string `json:"authorities"`

	// Enabled is false for soft-deleted users.
	Enabled bool `json:"-"`
}
