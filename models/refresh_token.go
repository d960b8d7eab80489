// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// RefreshToken is a persisted single-use session token.
//
// Token holds the raw value handed to the client and is only populated
// right after issuance; the store keeps a keyed digest of it instead.
type RefreshToken struct {
	ID        int64      `json:"-"`
	Token     string     `json:"-"`
	UserID    int64      `json:"-"`
	CreatedAt time.Time  `json:"-"`
	ExpiresAt time.Time  `json:"-"`
	Revoked   bool       `json:"-"`
	RevokedAt *time.Time `json:"-"`
}

// IsExpired reports whether the token expiry is at or before now.
func (t RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// TableName returns the name of the database table
// associated with the RefreshToken model.
func (t RefreshToken) TableName() string {
	return "refresh_tokens"
}
