// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// User is a forum account as stored in the credential store.
// Accounts are never hard-deleted: IsDeleted marks a soft-deleted user
// that must not be able to authenticate.
type User struct {
	// UserID is the server-assigned numeric identifier.
	UserID int64 `json:"id"`

	// Username is unique case-insensitively.
	Username string `json:"username"`

	// Email is stored trimmed and lowercased, unique case-insensitively.
	Email string `json:"email"`

	// PasswordHash is the bcrypt digest of the password. Never serialized.
	PasswordHash string `json:"-"`

	// Roles assigned to the user.
	Roles []Role `json:"roles"`

	IsDeleted bool       `json:"-"`
	DeletedAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
