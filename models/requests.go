// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// RegisterRequest carries the data needed to create an account.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,email,max=320"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest carries user credentials. Identifier is either a username
// or an email address.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required,notblank"`
	Password   string `json:"password" validate:"required,notblank"`
}

// RefreshRequest carries a refresh token value for rotation or logout.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required,notblank"`
}
