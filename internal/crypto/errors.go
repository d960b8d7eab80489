// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "errors"

var (
	// ErrInvalidToken is returned for any token that fails verification:
	// bad signature, malformed structure, wrong issuer, expiry or
	// unparsable claims.
	ErrInvalidToken = errors.New("invalid token")

	ErrTokenSigningFailed = errors.New("token signing failed")
	ErrInvalidTTL         = errors.New("token ttl must be at least one second")

	ErrEmptySignKey = errors.New("token sign key is empty")
	ErrWeakSignKey  = errors.New("token sign key is too short")
	ErrEmptyIssuer  = errors.New("token issuer is empty")

	ErrInvalidHashCost = errors.New("invalid password hash cost")
	ErrPasswordTooLong = errors.New("password is too long")
	ErrHashingPassword = errors.New("error hashing password")
)
