// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package crypto holds the two stateless security primitives of the
// authentication core: the password hasher and the access-token codec.
// Neither of them touches storage.
package crypto

import (
	"time"

	"github.com/MKhiriev/go-forum/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/crypto_mock.go -package=mock

// PasswordHasher produces and checks salted one-way password digests.
type PasswordHasher interface {
	// Hash returns a salted digest of password with the configured cost.
	Hash(password string) (string, error)

	// Verify reports whether password matches hash. A wrong password
	// or a malformed hash is reported as false, never as an error.
	Verify(password, hash string) bool
}

// TokenCodec issues and verifies signed, time-bounded access tokens.
// Implementations must be safe for concurrent use.
type TokenCodec interface {
	// Issue signs a token for principal valid for ttl starting now.
	Issue(principal models.Principal, ttl time.Duration) (string, error)

	// Verify checks the signature, issuer and expiry of token and returns
	// its claims. Every failure wraps [ErrInvalidToken].
	Verify(token string) (models.AccessClaims, error)
}
