// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

type bcryptHasher struct {
	cost int
}

// NewPasswordHasher returns a bcrypt [PasswordHasher]. A non-positive cost
// selects [bcrypt.DefaultCost].
func NewPasswordHasher(cost int) (PasswordHasher, error) {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHashCost, cost)
	}

	return &bcryptHasher{cost: cost}, nil
}

func (h *bcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", fmt.Errorf("%w: %w", ErrHashingPassword, err)
	}

	return string(hash), nil
}

func (h *bcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
