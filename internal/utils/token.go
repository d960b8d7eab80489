// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import "github.com/google/uuid"

// UUIDGenerator produces opaque refresh-token values.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a random (version 4) UUID string. Version 7 is not used
// here because its timestamp prefix makes tokens partially guessable.
func (g *UUIDGenerator) Generate() string {
	return uuid.NewString()
}
