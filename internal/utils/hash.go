// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// HashString computes an HMAC-SHA256 signature over data using hashKey
// and returns it hex-encoded. Refresh-token values are stored in this form
// so that a database dump does not yield usable tokens.
//
// Example usage:
//
//	digest := utils.HashString(refreshToken, cfg.App.HashKey)
func HashString(data string, hashKey string) string {
	hasher := hmac.New(sha256.New, []byte(hashKey))
	hasher.Write([]byte(data))
	return hex.EncodeToString(hasher.Sum(nil))
}
