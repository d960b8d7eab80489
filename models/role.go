// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Role is an authorization role. Code acts as its own identifier
// (e.g. "USER") and is immutable once created.
type Role struct {
	Code        string `json:"code"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
}
