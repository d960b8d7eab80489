// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators provides abstractions for input validation and
// enforcement of business rules across the application.
//
// Request models declare their rules with go-playground "validate" struct
// tags; this package registers the forum specific tags ("username",
// "notblank") and turns rule violations into a [ValidationError] keyed by
// JSON field name.
package validators

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/validator_mock.go -package=mock

// Validator defines a generic validation interface for arbitrary input values.
// Implementations may perform structural validation, semantic checks and
// cross-field rules.
type Validator interface {

	// Validate validates the provided input and optionally
	// restricts validation to specific named fields.
	Validate(context.Context, any, ...string) error
}
