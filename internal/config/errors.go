// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "errors"

// Validation errors returned by [StructuredConfig.validate]. All of them are
// configuration faults that must stop the server at startup.
var (
	// ErrInvalidAppConfigs indicates invalid token, hashing or session
	// settings (for example, a missing or short sign key).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, an empty DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidServerConfigs indicates invalid listener settings
	// (for example, neither HTTP nor gRPC address is set).
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidWorkerConfigs indicates invalid background worker settings.
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
)
