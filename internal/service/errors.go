// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"
)

// Error taxonomy of the authentication core. Transport layers map these
// to client responses; anything else is an internal error.
var (
	// ErrValidationFailed marks malformed input. It is usually joined with a
	// *validators.ValidationError carrying per-field messages.
	ErrValidationFailed = errors.New("validation failed")

	// ErrConflict marks a username or email that is already registered.
	ErrConflict = errors.New("conflict")

	// ErrAuthenticationFailed is the single outcome of every rejected
	// credential or token. Clients never learn which check failed.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrConfigurationFault marks operator errors such as a missing default
	// role. The server must not serve traffic while it persists.
	ErrConfigurationFault = errors.New("configuration fault")
)

// Detailed reasons, kept for logs. All of them match one taxonomy sentinel.
var (
	ErrUsernameTaken = fmt.Errorf("%w: username already in use", ErrConflict)
	ErrEmailTaken    = fmt.Errorf("%w: email already in use", ErrConflict)

	ErrInvalidCredentials  = fmt.Errorf("%w: invalid credentials", ErrAuthenticationFailed)
	ErrLoginLocked         = fmt.Errorf("%w: too many failed logins", ErrAuthenticationFailed)
	ErrInvalidRefreshToken = fmt.Errorf("%w: invalid refresh token", ErrAuthenticationFailed)
	ErrRefreshTokenExpired = fmt.Errorf("%w: refresh token expired", ErrAuthenticationFailed)
	ErrInvalidAccessToken  = fmt.Errorf("%w: invalid access token", ErrAuthenticationFailed)
	ErrAccountDisabled     = fmt.Errorf("%w: account disabled", ErrAuthenticationFailed)

	ErrDefaultRoleMissing = fmt.Errorf("%w: default role is missing", ErrConfigurationFault)
)
