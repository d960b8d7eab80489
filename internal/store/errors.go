// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrUsernameAlreadyExists is returned when an INSERT into users hits the
	// case-insensitive username unique index.
	ErrUsernameAlreadyExists = errors.New("username already exists")

	// ErrEmailAlreadyExists is returned when an INSERT into users hits the
	// case-insensitive email unique index.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrUserNotFound is returned when no user row matches the lookup.
	ErrUserNotFound = errors.New("user was not found")

	// ErrRoleNotFound is returned when the requested role code is not seeded.
	ErrRoleNotFound = errors.New("role was not found")

	// ErrRefreshTokenNotFound is returned when no non-revoked refresh token
	// matches the presented value.
	ErrRefreshTokenNotFound = errors.New("refresh token was not found")

	// ErrRefreshTokenAlreadyRevoked is returned by a revocation that changed
	// no row: another transaction consumed the token first.
	ErrRefreshTokenAlreadyRevoked = errors.New("refresh token already revoked")

	// ErrRefreshTokenNotSaved is returned when an INSERT of a refresh token
	// completes without returning its id.
	ErrRefreshTokenNotSaved = errors.New("refresh token was not saved")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")

	// ErrNilDatabase is returned when a storage is built without a connection.
	ErrNilDatabase = errors.New("database connection is nil")

	// ErrLoginAttemptStore wraps failures of the login attempt counter backend.
	ErrLoginAttemptStore = errors.New("login attempt store failure")
)
