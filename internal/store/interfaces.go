// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/MKhiriev/go-forum/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository is the credential store. Lookups by username and email are
// case-insensitive and return the user together with its roles.
type UserRepository interface {
	// FindByIdentifier looks the user up by email when identifier contains
	// "@", otherwise by username.
	FindByIdentifier(ctx context.Context, identifier string) (models.User, error)
	FindByID(ctx context.Context, userID int64) (models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// CreateUser inserts the user and links roles, returning the stored row.
	CreateUser(ctx context.Context, user models.User, roles []models.Role) (models.User, error)
}

// RoleRepository reads the seeded role catalogue.
type RoleRepository interface {
	FindByCode(ctx context.Context, code string) (models.Role, error)
}

// RefreshTokenRepository persists refresh tokens. Token values are only ever
// stored as keyed digests; methods accept and return the raw value.
type RefreshTokenRepository interface {
	// FindActiveByValue returns the non-revoked token with this value, expired
	// or not.
	FindActiveByValue(ctx context.Context, value string) (models.RefreshToken, error)
	Save(ctx context.Context, token models.RefreshToken) (models.RefreshToken, error)
	// Revoke marks the token revoked only if it is still active and returns
	// [ErrRefreshTokenAlreadyRevoked] when another caller got there first.
	Revoke(ctx context.Context, tokenID int64, at time.Time) error
	DeleteExpiredForUser(ctx context.Context, userID int64, before time.Time) (int64, error)
	// RevokeExcessForUser revokes the user's oldest active tokens so that at
	// most keep remain.
	RevokeExcessForUser(ctx context.Context, userID int64, keep int, at time.Time) (int64, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// Repositories is the set of repositories bound to one unit of work.
type Repositories struct {
	Users         UserRepository
	Roles         RoleRepository
	RefreshTokens RefreshTokenRepository
}

// TxFunc is the body of a transaction. Returning an error rolls it back.
type TxFunc func(ctx context.Context, repos Repositories) error

// Transactor runs a function inside a single database transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn TxFunc) error
}

// LoginAttemptStore counts failed logins per normalized identifier.
type LoginAttemptStore interface {
	// IsLocked reports whether key reached limit failures within the window.
	IsLocked(ctx context.Context, key string, limit int) (bool, error)
	// RegisterFailure increments the counter of key, starting the window on
	// the first failure, and returns the new count.
	RegisterFailure(ctx context.Context, key string, window time.Duration) (int64, error)
	Reset(ctx context.Context, key string) error
}

// ErrorClassificator decides whether a failed database operation may be
// retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
