// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-forum/internal/logger"
	"github.com/MKhiriev/go-forum/models"
	"github.com/jackc/pgerrcode"
)

// Names of the unique indexes created by the users migration.
const (
	usersUsernameUniqueIndex = "users_username_lower_key"
	usersEmailUniqueIndex    = "users_email_lower_key"
)

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
// It reads and writes the "users" and "user_roles" tables through q, which is
// either the pooled connection or an open transaction.
type userRepository struct {
	q      querier
	logger *logger.Logger
}

// NewUserRepository constructs a [UserRepository] that runs outside of any
// transaction.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		q:      db,
		logger: logger,
	}
}

func (r *userRepository) FindByIdentifier(ctx context.Context, identifier string) (models.User, error) {
	query, args, err := buildFindUserByIdentifierQuery(identifier)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.findOne(ctx, "userRepository.FindByIdentifier", query, args)
}

func (r *userRepository) FindByID(ctx context.Context, userID int64) (models.User, error) {
	query, args, err := buildFindUserByIDQuery(userID)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.findOne(ctx, "userRepository.FindByID", query, args)
}

// findOne scans a single user row and attaches its roles.
func (r *userRepository) findOne(ctx context.Context, funcName, query string, args []any) (models.User, error) {
	log := logger.FromContext(ctx)

	var user models.User
	err := r.q.QueryRowContext(ctx, query, args...).Scan(
		&user.UserID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.IsDeleted,
		&user.DeletedAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("failed to scan user row")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	roles, err := r.findRoles(ctx, user.UserID)
	if err != nil {
		return models.User{}, err
	}
	user.Roles = roles

	return user, nil
}

func (r *userRepository) findRoles(ctx context.Context, userID int64) ([]models.Role, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUserRolesQuery(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "userRepository.findRoles").
			Int64("user_id", userID).
			Msg("failed to execute query for user roles")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	roles := make([]models.Role, 0, 2)
	for rows.Next() {
		var role models.Role
		if scanErr := rows.Scan(&role.Code, &role.DisplayName, &role.Description); scanErr != nil {
			log.Err(scanErr).
				Str("func", "userRepository.findRoles").
				Int64("user_id", userID).
				Msg("failed to scan role row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		roles = append(roles, role)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return roles, nil
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username", username)
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email", email)
}

func (r *userRepository) exists(ctx context.Context, column, value string) (bool, error) {
	query, args, err := buildUserExistsQuery(column, value)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var marker int
	err = r.q.QueryRowContext(ctx, query, args...).Scan(&marker)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		logger.FromContext(ctx).Err(err).
			Str("func", "userRepository.exists").
			Str("column", column).
			Msg("failed to check user existence")
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return true, nil
}

// CreateUser persists a new user record, links the given roles and returns
// the user with server-assigned fields (UserID, IsDeleted, CreatedAt,
// UpdatedAt) and Roles populated.
//
// Error handling:
//   - unique_violation on the username index → [ErrUsernameAlreadyExists].
//   - unique_violation on the email index → [ErrEmailAlreadyExists].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) CreateUser(ctx context.Context, user models.User, roles []models.Role) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildCreateUserQuery(user)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	err = r.q.QueryRowContext(ctx, query, args...).Scan(&user.UserID, &user.IsDeleted, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		log.Err(err).Str("func", "userRepository.CreateUser").Msg("error inserting user")

		if postgresError(err) == pgerrcode.UniqueViolation {
			return models.User{}, uniqueViolationError(err)
		}
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	if len(roles) > 0 {
		query, args, err = buildLinkUserRolesQuery(user.UserID, roles)
		if err != nil {
			return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		if _, err = r.q.ExecContext(ctx, query, args...); err != nil {
			log.Err(err).
				Str("func", "userRepository.CreateUser").
				Int64("user_id", user.UserID).
				Msg("error linking user roles")
			return models.User{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	user.Roles = append([]models.Role(nil), roles...)

	return user, nil
}

// uniqueViolationError tells username and email collisions apart by the
// violated constraint.
func uniqueViolationError(err error) error {
	if postgresConstraint(err) == usersEmailUniqueIndex {
		return ErrEmailAlreadyExists
	}
	return ErrUsernameAlreadyExists
}
