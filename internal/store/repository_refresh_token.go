// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-forum/internal/logger"
	"github.com/MKhiriev/go-forum/internal/utils"
	"github.com/MKhiriev/go-forum/models"
)

// refreshTokenRepository is the PostgreSQL-backed [RefreshTokenRepository].
// Token values are looked up and stored as HMAC-SHA256 digests keyed by
// hashKey, so a database dump does not yield usable sessions.
type refreshTokenRepository struct {
	q       querier
	hashKey string
	logger  *logger.Logger
}

// NewRefreshTokenRepository constructs a [RefreshTokenRepository] that runs
// outside of any transaction.
func NewRefreshTokenRepository(db *DB, hashKey string, logger *logger.Logger) RefreshTokenRepository {
	logger.Debug().Msg("creating refresh token repository")
	return &refreshTokenRepository{
		q:       db,
		hashKey: hashKey,
		logger:  logger,
	}
}

func (r *refreshTokenRepository) digest(value string) string {
	return utils.HashString(value, r.hashKey)
}

func (r *refreshTokenRepository) FindActiveByValue(ctx context.Context, value string) (models.RefreshToken, error) {
	query, args, err := buildFindActiveRefreshTokenQuery(r.digest(value))
	if err != nil {
		return models.RefreshToken{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	token := models.RefreshToken{Token: value}
	err = r.q.QueryRowContext(ctx, query, args...).Scan(
		&token.ID,
		&token.UserID,
		&token.CreatedAt,
		&token.ExpiresAt,
		&token.Revoked,
		&token.RevokedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.RefreshToken{}, ErrRefreshTokenNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "refreshTokenRepository.FindActiveByValue").
			Msg("failed to find refresh token")
		return models.RefreshToken{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return token, nil
}

func (r *refreshTokenRepository) Save(ctx context.Context, token models.RefreshToken) (models.RefreshToken, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSaveRefreshTokenQuery(r.digest(token.Token), token)
	if err != nil {
		return models.RefreshToken{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	err = r.q.QueryRowContext(ctx, query, args...).Scan(&token.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.RefreshToken{}, ErrRefreshTokenNotSaved
	}
	if err != nil {
		log.Err(err).
			Str("func", "refreshTokenRepository.Save").
			Int64("user_id", token.UserID).
			Msg("failed to save refresh token")
		return models.RefreshToken{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	log.Debug().
		Str("func", "refreshTokenRepository.Save").
		Int64("user_id", token.UserID).
		Int64("token_id", token.ID).
		Msg("refresh token saved")

	return token, nil
}

func (r *refreshTokenRepository) Revoke(ctx context.Context, tokenID int64, at time.Time) error {
	log := logger.FromContext(ctx)

	query, args, err := buildRevokeRefreshTokenQuery(tokenID, at)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	affected, err := r.exec(ctx, "refreshTokenRepository.Revoke", query, args)
	if err != nil {
		return err
	}

	if affected == 0 {
		log.Warn().
			Str("func", "refreshTokenRepository.Revoke").
			Int64("token_id", tokenID).
			Msg("refresh token was revoked concurrently")
		return ErrRefreshTokenAlreadyRevoked
	}

	return nil
}

func (r *refreshTokenRepository) DeleteExpiredForUser(ctx context.Context, userID int64, before time.Time) (int64, error) {
	query, args, err := buildDeleteExpiredForUserQuery(userID, before)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.exec(ctx, "refreshTokenRepository.DeleteExpiredForUser", query, args)
}

func (r *refreshTokenRepository) RevokeExcessForUser(ctx context.Context, userID int64, keep int, at time.Time) (int64, error) {
	if keep < 0 {
		keep = 0
	}

	query, args, err := buildRevokeExcessForUserQuery(userID, keep, at)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.exec(ctx, "refreshTokenRepository.RevokeExcessForUser", query, args)
}

func (r *refreshTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	query, args, err := buildDeleteExpiredQuery(before)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.exec(ctx, "refreshTokenRepository.DeleteExpired", query, args)
}

// exec runs a DML statement and returns the number of affected rows.
func (r *refreshTokenRepository) exec(ctx context.Context, funcName, query string, args []any) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("failed to execute statement")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("failed to read affected rows")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return affected, nil
}
