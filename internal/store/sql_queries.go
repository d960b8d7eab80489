// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"strings"
	"time"

	"github.com/MKhiriev/go-forum/models"
	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var userColumns = []string{
	"id",
	"username",
	"email",
	"password_hash",
	"is_deleted",
	"deleted_at",
	"created_at",
	"updated_at",
}

var refreshTokenColumns = []string{
	"id",
	"user_id",
	"created_at",
	"expires_at",
	"revoked",
	"revoked_at",
}

// buildFindUserByIdentifierQuery matches on email when the identifier
// contains "@" and on username otherwise, ignoring case on both sides.
func buildFindUserByIdentifierQuery(identifier string) (string, []any, error) {
	column := "username"
	if strings.Contains(identifier, "@") {
		column = "email"
	}

	return psql.
		Select(userColumns...).
		From(models.User{}.TableName()).
		Where(sq.Expr("LOWER("+column+") = LOWER(?)", identifier)).
		ToSql()
}

func buildFindUserByIDQuery(userID int64) (string, []any, error) {
	return psql.
		Select(userColumns...).
		From(models.User{}.TableName()).
		Where(sq.Eq{"id": userID}).
		ToSql()
}

func buildUserRolesQuery(userID int64) (string, []any, error) {
	return psql.
		Select("r.code", "r.display_name", "r.description").
		From("roles r").
		Join("user_roles ur ON ur.role_code = r.code").
		Where(sq.Eq{"ur.user_id": userID}).
		OrderBy("r.code").
		ToSql()
}

// buildUserExistsQuery selects a single marker row when a user with the
// given column value exists.
func buildUserExistsQuery(column, value string) (string, []any, error) {
	return psql.
		Select("1").
		From(models.User{}.TableName()).
		Where(sq.Expr("LOWER("+column+") = LOWER(?)", value)).
		Limit(1).
		ToSql()
}

func buildCreateUserQuery(user models.User) (string, []any, error) {
	return psql.
		Insert(models.User{}.TableName()).
		Columns("username", "email", "password_hash").
		Values(user.Username, user.Email, user.PasswordHash).
		Suffix("RETURNING id, is_deleted, created_at, updated_at").
		ToSql()
}

func buildLinkUserRolesQuery(userID int64, roles []models.Role) (string, []any, error) {
	builder := psql.
		Insert("user_roles").
		Columns("user_id", "role_code")
	for _, role := range roles {
		builder = builder.Values(userID, role.Code)
	}

	return builder.ToSql()
}

func buildFindRoleByCodeQuery(code string) (string, []any, error) {
	return psql.
		Select("code", "display_name", "description").
		From("roles").
		Where(sq.Eq{"code": code}).
		ToSql()
}

func buildFindActiveRefreshTokenQuery(tokenHash string) (string, []any, error) {
	return psql.
		Select(refreshTokenColumns...).
		From(models.RefreshToken{}.TableName()).
		Where(sq.Eq{"token_hash": tokenHash, "revoked": false}).
		ToSql()
}

func buildSaveRefreshTokenQuery(tokenHash string, token models.RefreshToken) (string, []any, error) {
	return psql.
		Insert(models.RefreshToken{}.TableName()).
		Columns("token_hash", "user_id", "created_at", "expires_at", "revoked").
		Values(tokenHash, token.UserID, token.CreatedAt, token.ExpiresAt, token.Revoked).
		Suffix("RETURNING id").
		ToSql()
}

// buildRevokeRefreshTokenQuery is a compare-and-set: it only touches the row
// while it is still active.
func buildRevokeRefreshTokenQuery(tokenID int64, at time.Time) (string, []any, error) {
	return psql.
		Update(models.RefreshToken{}.TableName()).
		Set("revoked", true).
		Set("revoked_at", at).
		Where(sq.Eq{"id": tokenID, "revoked": false}).
		ToSql()
}

func buildDeleteExpiredForUserQuery(userID int64, before time.Time) (string, []any, error) {
	return psql.
		Delete(models.RefreshToken{}.TableName()).
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Lt{"expires_at": before}).
		ToSql()
}

// buildRevokeExcessForUserQuery revokes every active token of the user
// except the keep newest ones.
func buildRevokeExcessForUserQuery(userID int64, keep int, at time.Time) (string, []any, error) {
	return psql.
		Update(models.RefreshToken{}.TableName()).
		Set("revoked", true).
		Set("revoked_at", at).
		Where(sq.Expr(`id IN (
			SELECT id FROM refresh_tokens
			WHERE user_id = ? AND revoked = FALSE AND expires_at > ?
			ORDER BY created_at DESC, id DESC
			OFFSET ?)`, userID, at, keep)).
		ToSql()
}

func buildDeleteExpiredQuery(before time.Time) (string, []any, error) {
	return psql.
		Delete(models.RefreshToken{}.TableName()).
		Where(sq.Lt{"expires_at": before}).
		ToSql()
}
