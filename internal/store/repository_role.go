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
)

type roleRepository struct {
	q      querier
	logger *logger.Logger
}

// NewRoleRepository constructs a [RoleRepository] that runs outside of any
// transaction.
func NewRoleRepository(db *DB, logger *logger.Logger) RoleRepository {
	return &roleRepository{
		q:      db,
		logger: logger,
	}
}

func (r *roleRepository) FindByCode(ctx context.Context, code string) (models.Role, error) {
	query, args, err := buildFindRoleByCodeQuery(code)
	if err != nil {
		return models.Role{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var role models.Role
	err = r.q.QueryRowContext(ctx, query, args...).Scan(&role.Code, &role.DisplayName, &role.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Role{}, ErrRoleNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "roleRepository.FindByCode").
			Str("role_code", code).
			Msg("failed to find role")
		return models.Role{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return role, nil
}
