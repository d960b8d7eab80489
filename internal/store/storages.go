// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-forum/internal/config"
	"github.com/MKhiriev/go-forum/internal/logger"
	"github.com/redis/go-redis/v9"
)

// Storages bundles every persistence dependency of the server.
type Storages struct {
	DB    *DB
	Redis *redis.Client // nil when Redis is not configured

	Transactor             Transactor
	UserRepository         UserRepository
	RoleRepository         RoleRepository
	RefreshTokenRepository RefreshTokenRepository
	LoginAttemptStore      LoginAttemptStore
}

// NewStorages connects PostgreSQL (and Redis when configured), applies
// migrations unless disabled and wires the repositories. hashKey keys the
// refresh token digests.
func NewStorages(ctx context.Context, cfg config.Storage, hashKey string, log *logger.Logger) (*Storages, error) {
	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if !cfg.DB.SkipMigrations {
		if err = db.Migrate(ctx); err != nil {
			log.Err(err).Str("func", "NewStorages").Msg("error applying migrations")
			_ = db.Close()
			return nil, err
		}
	}

	storages := newStorages(db, hashKey, log)

	if cfg.Redis.Address != "" {
		client, err := NewRedisClient(ctx, cfg.Redis, log)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		storages.Redis = client
		storages.LoginAttemptStore = NewRedisLoginAttemptStore(client)
	}

	return storages, nil
}

func newStorages(db *DB, hashKey string, log *logger.Logger) *Storages {
	return &Storages{
		DB:                     db,
		Transactor:             NewTransactor(db, hashKey, log),
		UserRepository:         NewUserRepository(db, log),
		RoleRepository:         NewRoleRepository(db, log),
		RefreshTokenRepository: NewRefreshTokenRepository(db, hashKey, log),
		LoginAttemptStore:      NewMemoryLoginAttemptStore(),
	}
}

// Close releases the database pool and the Redis client.
func (s *Storages) Close() error {
	var errs []error
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
