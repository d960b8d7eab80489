// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-forum/internal/config"
	"github.com/MKhiriev/go-forum/internal/logger"
	"github.com/MKhiriev/go-forum/migrations"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB is the pooled PostgreSQL connection shared by repositories and the
// transactor.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// NewConnectPostgres opens a pgx-backed pool, applies the pool limits and
// pings the database.
func NewConnectPostgres(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	// establish connection
	conn, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error occured during database connection")
		return nil, fmt.Errorf("error occured during database connection: %w", err)
	}

	// setup connections
	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)

	// ping database
	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error connecting database (ping)")
		_ = conn.Close()
		return nil, err
	}
	log.Info().Str("func", "NewConnectPostgres").Msg("connected to database successfully")

	return newDB(conn, log), nil
}

func newDB(conn *sql.DB, log *logger.Logger) *DB {
	return &DB{
		DB:                 conn,
		logger:             log,
		errorClassificator: NewPostgresErrorClassifier(),
	}
}

// Migrate applies the embedded goose migrations.
func (db *DB) Migrate(ctx context.Context) error {
	if db == nil {
		return ErrNilDatabase
	}
	return migrations.Migrate(ctx, db.DB)
}

func postgresError(err error) string {
	var pgErr *pgconn.PgError
	// if postgres returns error
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	return ""
}

func postgresConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}

	return ""
}
