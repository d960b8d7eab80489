// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package migrations embeds the forum schema and applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var embedMigrations embed.FS

var errNilDB = errors.New("migration error: db is nil")

// Migrate applies every pending migration to db.
func Migrate(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errNilDB
	}

	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
