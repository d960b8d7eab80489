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
)

const (
	defaultTxMaxAttempts = 3
	defaultTxRetryDelay  = 50 * time.Millisecond
)

// sqlTransactor runs each unit of work in one READ COMMITTED transaction.
// A body that fails with a retryable database error before commit is run
// again from scratch, so it must not keep state across attempts.
type sqlTransactor struct {
	db          *DB
	hashKey     string
	maxAttempts int
	retryDelay  time.Duration
	logger      *logger.Logger
}

// NewTransactor returns a [Transactor] whose repositories share the
// transaction. hashKey keys refresh token digests.
func NewTransactor(db *DB, hashKey string, logger *logger.Logger) Transactor {
	return &sqlTransactor{
		db:          db,
		hashKey:     hashKey,
		maxAttempts: defaultTxMaxAttempts,
		retryDelay:  defaultTxRetryDelay,
		logger:      logger,
	}
}

func (t *sqlTransactor) WithinTransaction(ctx context.Context, fn TxFunc) error {
	log := logger.FromContext(ctx)

	var err error
	for attempt := 1; attempt <= t.maxAttempts; attempt++ {
		err = t.runOnce(ctx, fn)
		if err == nil {
			return nil
		}

		if !t.retryable(ctx, err) || attempt == t.maxAttempts {
			return err
		}

		log.Warn().Err(err).
			Str("func", "sqlTransactor.WithinTransaction").
			Int("attempt", attempt).
			Msg("retrying transaction after transient database error")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * t.retryDelay):
		}
	}

	return err
}

func (t *sqlTransactor) retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, ErrCommitingTransaction) {
		return false
	}
	return t.db.errorClassificator.Classify(err) == Retryable
}

// runOnce executes fn in a fresh transaction. The transaction is rolled back
// when fn fails or panics, or when ctx is done before commit.
func (t *sqlTransactor) runOnce(ctx context.Context, fn TxFunc) (err error) {
	log := logger.FromContext(ctx)

	tx, err := t.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		log.Err(err).Str("func", "sqlTransactor.runOnce").Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				log.Err(rbErr).Str("func", "sqlTransactor.runOnce").Msg("failed to roll back transaction")
			}
		}
	}()

	if err = fn(ctx, t.repositories(tx)); err != nil {
		return err
	}

	if err = ctx.Err(); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "sqlTransactor.runOnce").Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

func (t *sqlTransactor) repositories(tx *sql.Tx) Repositories {
	return Repositories{
		Users:         &userRepository{q: tx, logger: t.logger},
		Roles:         &roleRepository{q: tx, logger: t.logger},
		RefreshTokens: &refreshTokenRepository{q: tx, hashKey: t.hashKey, logger: t.logger},
	}
}
