// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-forum/internal/logger"
	"github.com/MKhiriev/go-forum/internal/store"
)

// TokenCleanupWorker periodically deletes refresh tokens whose expiry has
// passed, revoked or not. Per-user cleanup during token issuance only
// covers users that keep logging in.
type TokenCleanupWorker struct {
	tokens   store.RefreshTokenRepository
	interval time.Duration
	now      func() time.Time

	logger *logger.Logger
}

// NewTokenCleanupWorker returns a worker sweeping every interval.
func NewTokenCleanupWorker(tokens store.RefreshTokenRepository, interval time.Duration, logger *logger.Logger) *TokenCleanupWorker {
	return &TokenCleanupWorker{
		tokens:   tokens,
		interval: interval,
		now:      time.Now,
		logger:   logger.WithComponent("token_cleanup"),
	}
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (w *TokenCleanupWorker) Run(ctx context.Context) {
	w.logger.Info().Dur("interval", w.interval).Msg("token cleanup worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		w.sweep(ctx)

		select {
		case <-ctx.Done():
			w.logger.Info().Msg("token cleanup worker stopped")
			return
		case <-ticker.C:
		}
	}
}

func (w *TokenCleanupWorker) sweep(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	before := w.now().UTC().Truncate(time.Second)
	deleted, err := w.tokens.DeleteExpired(ctx, before)
	if err != nil {
		w.logger.Err(err).Msg("error deleting expired refresh tokens")
		return
	}

	if deleted > 0 {
		w.logger.Info().Int64("deleted", deleted).Time("before", before).Msg("expired refresh tokens deleted")
	} else {
		w.logger.Debug().Msg("no expired refresh tokens")
	}
}
