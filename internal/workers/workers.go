// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-forum/internal/config"
	"github.com/MKhiriev/go-forum/internal/logger"
	"github.com/MKhiriev/go-forum/internal/store"
)

// Workers runs a set of workers, each in its own goroutine.
type Workers struct {
	workers []Worker
	wg      sync.WaitGroup
}

// NewWorkers builds the workers enabled by cfg.
func NewWorkers(storages *store.Storages, cfg config.Workers, logger *logger.Logger) *Workers {
	w := &Workers{}

	if !cfg.DisableTokenCleanup && cfg.TokenCleanupInterval > 0 {
		w.workers = append(w.workers,
			NewTokenCleanupWorker(storages.RefreshTokenRepository, cfg.TokenCleanupInterval, logger))
	}

	logger.Info().Int("count", len(w.workers)).Msg("workers created")
	return w
}

// Run starts every worker and returns immediately. Workers stop when ctx
// is cancelled; use Wait to block until they have.
func (w *Workers) Run(ctx context.Context) {
	for _, worker := range w.workers {
		w.wg.Go(func() {
			worker.Run(ctx)
		})
	}
}

// Wait blocks until every started worker has returned.
func (w *Workers) Wait() {
	w.wg.Wait()
}
