// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-forum/internal/config"
	"github.com/MKhiriev/go-forum/internal/logger"
	"github.com/MKhiriev/go-forum/internal/store"
	"github.com/stretchr/testify/assert"
)

// mockWorker counts Run calls and blocks until ctx is cancelled.
type mockWorker struct {
	runCount atomic.Int32
}

func (m *mockWorker) Run(ctx context.Context) {
	m.runCount.Add(1)
	<-ctx.Done()
}

func TestWorkers_Run_AllWorkersAreStarted(t *testing.T) {
	w1, w2, w3 := &mockWorker{}, &mockWorker{}, &mockWorker{}
	ws := &Workers{workers: []Worker{w1, w2, w3}}

	ctx, cancel := context.WithCancel(context.Background())
	ws.Run(ctx)

	assert.Eventually(t, func() bool {
		return w1.runCount.Load() == 1 && w2.runCount.Load() == 1 && w3.runCount.Load() == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	waitOrFail(t, ws)
}

func TestWorkers_Run_Empty(t *testing.T) {
	ws := &Workers{}

	ws.Run(context.Background())
	waitOrFail(t, ws)
}

func TestNewWorkers(t *testing.T) {
	storages := &store.Storages{}

	tests := []struct {
		name string
		cfg  config.Workers
		want int
	}{
		{name: "cleanup enabled", cfg: config.Workers{TokenCleanupInterval: time.Hour}, want: 1},
		{name: "cleanup disabled by flag", cfg: config.Workers{TokenCleanupInterval: time.Hour, DisableTokenCleanup: true}},
		{name: "zero interval", cfg: config.Workers{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := NewWorkers(storages, tt.cfg, logger.Nop())

			assert.Len(t, ws.workers, tt.want)
		})
	}
}

func waitOrFail(t *testing.T, ws *Workers) {
	t.Helper()

	done := make(chan struct{})
	go func() {
		ws.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("workers did not stop")
	}
}
