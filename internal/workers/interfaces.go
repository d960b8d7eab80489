// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package workers provides the background workers of the server and a
// Workers aggregate that runs them side by side.
package workers

import "context"

// Worker is the interface that must be implemented by any background worker.
//
// Run blocks until ctx is cancelled.
//
// Example implementation:
//
//	type MyWorker struct{}
//
//	func (w *MyWorker) Run(ctx context.Context) {
//	    <-ctx.Done()
//	}
type Worker interface {
	Run(ctx context.Context)
}
