// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "context"

// Server defines the common lifecycle contract for transport servers managed
// by this package.
type Server interface {
	// RunServer starts serving requests and blocks until the server stops.
	// A server stopped through Shutdown returns nil.
	RunServer(ctx context.Context) error

	// Shutdown gracefully stops the server. When ctx expires before the
	// in-flight requests finish, remaining connections are closed.
	Shutdown(ctx context.Context) error
}
