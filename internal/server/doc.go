// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package server wires and runs the application's transport servers.
//
// It provides orchestration for HTTP and gRPC server lifecycles, including
// startup, shutdown on context cancellation and graceful draining bounded
// by the configured shutdown timeout.
package server
