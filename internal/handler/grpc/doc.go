// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package grpc implements the gRPC transport layer of the forum server.
//
// It serves the standard grpc.health.v1.Health service, whose status
// follows the authentication core's configuration check, and a small
// token introspection service that lets sibling services resolve bearer
// tokens into principals. Every unary call passes through a logging
// interceptor that attaches a request-scoped logger to the context.
package grpc
