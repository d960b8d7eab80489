// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http implements the HTTP transport layer of the forum server.
//
// It exposes route wiring, request handlers and middleware for the REST
// API. Cross-cutting concerns such as bearer authentication, request
// tracing, access logging, request metrics and per-client rate limiting
// are handled here before requests are delegated to the service layer.
// Every failure is rendered as a [models.ErrorEnvelope].
package http
