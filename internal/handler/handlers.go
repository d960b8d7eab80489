// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package handler assembles the transport handlers enabled by the server
// configuration.
package handler

import (
	"github.com/MKhiriev/go-forum/internal/config"
	"github.com/MKhiriev/go-forum/internal/handler/grpc"
	"github.com/MKhiriev/go-forum/internal/handler/http"
	"github.com/MKhiriev/go-forum/internal/logger"
	"github.com/MKhiriev/go-forum/internal/service"
	"github.com/redis/go-redis/v9"
)

// Handlers holds the transport handlers. A nil field means the transport
// is disabled.
type Handlers struct {
	HTTP *http.Handler
	GRPC *grpc.Handler
}

// NewHandlers creates a handler for every transport with a configured
// address. redisClient may be nil.
func NewHandlers(services *service.Services, cfg config.Server, redisClient *redis.Client, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.HTTPAddress != "" {
		httpHandler, err := http.NewHandler(services, cfg, redisClient, logger)
		if err != nil {
			return nil, err
		}
		handlers.HTTP = httpHandler
	}
	if cfg.GRPCAddress != "" {
		handlers.GRPC = grpc.NewHandler(services, logger)
	}

	if handlers.HTTP == nil && handlers.GRPC == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}
