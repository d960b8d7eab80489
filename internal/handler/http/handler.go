// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"fmt"
	"time"

	"github.com/MKhiriev/go-forum/internal/config"
	"github.com/MKhiriev/go-forum/internal/logger"
	"github.com/MKhiriev/go-forum/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
)

// Handler is the root HTTP transport handler.
type Handler struct {
	services *service.Services

	// limiter is nil when rate limiting is off.
	limiter        *limiter.Limiter
	requestTimeout time.Duration

	logger *logger.Logger
}

// NewHandler builds a [Handler]. redisClient may be nil, in which case rate
// limit counters are kept in process memory.
func NewHandler(services *service.Services, cfg config.Server, redisClient *redis.Client, logger *logger.Logger) (*Handler, error) {
	rateLimiter, err := newRateLimiter(cfg.AuthRateLimit, redisClient)
	if err != nil {
		return nil, fmt.Errorf("http handler: %w", err)
	}

	logger.Info().
		Bool("rate_limit", rateLimiter != nil).
		Dur("request_timeout", cfg.RequestTimeout).
		Msg("http handler created")

	return &Handler{
		services:       services,
		limiter:        rateLimiter,
		requestTimeout: cfg.RequestTimeout,
		logger:         logger,
	}, nil
}
