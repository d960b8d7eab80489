// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-forum/internal/config"
	"github.com/MKhiriev/go-forum/internal/logger"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis given either a redis:// URL or a
// host:port address and pings it.
func NewRedisClient(ctx context.Context, cfg config.Redis, log *logger.Logger) (*redis.Client, error) {
	var opts *redis.Options
	if strings.HasPrefix(cfg.Address, "redis://") || strings.HasPrefix(cfg.Address, "rediss://") {
		parsed, err := redis.ParseURL(cfg.Address)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		log.Err(err).Str("func", "NewRedisClient").Msg("error connecting redis (ping)")
		_ = client.Close()
		return nil, fmt.Errorf("error connecting redis: %w", err)
	}
	log.Info().Str("func", "NewRedisClient").Msg("connected to redis successfully")

	return client, nil
}
