// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/go-forum/internal/config"
	"github.com/MKhiriev/go-forum/internal/crypto"
	"github.com/MKhiriev/go-forum/internal/logger"
	"github.com/MKhiriev/go-forum/internal/store"
	"github.com/MKhiriev/go-forum/models"
)

type Services struct {
	AuthService    AuthService
	AppInfoService AppInfoService
}

// NewServices builds the service layer. The auth service is decorated with
// request validation and, outermost, outcome metrics.
func NewServices(
	storages *store.Storages,
	hasher crypto.PasswordHasher,
	codec crypto.TokenCodec,
	cfg config.StructuredConfig,
	buildInfo models.AppBuildInfo,
	logger *logger.Logger,
) *Services {
	authService := NewAuthService(storages, hasher, codec, cfg.App, logger)
	authService = NewAuthValidationService().Wrap(authService)
	authService = NewAuthMetricsService().Wrap(authService)

	return &Services{
		AuthService:    authService,
		AppInfoService: NewAppInfoService(buildInfo, cfg.App),
	}
}
