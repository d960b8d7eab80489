// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package grpc

import (
	"context"

	"github.com/MKhiriev/go-forum/internal/logger"
	"github.com/MKhiriev/go-forum/internal/service"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Handler is the root gRPC transport handler.
//
// It stores references to the service layer, the health server and the
// structured logger. A handler instance is created once at startup and
// shared by the gRPC server.
type Handler struct {
	// services provides access to all application business operations.
	services *service.Services

	health *health.Server

	// logger is used for diagnostic log output outside of calls.
	logger *logger.Logger
}

// NewHandler constructs a [Handler]. Health starts as NOT_SERVING until
// [Handler.CheckHealth] succeeds.
func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Debug().Msg("gRPC handler created")

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	healthServer.SetServingStatus(AuthServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return &Handler{
		services: services,
		health:   healthServer,
		logger:   logger,
	}
}

// Register attaches the health and token introspection services.
func (h *Handler) Register(registrar grpc.ServiceRegistrar) {
	healthpb.RegisterHealthServer(registrar, h.health)
	registerAuthService(registrar, h)
}

// ServerOptions returns the options every gRPC server built for this
// handler must use.
func (h *Handler) ServerOptions() []grpc.ServerOption {
	return []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(h.UnaryLoggingInterceptor),
	}
}

// CheckHealth runs the authentication core's configuration check and
// publishes the result as the serving status.
func (h *Handler) CheckHealth(ctx context.Context) error {
	status := healthpb.HealthCheckResponse_SERVING

	err := h.services.AuthService.CheckConfiguration(ctx)
	if err != nil {
		h.logger.Err(err).Msg("configuration check failed, gRPC health set to NOT_SERVING")
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(AuthServiceName, status)

	return err
}

// Shutdown flips every service to NOT_SERVING so that watchers drain
// traffic before the listener closes.
func (h *Handler) Shutdown() {
	h.health.Shutdown()
}
