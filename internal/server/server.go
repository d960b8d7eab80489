// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"errors"
	"time"

	"github.com/MKhiriev/go-forum/internal/config"
	"github.com/MKhiriev/go-forum/internal/handler"
	"github.com/MKhiriev/go-forum/internal/logger"
)

type server struct {
	httpServer Server
	gRPCServer Server

	shutdownTimeout time.Duration

	logger *logger.Logger
}

// NewServer creates a server for every handler present in handlers.
func NewServer(handlers *handler.Handlers, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")
	servers := &server{
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logger,
	}

	if handlers.HTTP != nil && cfg.HTTPAddress != "" {
		servers.httpServer = newHTTPServer(handlers.HTTP.Init(), cfg, logger)
	}
	if handlers.GRPC != nil && cfg.GRPCAddress != "" {
		servers.gRPCServer = newGRPCServer(handlers.GRPC, cfg, logger)
	}

	if servers.httpServer == nil && servers.gRPCServer == nil {
		return nil, errNoServersAreCreated
	}

	return servers, nil
}

// RunServer launches every created server and blocks until ctx is
// cancelled or one of them fails. Either way all servers are shut down
// before it returns.
func (s *server) RunServer(ctx context.Context) error {
	running := s.servers()
	errCh := make(chan error, len(running))

	for _, srv := range running {
		go func() {
			errCh <- srv.RunServer(ctx)
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		s.logger.Info().Msg("stop signal received")
	case runErr = <-errCh:
		if runErr != nil {
			s.logger.Err(runErr).Msg("server stopped unexpectedly")
		}
	}

	shutdownCtx := context.Background()
	if s.shutdownTimeout > 0 {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(shutdownCtx, s.shutdownTimeout)
		defer cancel()
	}

	if err := s.Shutdown(shutdownCtx); err != nil {
		s.logger.Err(err).Msg("error during shutdown")
		runErr = errors.Join(runErr, err)
	} else {
		s.logger.Info().Msg("server Shutdown gracefully")
	}

	return runErr
}

// Shutdown stops the HTTP server first, then the gRPC server.
func (s *server) Shutdown(ctx context.Context) error {
	var errs []error
	for _, srv := range s.servers() {
		if err := srv.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *server) servers() []Server {
	var list []Server
	if s.httpServer != nil {
		list = append(list, s.httpServer)
	}
	if s.gRPCServer != nil {
		list = append(list, s.gRPCServer)
	}
	return list
}
