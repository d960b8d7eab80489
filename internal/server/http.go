// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MKhiriev/go-forum/internal/config"
	"github.com/MKhiriev/go-forum/internal/logger"
)

const (
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 2 * time.Minute
)

type httpServer struct {
	server *http.Server
	logger *logger.Logger
}

func newHTTPServer(handler http.Handler, cfg config.Server, logger *logger.Logger) *httpServer {
	return &httpServer{
		server: &http.Server{
			Addr:              cfg.HTTPAddress,
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
			IdleTimeout:       idleTimeout,
			ErrorLog:          logger.StdLogger(),
		},
		logger: logger,
	}
}

func (h *httpServer) RunServer(ctx context.Context) error {
	h.logger.Info().Str("address", h.server.Addr).Msg("launching HTTP server")

	if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server ListenAndServe: %w", err)
	}
	return nil
}

func (h *httpServer) Shutdown(ctx context.Context) error {
	h.logger.Info().Msg("HTTP server Shutdown")

	if err := h.server.Shutdown(ctx); err != nil {
		_ = h.server.Close()
		return fmt.Errorf("HTTP server Shutdown: %w", err)
	}
	return nil
}
