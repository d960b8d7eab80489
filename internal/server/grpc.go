// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"fmt"
	"net"

	"github.com/MKhiriev/go-forum/internal/config"
	myGRPC "github.com/MKhiriev/go-forum/internal/handler/grpc"
	"github.com/MKhiriev/go-forum/internal/logger"

	"google.golang.org/grpc"
)

type grpcServer struct {
	handler *myGRPC.Handler
	address string

	server *grpc.Server

	logger *logger.Logger
}

func newGRPCServer(handler *myGRPC.Handler, cfg config.Server, logger *logger.Logger) *grpcServer {
	server := grpc.NewServer(handler.ServerOptions()...)
	handler.Register(server)

	return &grpcServer{
		handler: handler,
		address: cfg.GRPCAddress,
		server:  server,
		logger:  logger,
	}
}

func (g *grpcServer) RunServer(ctx context.Context) error {
	listener, err := (&net.ListenConfig{}).Listen(ctx, "tcp", g.address)
	if err != nil {
		return fmt.Errorf("gRPC server Listen: %w", err)
	}

	g.logger.Info().Str("address", listener.Addr().String()).Msg("launching gRPC server")

	if err = g.handler.CheckHealth(ctx); err != nil {
		g.logger.Warn().Err(err).Msg("gRPC server starts as NOT_SERVING")
	}

	if err = g.server.Serve(listener); err != nil {
		return fmt.Errorf("gRPC server Serve: %w", err)
	}
	return nil
}

func (g *grpcServer) Shutdown(ctx context.Context) error {
	g.logger.Info().Msg("gRPC server Shutdown")
	g.handler.Shutdown()

	stopped := make(chan struct{})
	go func() {
		g.server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		g.server.Stop()
		return fmt.Errorf("gRPC server Shutdown: %w", ctx.Err())
	}
}
