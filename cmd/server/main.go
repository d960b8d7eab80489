// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-forum/internal/config"
	"github.com/MKhiriev/go-forum/internal/crypto"
	"github.com/MKhiriev/go-forum/internal/handler"
	"github.com/MKhiriev/go-forum/internal/logger"
	"github.com/MKhiriev/go-forum/internal/server"
	"github.com/MKhiriev/go-forum/internal/service"
	"github.com/MKhiriev/go-forum/internal/store"
	"github.com/MKhiriev/go-forum/internal/workers"
	"github.com/MKhiriev/go-forum/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	printBuildInfo(buildInfo)

	cfg, err := config.GetStructuredConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error getting configs: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger("go-forum-server", cfg.App.LogLevel)
	log.Debug().
		Str("http_address", cfg.Server.HTTPAddress).
		Str("grpc_address", cfg.Server.GRPCAddress).
		Bool("redis", cfg.Storage.Redis.Address != "").
		Dur("access_token_ttl", cfg.App.AccessTokenTTL).
		Dur("refresh_token_ttl", cfg.App.RefreshTokenTTL).
		Msg("received configs")

	if err = run(cfg, buildInfo, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(cfg *config.StructuredConfig, buildInfo models.AppBuildInfo, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	storages, err := store.NewStorages(ctx, cfg.Storage, cfg.App.HashKey, log)
	if err != nil {
		return fmt.Errorf("error creating storages: %w", err)
	}
	defer func() {
		if closeErr := storages.Close(); closeErr != nil {
			log.Err(closeErr).Msg("error closing storages")
		}
	}()

	hasher, err := crypto.NewPasswordHasher(cfg.App.PasswordHashCost)
	if err != nil {
		return fmt.Errorf("error creating password hasher: %w", err)
	}
	codec, err := crypto.NewTokenCodec(cfg.App.TokenSignKey, cfg.App.TokenIssuer)
	if err != nil {
		return fmt.Errorf("error creating token codec: %w", err)
	}

	services := service.NewServices(storages, hasher, codec, *cfg, buildInfo, log)
	if err = services.AuthService.CheckConfiguration(ctx); err != nil {
		return fmt.Errorf("refusing to start: %w", err)
	}

	handlers, err := handler.NewHandlers(services, cfg.Server, storages.Redis, log)
	if err != nil {
		return fmt.Errorf("error creating handlers: %w", err)
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		return fmt.Errorf("error creating server: %w", err)
	}

	backgroundWorkers := workers.NewWorkers(storages, cfg.Workers, log)
	backgroundWorkers.Run(ctx)

	runErr := srv.RunServer(ctx)

	// a failed server does not cancel ctx by itself
	stop()
	backgroundWorkers.Wait()

	return runErr
}

func printBuildInfo(info models.AppBuildInfo) {
	fmt.Printf("Build version: %s\n", info.BuildVersion)
	fmt.Printf("Build date: %s\n", info.BuildDate)
	fmt.Printf("Build commit: %s\n", info.BuildCommit)
}
