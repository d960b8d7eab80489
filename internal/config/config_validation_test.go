// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() StructuredConfig {
	cfg := *defaultConfig()
	cfg.App.TokenSignKey = testSignKey
	cfg.App.HashKey = testSignKey
	cfg.Storage.DB.DSN = "postgres://forum@localhost/forum"
	return cfg
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.validate())
}

func TestValidate_Violations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *StructuredConfig)
		wantErr error
	}{
		{
			name:    "blank sign key",
			mutate:  func(cfg *StructuredConfig) { cfg.App.TokenSignKey = "   " },
			wantErr: ErrInvalidAppConfigs,
		},
		{
			name:    "short sign key",
			mutate:  func(cfg *StructuredConfig) { cfg.App.TokenSignKey = "short-key" },
			wantErr: ErrInvalidAppConfigs,
		},
		{
			name:    "blank issuer",
			mutate:  func(cfg *StructuredConfig) { cfg.App.TokenIssuer = "" },
			wantErr: ErrInvalidAppConfigs,
		},
		{
			name:    "zero access ttl",
			mutate:  func(cfg *StructuredConfig) { cfg.App.AccessTokenTTL = 0 },
			wantErr: ErrInvalidAppConfigs,
		},
		{
			name:    "sub-second access ttl",
			mutate:  func(cfg *StructuredConfig) { cfg.App.AccessTokenTTL = 500 * time.Millisecond },
			wantErr: ErrInvalidAppConfigs,
		},
		{
			name:    "fractional refresh ttl",
			mutate:  func(cfg *StructuredConfig) { cfg.App.RefreshTokenTTL = time.Hour + time.Millisecond },
			wantErr: ErrInvalidAppConfigs,
		},
		{
			name:    "hash cost too low",
			mutate:  func(cfg *StructuredConfig) { cfg.App.PasswordHashCost = 3 },
			wantErr: ErrInvalidAppConfigs,
		},
		{
			name:    "hash cost too high",
			mutate:  func(cfg *StructuredConfig) { cfg.App.PasswordHashCost = 32 },
			wantErr: ErrInvalidAppConfigs,
		},
		{
			name:    "blank default role",
			mutate:  func(cfg *StructuredConfig) { cfg.App.DefaultRole = " " },
			wantErr: ErrInvalidAppConfigs,
		},
		{
			name:    "negative session cap",
			mutate:  func(cfg *StructuredConfig) { cfg.App.MaxSessionsPerUser = -1 },
			wantErr: ErrInvalidAppConfigs,
		},
		{
			name: "lockout without duration",
			mutate: func(cfg *StructuredConfig) {
				cfg.App.LoginMaxAttempts = 5
				cfg.App.LoginLockoutDuration = 0
			},
			wantErr: ErrInvalidAppConfigs,
		},
		{
			name:    "unknown log level",
			mutate:  func(cfg *StructuredConfig) { cfg.App.LogLevel = "chatty" },
			wantErr: ErrInvalidAppConfigs,
		},
		{
			name:    "missing DSN",
			mutate:  func(cfg *StructuredConfig) { cfg.Storage.DB.DSN = "" },
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name:    "negative pool size",
			mutate:  func(cfg *StructuredConfig) { cfg.Storage.DB.MaxOpenConns = -1 },
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name: "no listen address",
			mutate: func(cfg *StructuredConfig) {
				cfg.Server.HTTPAddress = ""
				cfg.Server.GRPCAddress = ""
			},
			wantErr: ErrInvalidServerConfigs,
		},
		{
			name:    "negative request timeout",
			mutate:  func(cfg *StructuredConfig) { cfg.Server.RequestTimeout = -time.Second },
			wantErr: ErrInvalidServerConfigs,
		},
		{
			name:    "malformed rate limit",
			mutate:  func(cfg *StructuredConfig) { cfg.Server.AuthRateLimit = "twenty per minute" },
			wantErr: ErrInvalidServerConfigs,
		},
		{
			name:    "zero cleanup interval",
			mutate:  func(cfg *StructuredConfig) { cfg.Workers.TokenCleanupInterval = 0 },
			wantErr: ErrInvalidWorkerConfigs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.validate(), tt.wantErr)
		})
	}
}

func TestValidate_Accepts(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *StructuredConfig)
	}{
		{name: "default hash cost", mutate: func(cfg *StructuredConfig) { cfg.App.PasswordHashCost = 0 }},
		{name: "rate limit off", mutate: func(cfg *StructuredConfig) { cfg.Server.AuthRateLimit = RateLimitOff }},
		{name: "grpc only", mutate: func(cfg *StructuredConfig) {
			cfg.Server.HTTPAddress = ""
			cfg.Server.GRPCAddress = ":9090"
		}},
		{name: "cleanup disabled", mutate: func(cfg *StructuredConfig) {
			cfg.Workers.TokenCleanupInterval = 0
			cfg.Workers.DisableTokenCleanup = true
		}},
		{name: "lockout disabled", mutate: func(cfg *StructuredConfig) {
			cfg.App.LoginMaxAttempts = 0
			cfg.App.LoginLockoutDuration = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			assert.NoError(t, cfg.validate())
		})
	}
}

func TestValidate_ReportsAllViolations(t *testing.T) {
	cfg := validConfig()
	cfg.App.TokenIssuer = ""
	cfg.Storage.DB.DSN = ""

	err := cfg.validate()

	assert.ErrorIs(t, err, ErrInvalidAppConfigs)
	assert.ErrorIs(t, err, ErrInvalidStorageConfigs)
}
