// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the on-disk JSON layout of [StructuredConfig].
// Durations accept either Go duration strings ("15m") or nanoseconds.
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey         string   `json:"token_sign_key"`
		TokenIssuer          string   `json:"token_issuer"`
		AccessTokenTTL       Duration `json:"access_token_ttl"`
		RefreshTokenTTL      Duration `json:"refresh_token_ttl"`
		PasswordHashCost     int      `json:"password_hash_cost"`
		HashKey              string   `json:"hash_key"`
		DefaultRole          string   `json:"default_role"`
		MaxSessionsPerUser   int      `json:"max_sessions_per_user"`
		LoginMaxAttempts     int      `json:"login_max_attempts"`
		LoginLockoutDuration Duration `json:"login_lockout_duration"`
		LogLevel             string   `json:"log_level"`
		Version              string   `json:"version"`
	} `json:"app"`

	Storage struct {
		DB struct {
			DSN            string `json:"dsn"`
			MaxOpenConns   int    `json:"max_open_conns"`
			MaxIdleConns   int    `json:"max_idle_conns"`
			SkipMigrations bool   `json:"skip_migrations"`
		} `json:"db"`

		Redis struct {
			Address  string `json:"address"`
			Password string `json:"password"`
			DB       int    `json:"db"`
		} `json:"redis"`
	} `json:"storage"`

	Server struct {
		HTTPAddress     string   `json:"http_address"`
		GRPCAddress     string   `json:"grpc_address"`
		RequestTimeout  Duration `json:"request_timeout"`
		ShutdownTimeout Duration `json:"shutdown_timeout"`
		AuthRateLimit   string   `json:"auth_rate_limit"`
	} `json:"server"`

	Workers struct {
		TokenCleanupInterval Duration `json:"token_cleanup_interval"`
		DisableTokenCleanup  bool     `json:"disable_token_cleanup"`
	} `json:"workers"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	return &StructuredConfig{
		App: App{
			TokenSignKey:         jsonCfg.App.TokenSignKey,
			TokenIssuer:          jsonCfg.App.TokenIssuer,
			AccessTokenTTL:       time.Duration(jsonCfg.App.AccessTokenTTL),
			RefreshTokenTTL:      time.Duration(jsonCfg.App.RefreshTokenTTL),
			PasswordHashCost:     jsonCfg.App.PasswordHashCost,
			HashKey:              jsonCfg.App.HashKey,
			DefaultRole:          jsonCfg.App.DefaultRole,
			MaxSessionsPerUser:   jsonCfg.App.MaxSessionsPerUser,
			LoginMaxAttempts:     jsonCfg.App.LoginMaxAttempts,
			LoginLockoutDuration: time.Duration(jsonCfg.App.LoginLockoutDuration),
			LogLevel:             jsonCfg.App.LogLevel,
			Version:              jsonCfg.App.Version,
		},
		Storage: Storage{
			DB: DB{
				DSN:            jsonCfg.Storage.DB.DSN,
				MaxOpenConns:   jsonCfg.Storage.DB.MaxOpenConns,
				MaxIdleConns:   jsonCfg.Storage.DB.MaxIdleConns,
				SkipMigrations: jsonCfg.Storage.DB.SkipMigrations,
			},
			Redis: Redis{
				Address:  jsonCfg.Storage.Redis.Address,
				Password: jsonCfg.Storage.Redis.Password,
				DB:       jsonCfg.Storage.Redis.DB,
			},
		},
		Server: Server{
			HTTPAddress:     jsonCfg.Server.HTTPAddress,
			GRPCAddress:     jsonCfg.Server.GRPCAddress,
			RequestTimeout:  time.Duration(jsonCfg.Server.RequestTimeout),
			ShutdownTimeout: time.Duration(jsonCfg.Server.ShutdownTimeout),
			AuthRateLimit:   jsonCfg.Server.AuthRateLimit,
		},
		Workers: Workers{
			TokenCleanupInterval: time.Duration(jsonCfg.Workers.TokenCleanupInterval),
			DisableTokenCleanup:  jsonCfg.Workers.DisableTokenCleanup,
		},
	}, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
