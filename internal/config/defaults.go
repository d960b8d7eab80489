// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultTokenIssuer          = "go-forum"
	DefaultAccessTokenTTL       = 15 * time.Minute
	DefaultRefreshTokenTTL      = 30 * 24 * time.Hour
	DefaultRoleCode             = "USER"
	DefaultLogLevel             = "info"
	DefaultLoginLockoutDuration = 15 * time.Minute
	DefaultHTTPAddress          = ":8080"
	DefaultRequestTimeout       = 30 * time.Second
	DefaultShutdownTimeout      = 10 * time.Second
	DefaultAuthRateLimit        = "20-M"
	DefaultTokenCleanupInterval = time.Hour
)

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:          DefaultTokenIssuer,
			AccessTokenTTL:       DefaultAccessTokenTTL,
			RefreshTokenTTL:      DefaultRefreshTokenTTL,
			PasswordHashCost:     bcrypt.DefaultCost,
			DefaultRole:          DefaultRoleCode,
			LoginLockoutDuration: DefaultLoginLockoutDuration,
			LogLevel:             DefaultLogLevel,
		},
		Storage: Storage{
			DB: DB{
				MaxOpenConns: 10,
				MaxIdleConns: 4,
			},
		},
		Server: Server{
			HTTPAddress:     DefaultHTTPAddress,
			RequestTimeout:  DefaultRequestTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
			AuthRateLimit:   DefaultAuthRateLimit,
		},
		Workers: Workers{
			TokenCleanupInterval: DefaultTokenCleanupInterval,
		},
	}
}
