// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/ulule/limiter/v3"
	"golang.org/x/crypto/bcrypt"
)

// MinTokenSignKeyLength is the minimal HS256 secret length in bytes.
const MinTokenSignKeyLength = 32

// validate checks that the final merged [StructuredConfig] satisfies all
// startup invariants. All violations are reported together.
func (cfg *StructuredConfig) validate() error {
	return errors.Join(
		cfg.App.validate(),
		cfg.Storage.validate(),
		cfg.Server.validate(),
		cfg.Workers.validate(),
	)
}

func (a App) validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidAppConfigs}, args...)...))
	}

	switch {
	case strings.TrimSpace(a.TokenSignKey) == "":
		fail("token sign key is required")
	case len(a.TokenSignKey) < MinTokenSignKeyLength:
		fail("token sign key must be at least %d bytes", MinTokenSignKeyLength)
	}

	if strings.TrimSpace(a.TokenIssuer) == "" {
		fail("token issuer is required")
	}
	if err := validateTTL(a.AccessTokenTTL); err != nil {
		fail("access token ttl: %v", err)
	}
	if err := validateTTL(a.RefreshTokenTTL); err != nil {
		fail("refresh token ttl: %v", err)
	}
	if a.PasswordHashCost != 0 && (a.PasswordHashCost < bcrypt.MinCost || a.PasswordHashCost > bcrypt.MaxCost) {
		fail("password hash cost must be in range %d..%d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if strings.TrimSpace(a.DefaultRole) == "" {
		fail("default role is required")
	}
	if a.MaxSessionsPerUser < 0 {
		fail("max sessions per user must not be negative")
	}
	if a.LoginMaxAttempts < 0 {
		fail("login max attempts must not be negative")
	}
	if a.LoginMaxAttempts > 0 && a.LoginLockoutDuration <= 0 {
		fail("login lockout duration must be positive when lockout is enabled")
	}
	if a.LogLevel != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(a.LogLevel)); err != nil {
			fail("log level: %v", err)
		}
	}

	return errors.Join(errs...)
}

// validateTTL requires a positive whole number of seconds.
func validateTTL(ttl time.Duration) error {
	if ttl < time.Second {
		return errors.New("must be at least one second")
	}
	if ttl%time.Second != 0 {
		return errors.New("must be a whole number of seconds")
	}
	return nil
}

func (s Storage) validate() error {
	if strings.TrimSpace(s.DB.DSN) == "" {
		return fmt.Errorf("%w: database DSN is required", ErrInvalidStorageConfigs)
	}
	if s.DB.MaxOpenConns < 0 || s.DB.MaxIdleConns < 0 {
		return fmt.Errorf("%w: connection limits must not be negative", ErrInvalidStorageConfigs)
	}
	return nil
}

func (s Server) validate() error {
	if s.HTTPAddress == "" && s.GRPCAddress == "" {
		return fmt.Errorf("%w: HTTP or gRPC address is required", ErrInvalidServerConfigs)
	}
	if s.RequestTimeout < 0 || s.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: timeouts must not be negative", ErrInvalidServerConfigs)
	}
	if s.AuthRateLimit != "" && s.AuthRateLimit != RateLimitOff {
		if _, err := limiter.NewRateFromFormatted(s.AuthRateLimit); err != nil {
			return fmt.Errorf("%w: auth rate limit: %w", ErrInvalidServerConfigs, err)
		}
	}
	return nil
}

func (w Workers) validate() error {
	if !w.DisableTokenCleanup && w.TokenCleanupInterval <= 0 {
		return fmt.Errorf("%w: token cleanup interval must be positive", ErrInvalidWorkerConfigs)
	}
	return nil
}
