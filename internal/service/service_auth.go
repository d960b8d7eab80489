// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-forum/internal/config"
	"github.com/MKhiriev/go-forum/internal/crypto"
	"github.com/MKhiriev/go-forum/internal/logger"
	"github.com/MKhiriev/go-forum/internal/store"
	"github.com/MKhiriev/go-forum/internal/utils"
	"github.com/MKhiriev/go-forum/internal/validators"
	"github.com/MKhiriev/go-forum/models"
	"github.com/rs/zerolog"
)

// tokenGenerator produces refresh-token values.
type tokenGenerator interface {
	Generate() string
}

// authService is the concrete implementation of AuthService.
//
// Password hashing never runs inside a transaction: bcrypt is slow and
// a retried transaction would repeat it.
type authService struct {
	transactor    store.Transactor
	users         store.UserRepository
	roles         store.RoleRepository
	loginAttempts store.LoginAttemptStore

	hasher crypto.PasswordHasher
	codec  crypto.TokenCodec
	tokens tokenGenerator

	accessTTL   time.Duration
	refreshTTL  time.Duration
	defaultRole string
	maxSessions int

	// loginMaxAttempts of 0 disables the lockout.
	loginMaxAttempts int
	lockoutWindow    time.Duration

	// dummyHash is compared against when the identifier is unknown, so
	// that both failure paths cost one bcrypt comparison.
	dummyHash     string
	dummyHashOnce sync.Once

	now    func() time.Time
	logger *logger.Logger
}

// NewAuthService wires the session issuer to the storages and the two
// crypto primitives. Token lifetimes and session policy come from cfg.
func NewAuthService(
	storages *store.Storages,
	hasher crypto.PasswordHasher,
	codec crypto.TokenCodec,
	cfg config.App,
	logger *logger.Logger,
) AuthService {
	return &authService{
		transactor:       storages.Transactor,
		users:            storages.UserRepository,
		roles:            storages.RoleRepository,
		loginAttempts:    storages.LoginAttemptStore,
		hasher:           hasher,
		codec:            codec,
		tokens:           utils.NewUUIDGenerator(),
		accessTTL:        cfg.AccessTokenTTL,
		refreshTTL:       cfg.RefreshTokenTTL,
		defaultRole:      cfg.DefaultRole,
		maxSessions:      cfg.MaxSessionsPerUser,
		loginMaxAttempts: cfg.LoginMaxAttempts,
		lockoutWindow:    cfg.LoginLockoutDuration,
		now:              time.Now,
		logger:           logger,
	}
}

// Register normalizes the username (trim) and the email (trim, lowercase),
// rejects taken ones with [ErrConflict] and stores the account with the
// default role before signing it in. The whole write happens in one
// transaction.
func (a *authService) Register(ctx context.Context, req models.RegisterRequest) (models.TokenPair, error) {
	log := logger.FromContext(ctx)

	username := strings.TrimSpace(req.Username)
	email := normalizeEmail(req.Email)

	passwordHash, err := a.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, crypto.ErrPasswordTooLong) {
			return models.TokenPair{}, fmt.Errorf("%w: %w", ErrValidationFailed, &validators.ValidationError{
				Fields: map[string]string{"password": "must be at most 72 bytes long"},
			})
		}
		log.Err(err).Str("func", "authService.Register").Msg("error hashing password")
		return models.TokenPair{}, fmt.Errorf("error hashing password: %w", err)
	}

	var pair models.TokenPair
	err = a.transactor.WithinTransaction(ctx, func(ctx context.Context, repos store.Repositories) error {
		taken, err := repos.Users.ExistsByUsername(ctx, username)
		if err != nil {
			return fmt.Errorf("error checking username: %w", err)
		}
		if taken {
			return ErrUsernameTaken
		}

		taken, err = repos.Users.ExistsByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("error checking email: %w", err)
		}
		if taken {
			return ErrEmailTaken
		}

		role, err := a.findDefaultRole(ctx, repos.Roles)
		if err != nil {
			return err
		}

		user, err := repos.Users.CreateUser(ctx, models.User{
			Username:     username,
			Email:        email,
			PasswordHash: passwordHash,
		}, []models.Role{role})
		switch {
		case errors.Is(err, store.ErrUsernameAlreadyExists):
			return ErrUsernameTaken
		case errors.Is(err, store.ErrEmailAlreadyExists):
			return ErrEmailTaken
		case err != nil:
			return fmt.Errorf("error creating user: %w", err)
		}

		pair, err = a.issueTokens(ctx, repos, PrincipalFromUser(user))
		return err
	})
	if err != nil {
		a.logFailure(log, "authService.Register", err).Str("username", username).Msg("registration failed")
		return models.TokenPair{}, err
	}

	log.Info().Str("username", username).Msg("user registered")
	return pair, nil
}

// Login resolves the user by username or email and checks the password.
// Unknown identifiers, wrong passwords, disabled accounts and locked
// identifiers all fail with the same [ErrAuthenticationFailed].
func (a *authService) Login(ctx context.Context, req models.LoginRequest) (models.TokenPair, error) {
	log := logger.FromContext(ctx)

	identifier := strings.TrimSpace(req.Identifier)
	lockKey := strings.ToLower(identifier)

	if a.lockoutEnabled() {
		locked, err := a.loginAttempts.IsLocked(ctx, lockKey, a.loginMaxAttempts)
		if err != nil {
			log.Warn().Err(err).Str("func", "authService.Login").Msg("login attempt store unavailable, lockout skipped")
		}
		if locked {
			log.Warn().Str("identifier", identifier).Msg("login rejected: identifier is locked")
			return models.TokenPair{}, ErrLoginLocked
		}
	}

	principal, err := a.checkCredentials(ctx, identifier, req.Password)
	if err != nil {
		if errors.Is(err, ErrAuthenticationFailed) {
			a.registerLoginFailure(ctx, lockKey)
		}
		a.logFailure(log, "authService.Login", err).Str("identifier", identifier).Msg("login failed")
		return models.TokenPair{}, err
	}

	if a.lockoutEnabled() {
		if err = a.loginAttempts.Reset(ctx, lockKey); err != nil {
			log.Warn().Err(err).Str("func", "authService.Login").Msg("error resetting failed login counter")
		}
	}

	pair, err := a.IssueTokens(ctx, principal)
	if err != nil {
		return models.TokenPair{}, err
	}

	log.Info().Int64("user_id", principal.UserID).Msg("user logged in")
	return pair, nil
}

// Refresh consumes the presented refresh token and issues a new pair.
//
// The token is revoked with a compare-and-set, so of two concurrent
// refreshes with one value only one succeeds. An expired token is revoked
// and the revocation is committed before the call fails.
func (a *authService) Refresh(ctx context.Context, req models.RefreshRequest) (models.TokenPair, error) {
	log := logger.FromContext(ctx)

	value := strings.TrimSpace(req.RefreshToken)

	var (
		pair models.TokenPair
		// rejection commits the revocation but fails the call
		rejection error
	)
	err := a.transactor.WithinTransaction(ctx, func(ctx context.Context, repos store.Repositories) error {
		rejection = nil

		token, err := a.consumeRefreshToken(ctx, repos.RefreshTokens, value)
		if err != nil {
			return err
		}

		if token.IsExpired(a.clock()) {
			rejection = ErrRefreshTokenExpired
			return nil
		}

		user, err := repos.Users.FindByID(ctx, token.UserID)
		if errors.Is(err, store.ErrUserNotFound) {
			rejection = ErrInvalidRefreshToken
			return nil
		}
		if err != nil {
			return fmt.Errorf("error loading refresh token owner: %w", err)
		}

		principal := PrincipalFromUser(user)
		if !principal.Enabled {
			rejection = ErrAccountDisabled
			return nil
		}

		pair, err = a.issueTokens(ctx, repos, principal)
		return err
	})
	if err == nil {
		err = rejection
	}
	if err != nil {
		a.logFailure(log, "authService.Refresh", err).Msg("refresh failed")
		return models.TokenPair{}, err
	}

	return pair, nil
}

func (a *authService) Logout(ctx context.Context, req models.RefreshRequest) error {
	log := logger.FromContext(ctx)

	value := strings.TrimSpace(req.RefreshToken)

	err := a.transactor.WithinTransaction(ctx, func(ctx context.Context, repos store.Repositories) error {
		_, err := a.consumeRefreshToken(ctx, repos.RefreshTokens, value)
		return err
	})
	if err != nil && !errors.Is(err, ErrInvalidRefreshToken) {
		log.Err(err).Str("func", "authService.Logout").Msg("error revoking refresh token")
		return err
	}

	return nil
}

func (a *authService) IssueTokens(ctx context.Context, principal models.Principal) (models.TokenPair, error) {
	var pair models.TokenPair
	err := a.transactor.WithinTransaction(ctx, func(ctx context.Context, repos store.Repositories) error {
		var err error
		pair, err = a.issueTokens(ctx, repos, principal)
		return err
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "authService.IssueTokens").
			Int64("user_id", principal.UserID).Msg("error issuing tokens")
		return models.TokenPair{}, err
	}

	return pair, nil
}

// Authenticate verifies a bearer access token and reloads its user, so a
// soft-deleted account loses access before its tokens expire.
func (a *authService) Authenticate(ctx context.Context, rawToken string) (models.Principal, error) {
	log := logger.FromContext(ctx)

	claims, err := a.codec.Verify(rawToken)
	if err != nil {
		log.Debug().Err(err).Str("func", "authService.Authenticate").Msg("access token rejected")
		return models.Principal{}, fmt.Errorf("%w: %w", ErrInvalidAccessToken, err)
	}

	user, err := a.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, store.ErrUserNotFound) {
		log.Warn().Int64("user_id", claims.UserID).Msg("access token of unknown user")
		return models.Principal{}, ErrInvalidAccessToken
	}
	if err != nil {
		log.Err(err).Str("func", "authService.Authenticate").Msg("error loading token owner")
		return models.Principal{}, fmt.Errorf("error loading token owner: %w", err)
	}

	principal := PrincipalFromUser(user)
	if !principal.Enabled {
		log.Warn().Int64("user_id", user.UserID).Msg("access token of disabled user")
		return models.Principal{}, ErrAccountDisabled
	}
	if principal.Username != claims.Subject {
		log.Warn().Int64("user_id", user.UserID).Msg("access token subject does not match user")
		return models.Principal{}, ErrInvalidAccessToken
	}

	principal.PasswordHash = ""
	return principal, nil
}

func (a *authService) CheckConfiguration(ctx context.Context) error {
	if _, err := a.findDefaultRole(ctx, a.roles); err != nil {
		a.logger.Err(err).Str("func", "authService.CheckConfiguration").
			Str("role", a.defaultRole).Msg("configuration check failed")
		return err
	}

	return nil
}

// issueTokens signs an access token for principal, drops the user's
// expired refresh tokens and stores a new one. With a session cap the
// oldest active tokens beyond it are revoked.
func (a *authService) issueTokens(ctx context.Context, repos store.Repositories, principal models.Principal) (models.TokenPair, error) {
	log := logger.FromContext(ctx)

	accessToken, err := a.codec.Issue(principal, a.accessTTL)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("error issuing access token: %w", err)
	}

	now := a.clock()

	deleted, err := repos.RefreshTokens.DeleteExpiredForUser(ctx, principal.UserID, now)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("error deleting expired refresh tokens: %w", err)
	}

	value := a.tokens.Generate()
	saved, err := repos.RefreshTokens.Save(ctx, models.RefreshToken{
		Token:     value,
		UserID:    principal.UserID,
		CreatedAt: now,
		ExpiresAt: now.Add(a.refreshTTL),
	})
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("error saving refresh token: %w", err)
	}

	var capped int64
	if a.maxSessions > 0 {
		capped, err = repos.RefreshTokens.RevokeExcessForUser(ctx, principal.UserID, a.maxSessions, now)
		if err != nil {
			return models.TokenPair{}, fmt.Errorf("error capping sessions: %w", err)
		}
	}

	log.Debug().
		Int64("user_id", principal.UserID).
		Int64("refresh_token_id", saved.ID).
		Int64("expired_deleted", deleted).
		Int64("sessions_revoked", capped).
		Msg("tokens issued")

	return models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: value,
		TokenType:    models.TokenTypeBearer,
		ExpiresIn:    int64(a.accessTTL / time.Second),
	}, nil
}

// consumeRefreshToken finds the active token with value and revokes it.
// A missing or concurrently revoked token is [ErrInvalidRefreshToken].
func (a *authService) consumeRefreshToken(ctx context.Context, tokens store.RefreshTokenRepository, value string) (models.RefreshToken, error) {
	if value == "" {
		return models.RefreshToken{}, ErrInvalidRefreshToken
	}

	token, err := tokens.FindActiveByValue(ctx, value)
	if errors.Is(err, store.ErrRefreshTokenNotFound) {
		return models.RefreshToken{}, ErrInvalidRefreshToken
	}
	if err != nil {
		return models.RefreshToken{}, fmt.Errorf("error finding refresh token: %w", err)
	}

	err = tokens.Revoke(ctx, token.ID, a.clock())
	if errors.Is(err, store.ErrRefreshTokenAlreadyRevoked) {
		return models.RefreshToken{}, ErrInvalidRefreshToken
	}
	if err != nil {
		return models.RefreshToken{}, fmt.Errorf("error revoking refresh token: %w", err)
	}

	return token, nil
}

// checkCredentials resolves identifier and verifies password outside any
// transaction.
func (a *authService) checkCredentials(ctx context.Context, identifier, password string) (models.Principal, error) {
	user, err := a.users.FindByIdentifier(ctx, identifier)
	if errors.Is(err, store.ErrUserNotFound) {
		a.hasher.Verify(password, a.dummyPasswordHash())
		return models.Principal{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.Principal{}, fmt.Errorf("error finding user: %w", err)
	}

	principal := PrincipalFromUser(user)
	if !a.hasher.Verify(password, principal.PasswordHash) {
		return models.Principal{}, ErrInvalidCredentials
	}
	if !principal.Enabled {
		return models.Principal{}, ErrAccountDisabled
	}

	return principal, nil
}

func (a *authService) findDefaultRole(ctx context.Context, roles store.RoleRepository) (models.Role, error) {
	role, err := roles.FindByCode(ctx, a.defaultRole)
	if errors.Is(err, store.ErrRoleNotFound) {
		return models.Role{}, fmt.Errorf("%w: %q", ErrDefaultRoleMissing, a.defaultRole)
	}
	if err != nil {
		return models.Role{}, fmt.Errorf("error finding default role: %w", err)
	}

	return role, nil
}

func (a *authService) registerLoginFailure(ctx context.Context, key string) {
	if !a.lockoutEnabled() {
		return
	}

	count, err := a.loginAttempts.RegisterFailure(ctx, key, a.lockoutWindow)
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("func", "authService.registerLoginFailure").
			Msg("error counting failed login")
		return
	}
	if count >= int64(a.loginMaxAttempts) {
		logger.FromContext(ctx).Warn().Str("identifier", key).Int64("failures", count).
			Dur("window", a.lockoutWindow).Msg("identifier locked out")
	}
}

func (a *authService) lockoutEnabled() bool {
	return a.loginMaxAttempts > 0 && a.loginAttempts != nil
}

// dummyPasswordHash is computed on first use with the configured cost.
func (a *authService) dummyPasswordHash() string {
	a.dummyHashOnce.Do(func() {
		hash, err := a.hasher.Hash(a.tokens.Generate())
		if err != nil {
			a.logger.Err(err).Str("func", "authService.dummyPasswordHash").Msg("error hashing dummy password")
			return
		}
		a.dummyHash = hash
	})

	return a.dummyHash
}

// clock is UTC with second granularity, matching access-token timestamps.
func (a *authService) clock() time.Time {
	return a.now().UTC().Truncate(time.Second)
}

// logFailure logs expected rejections at info and everything else at
// error level.
func (a *authService) logFailure(log *logger.Logger, funcName string, err error) *zerolog.Event {
	if isExpected(err) {
		return log.Info().Err(err).Str("func", funcName)
	}
	return log.Error().Err(err).Str("func", funcName)
}

func isExpected(err error) bool {
	return errors.Is(err, ErrAuthenticationFailed) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrValidationFailed)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
