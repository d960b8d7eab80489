// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-forum/internal/validators"
	"github.com/MKhiriev/go-forum/models"
)

// AuthServiceWrapper defines middleware composition for AuthService.
// Implementations wrap an existing AuthService to add behavior such as
// validation or metrics.
type AuthServiceWrapper interface {
	Wrap(AuthService) AuthService // returns a decorated AuthService applying additional behavior
}

// AuthValidationService rejects malformed requests with
// [ErrValidationFailed] before they reach the wrapped service.
type AuthValidationService struct {
	inner     AuthService
	validator validators.Validator
}

func NewAuthValidationService() AuthServiceWrapper {
	return &AuthValidationService{
		validator: validators.NewAuthValidator(),
	}
}

func (v *AuthValidationService) Register(ctx context.Context, req models.RegisterRequest) (models.TokenPair, error) {
	if err := v.validate(ctx, req); err != nil {
		return models.TokenPair{}, err
	}

	return v.inner.Register(ctx, req)
}

func (v *AuthValidationService) Login(ctx context.Context, req models.LoginRequest) (models.TokenPair, error) {
	if err := v.validate(ctx, req); err != nil {
		return models.TokenPair{}, err
	}

	return v.inner.Login(ctx, req)
}

func (v *AuthValidationService) Refresh(ctx context.Context, req models.RefreshRequest) (models.TokenPair, error) {
	if err := v.validate(ctx, req); err != nil {
		return models.TokenPair{}, err
	}

	return v.inner.Refresh(ctx, req)
}

func (v *AuthValidationService) Logout(ctx context.Context, req models.RefreshRequest) error {
	if err := v.validate(ctx, req); err != nil {
		return err
	}

	return v.inner.Logout(ctx, req)
}

func (v *AuthValidationService) IssueTokens(ctx context.Context, principal models.Principal) (models.TokenPair, error) {
	if principal.UserID <= 0 || principal.Username == "" {
		return models.TokenPair{}, fmt.Errorf("%w: principal without identity", ErrValidationFailed)
	}

	return v.inner.IssueTokens(ctx, principal)
}

func (v *AuthValidationService) Authenticate(ctx context.Context, rawToken string) (models.Principal, error) {
	return v.inner.Authenticate(ctx, rawToken)
}

func (v *AuthValidationService) CheckConfiguration(ctx context.Context) error {
	return v.inner.CheckConfiguration(ctx)
}

func (v *AuthValidationService) Wrap(wrapped AuthService) AuthService {
	v.inner = wrapped
	return v
}

func (v *AuthValidationService) validate(ctx context.Context, req any) error {
	if err := v.validator.Validate(ctx, req); err != nil {
		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	return nil
}
