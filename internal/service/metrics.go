// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-forum/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values of [authOperations].
const (
	OutcomeSuccess              = "success"
	OutcomeValidationFailed     = "validation_failed"
	OutcomeConflict             = "conflict"
	OutcomeAuthenticationFailed = "authentication_failed"
	OutcomeConfigurationFault   = "configuration_fault"
	OutcomeError                = "error"
)

var authOperations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "forum",
	Subsystem: "auth",
	Name:      "operations_total",
	Help:      "Authentication operations by outcome.",
}, []string{"operation", "outcome"})

// AuthMetricsService counts the outcome of every session operation.
type AuthMetricsService struct {
	inner    AuthService
	counters *prometheus.CounterVec
}

func NewAuthMetricsService() AuthServiceWrapper {
	return &AuthMetricsService{counters: authOperations}
}

func (m *AuthMetricsService) Register(ctx context.Context, req models.RegisterRequest) (models.TokenPair, error) {
	pair, err := m.inner.Register(ctx, req)
	m.observe("register", err)
	return pair, err
}

func (m *AuthMetricsService) Login(ctx context.Context, req models.LoginRequest) (models.TokenPair, error) {
	pair, err := m.inner.Login(ctx, req)
	m.observe("login", err)
	return pair, err
}

func (m *AuthMetricsService) Refresh(ctx context.Context, req models.RefreshRequest) (models.TokenPair, error) {
	pair, err := m.inner.Refresh(ctx, req)
	m.observe("refresh", err)
	return pair, err
}

func (m *AuthMetricsService) Logout(ctx context.Context, req models.RefreshRequest) error {
	err := m.inner.Logout(ctx, req)
	m.observe("logout", err)
	return err
}

func (m *AuthMetricsService) IssueTokens(ctx context.Context, principal models.Principal) (models.TokenPair, error) {
	return m.inner.IssueTokens(ctx, principal)
}

func (m *AuthMetricsService) Authenticate(ctx context.Context, rawToken string) (models.Principal, error) {
	principal, err := m.inner.Authenticate(ctx, rawToken)
	m.observe("authenticate", err)
	return principal, err
}

func (m *AuthMetricsService) CheckConfiguration(ctx context.Context) error {
	return m.inner.CheckConfiguration(ctx)
}

func (m *AuthMetricsService) Wrap(wrapped AuthService) AuthService {
	m.inner = wrapped
	return m
}

func (m *AuthMetricsService) observe(operation string, err error) {
	m.counters.WithLabelValues(operation, Outcome(err)).Inc()
}

// Outcome maps an operation error onto its taxonomy label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrValidationFailed):
		return OutcomeValidationFailed
	case errors.Is(err, ErrConflict):
		return OutcomeConflict
	case errors.Is(err, ErrAuthenticationFailed):
		return OutcomeAuthenticationFailed
	case errors.Is(err, ErrConfigurationFault):
		return OutcomeConfigurationFault
	default:
		return OutcomeError
	}
}
