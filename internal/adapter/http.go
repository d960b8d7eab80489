// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-forum/internal/logger"
	"github.com/MKhiriev/go-forum/models"
	"github.com/go-resty/resty/v2"
)

const defaultRequestTimeout = 15 * time.Second

// Config configures [NewHTTPServerAdapter].
type Config struct {
	// BaseURL is the server address, with or without scheme.
	BaseURL string

	// RequestTimeout bounds a single call; 15s when zero.
	RequestTimeout time.Duration
}

type httpServerAdapter struct {
	client *resty.Client

	mu     sync.RWMutex
	tokens models.TokenPair

	// refreshMu serializes rotations so concurrent 401s spend the refresh
	// token once.
	refreshMu sync.Mutex

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs the REST implementation of [ServerAdapter].
// It returns an error if cfg.BaseURL is empty or not a valid URL.
func NewHTTPServerAdapter(cfg Config, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter base url: %w", err)
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &httpServerAdapter{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyBaseURL
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpServerAdapter) SetTokens(pair models.TokenPair) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.tokens = pair
}

func (h *httpServerAdapter) Tokens() models.TokenPair {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.tokens
}

func (h *httpServerAdapter) Register(ctx context.Context, req models.RegisterRequest) (models.TokenPair, error) {
	return h.obtainPair(ctx, "/api/auth/register", req)
}

func (h *httpServerAdapter) Login(ctx context.Context, req models.LoginRequest) (models.TokenPair, error) {
	return h.obtainPair(ctx, "/api/auth/login", req)
}

func (h *httpServerAdapter) Refresh(ctx context.Context) (models.TokenPair, error) {
	h.refreshMu.Lock()
	defer h.refreshMu.Unlock()

	return h.refresh(ctx, h.Tokens().RefreshToken)
}

func (h *httpServerAdapter) Logout(ctx context.Context) error {
	refreshToken := h.Tokens().RefreshToken
	if refreshToken == "" {
		return ErrNoRefreshToken
	}

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.RefreshRequest{RefreshToken: refreshToken}).
		Post("/api/auth/logout")
	if err != nil {
		return fmt.Errorf("logout request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	h.SetTokens(models.TokenPair{})
	return nil
}

func (h *httpServerAdapter) Me(ctx context.Context) (models.PrincipalResponse, error) {
	var principal models.PrincipalResponse

	err := h.withAuthRetry(ctx, func(req *resty.Request) (*resty.Response, error) {
		return req.SetResult(&principal).Get("/api/auth/me")
	})
	if err != nil {
		return models.PrincipalResponse{}, fmt.Errorf("me request: %w", err)
	}

	return principal, nil
}

func (h *httpServerAdapter) Version(ctx context.Context) (models.AppBuildInfo, error) {
	var info models.AppBuildInfo

	resp, err := h.client.R().
		SetContext(ctx).
		SetResult(&info).
		Get("/api/version")
	if err != nil {
		return models.AppBuildInfo{}, fmt.Errorf("version request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.AppBuildInfo{}, err
	}

	return info, nil
}

func (h *httpServerAdapter) obtainPair(ctx context.Context, path string, body any) (models.TokenPair, error) {
	var pair models.TokenPair

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&pair).
		Post(path)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%s request: %w", path, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.TokenPair{}, err
	}

	h.SetTokens(pair)
	return pair, nil
}

// refresh must be called with refreshMu held.
func (h *httpServerAdapter) refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	if refreshToken == "" {
		return models.TokenPair{}, ErrNoRefreshToken
	}
	return h.obtainPair(ctx, "/api/auth/refresh", models.RefreshRequest{RefreshToken: refreshToken})
}

// withAuthRetry sends an authenticated request. On 401 it rotates the pair
// once and resends; a second 401 is returned as is.
func (h *httpServerAdapter) withAuthRetry(ctx context.Context, send func(req *resty.Request) (*resty.Response, error)) error {
	usedAccessToken := h.Tokens().AccessToken

	resp, err := send(h.authedRequest(ctx, usedAccessToken))
	if err != nil {
		return err
	}
	err = mapHTTPError(resp)
	if !errors.Is(err, ErrUnauthorized) {
		return err
	}

	if refreshErr := h.refreshIfStale(ctx, usedAccessToken); refreshErr != nil {
		h.logger.Debug().Err(refreshErr).Msg("token refresh after 401 failed")
		return err
	}

	resp, err = send(h.authedRequest(ctx, h.Tokens().AccessToken))
	if err != nil {
		return err
	}
	return mapHTTPError(resp)
}

// refreshIfStale rotates the pair unless another goroutine already replaced
// the access token that was rejected.
func (h *httpServerAdapter) refreshIfStale(ctx context.Context, rejectedAccessToken string) error {
	h.refreshMu.Lock()
	defer h.refreshMu.Unlock()

	current := h.Tokens()
	if current.AccessToken != rejectedAccessToken {
		return nil
	}

	_, err := h.refresh(ctx, current.RefreshToken)
	return err
}

func (h *httpServerAdapter) authedRequest(ctx context.Context, accessToken string) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if accessToken != "" {
		req.SetAuthToken(accessToken)
	}
	return req
}
