// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-forum/internal/config"
	"github.com/MKhiriev/go-forum/internal/logger"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const rateLimitKeyPrefix = "forum:ratelimit"

// newRateLimiter parses a formatted rate such as "20-M" and builds a limiter
// keyed by client IP. Counters live in Redis when a client is given and in
// process memory otherwise. An empty rate or [config.RateLimitOff] returns
// a nil limiter.
func newRateLimiter(formatted string, redisClient *redis.Client) (*limiter.Limiter, error) {
	formatted = strings.TrimSpace(formatted)
	if formatted == "" || strings.EqualFold(formatted, config.RateLimitOff) {
		return nil, nil
	}

	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit %q: %w", formatted, err)
	}

	options := limiter.StoreOptions{Prefix: rateLimitKeyPrefix}

	var store limiter.Store
	if redisClient != nil {
		store, err = sredis.NewStoreWithOptions(redisClient, options)
		if err != nil {
			return nil, fmt.Errorf("rate limit redis store: %w", err)
		}
	} else {
		options.CleanUpInterval = limiter.DefaultCleanUpInterval
		store = memory.NewStoreWithOptions(options)
	}

	return limiter.New(store, rate), nil
}

// withRateLimit applies the per-IP quota. It sets the X-RateLimit-* headers
// and answers 429 once the quota is spent. Limiter store failures let the
// request through.
func (h *Handler) withRateLimit(next http.Handler) http.Handler {
	if h.limiter == nil {
		return next
	}

	middleware := stdlib.NewMiddleware(h.limiter,
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			h.writeError(w, r, ErrRateLimitExceeded)
		}),
		stdlib.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			logger.FromRequest(r).Err(err).Msg("rate limiter store failed, letting request through")
			next.ServeHTTP(w, r)
		}),
	)

	return middleware.Handler(next)
}
