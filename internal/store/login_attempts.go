// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	loginFailuresKeyPrefix = "forum:auth:login_failures:"

	// memoryCountersSweepThreshold bounds how many counters accumulate before
	// expired ones are purged.
	memoryCountersSweepThreshold = 10_000
)

// redisLoginAttemptStore keeps one counter per identifier. Every failure
// restarts the expiry, so the lock lifts one window after the last failure.
type redisLoginAttemptStore struct {
	client redis.UniversalClient
}

// NewRedisLoginAttemptStore returns a [LoginAttemptStore] shared by every
// server instance using the same Redis.
func NewRedisLoginAttemptStore(client redis.UniversalClient) LoginAttemptStore {
	return &redisLoginAttemptStore{client: client}
}

func (s *redisLoginAttemptStore) IsLocked(ctx context.Context, key string, limit int) (bool, error) {
	count, err := s.client.Get(ctx, loginFailuresKeyPrefix+key).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrLoginAttemptStore, err)
	}

	return count >= int64(limit), nil
}

func (s *redisLoginAttemptStore) RegisterFailure(ctx context.Context, key string, window time.Duration) (int64, error) {
	redisKey := loginFailuresKeyPrefix + key

	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, redisKey)
		p.Expire(ctx, redisKey, window)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrLoginAttemptStore, err)
	}

	return incr.Val(), nil
}

func (s *redisLoginAttemptStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, loginFailuresKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrLoginAttemptStore, err)
	}
	return nil
}

type attemptCounter struct {
	count     int64
	expiresAt time.Time
}

// memoryLoginAttemptStore is the single-process fallback used when Redis is
// not configured.
type memoryLoginAttemptStore struct {
	mu       sync.Mutex
	counters map[string]attemptCounter
	now      func() time.Time
}

// NewMemoryLoginAttemptStore returns a process-local [LoginAttemptStore].
func NewMemoryLoginAttemptStore() LoginAttemptStore {
	return &memoryLoginAttemptStore{
		counters: make(map[string]attemptCounter),
		now:      time.Now,
	}
}

func (s *memoryLoginAttemptStore) IsLocked(_ context.Context, key string, limit int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counter, ok := s.live(key)
	return ok && counter.count >= int64(limit), nil
}

func (s *memoryLoginAttemptStore) RegisterFailure(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.counters) >= memoryCountersSweepThreshold {
		s.sweep()
	}

	counter, _ := s.live(key)
	counter.count++
	counter.expiresAt = s.now().Add(window)
	s.counters[key] = counter

	return counter.count, nil
}

func (s *memoryLoginAttemptStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.counters, key)
	return nil
}

// live returns the counter of key, dropping it once expired. Callers hold mu.
func (s *memoryLoginAttemptStore) live(key string) (attemptCounter, bool) {
	counter, ok := s.counters[key]
	if !ok {
		return attemptCounter{}, false
	}
	if !s.now().Before(counter.expiresAt) {
		delete(s.counters, key)
		return attemptCounter{}, false
	}
	return counter, true
}

func (s *memoryLoginAttemptStore) sweep() {
	now := s.now()
	for key, counter := range s.counters {
		if !now.Before(counter.expiresAt) {
			delete(s.counters, key)
		}
	}
}
