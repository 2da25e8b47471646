package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gptading/backend/internal/model"
	"gptading/backend/internal/seed"
	"gptading/backend/pkg/redis"
)

const (
	sessionLockTTL     = 5 * time.Second
	sessionLockRetry   = 20 * time.Millisecond
	sessionLockRetries = 100
)

// RedisSessionRepository stores sessions as JSON with a sliding TTL
type RedisSessionRepository struct {
	redis *redis.Client
	ttl   time.Duration
	seed  seed.Func
}

// NewRedisSessionRepository creates a Redis-backed store
func NewRedisSessionRepository(redisClient *redis.Client, ttl time.Duration, seedFn seed.Func) *RedisSessionRepository {
	return &RedisSessionRepository{
		redis: redisClient,
		ttl:   ttl,
		seed:  seedFn,
	}
}

func (r *RedisSessionRepository) Name() string { return "redis" }

func (r *RedisSessionRepository) Ping(ctx context.Context) error {
	return r.redis.Ping(ctx)
}

// Get reads the session, creating it under the session lock when missing
func (r *RedisSessionRepository) Get(ctx context.Context, sessionID string) (*model.SessionState, error) {
	if sessionID == "" {
		return nil, ErrEmptySessionID
	}

	key := redis.SessionKey(sessionID)
	var state model.SessionState
	err := r.redis.GetJSON(ctx, key, &state)
	if err == nil {
		if err := r.redis.Expire(ctx, key, r.ttl); err != nil {
			return nil, fmt.Errorf("refresh session ttl: %w", err)
		}
		return &state, nil
	}
	if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get session: %w", err)
	}

	return r.Update(ctx, sessionID, func(*model.SessionState) error { return nil })
}

// Update applies fn while holding the session lock
func (r *RedisSessionRepository) Update(ctx context.Context, sessionID string, fn func(*model.SessionState) error) (*model.SessionState, error) {
	if sessionID == "" {
		return nil, ErrEmptySessionID
	}

	key := redis.SessionKey(sessionID)
	var result *model.SessionState

	err := r.redis.WithLock(ctx, redis.SessionLockKey(sessionID), sessionLockTTL, sessionLockRetry, sessionLockRetries, func() error {
		state, err := r.load(ctx, key)
		if err != nil {
			return err
		}
		if err := fn(state); err != nil {
			return err
		}
		state.UpdatedAt = time.Now().UTC()

		if err := r.redis.SetJSON(ctx, key, state, r.ttl); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		result = state
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Delete removes the session key
func (r *RedisSessionRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.redis.Del(ctx, redis.SessionKey(sessionID)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *RedisSessionRepository) load(ctx context.Context, key string) (*model.SessionState, error) {
	var state model.SessionState
	err := r.redis.GetJSON(ctx, key, &state)
	switch {
	case err == nil:
		return &state, nil
	case errors.Is(err, redis.Nil):
		fresh := r.seed()
		now := time.Now().UTC()
		fresh.CreatedAt = now
		fresh.UpdatedAt = now
		return fresh, nil
	default:
		return nil, fmt.Errorf("load session: %w", err)
	}
}
