package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockNotAcquired is returned when a lock is still held after all retries
var ErrLockNotAcquired = errors.New("redis: lock not acquired")

// SetJSON sets a key with JSON-encoded value
func (c *Client) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, expiration)
}

// GetJSON gets a key and decodes JSON value
func (c *Client) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

// SetNX sets a key only if it does not exist
func (c *Client) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return c.client.SetNX(ctx, key, value, expiration).Result()
}

// unlockScript deletes the lock only while it still holds the caller's token
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LockKey tries to acquire a distributed lock. On success it returns the token
// that UnlockKey needs to release it.
func (c *Client) LockKey(ctx context.Context, key string, expiration time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := c.SetNX(ctx, key, token, expiration)
	if err != nil || !ok {
		return "", false, err
	}
	return token, true, nil
}

// UnlockKey releases a lock taken with token. A lock that expired and was
// taken by another holder is left alone; released reports which case happened.
func (c *Client) UnlockKey(ctx context.Context, key, token string) (released bool, err error) {
	n, err := unlockScript.Run(ctx, c.client, []string{key}, token).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// WithLock runs fn while holding key. It retries every retryEvery until ctx is done
// or maxRetries attempts failed.
func (c *Client) WithLock(ctx context.Context, key string, ttl, retryEvery time.Duration, maxRetries int, fn func() error) error {
	var token string
	for attempt := 0; ; attempt++ {
		t, ok, err := c.LockKey(ctx, key, ttl)
		if err != nil {
			return err
		}
		if ok {
			token = t
			break
		}
		if attempt >= maxRetries {
			return ErrLockNotAcquired
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryEvery):
		}
	}
	// Release with a fresh context so a cancelled caller does not leave the lock behind.
	defer func() {
		unlockCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_, _ = c.UnlockKey(unlockCtx, key, token)
	}()

	return fn()
}
