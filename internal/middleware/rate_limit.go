package middleware

import (
	"context"
	"sync"
	"time"

	"gptading/backend/internal/util"
	"gptading/backend/pkg/logger"
	"gptading/backend/pkg/redis"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Limiter decides whether one more request for key is allowed
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter counts requests per fixed window in Redis
type RedisLimiter struct {
	redis  *redis.Client
	limit  int
	window time.Duration
}

// NewRedisLimiter creates a limiter allowing limit requests per window
func NewRedisLimiter(redisClient *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		redis:  redisClient,
		limit:  limit,
		window: window,
	}
}

func (rl *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := rl.redis.Incr(ctx, key)
	if err != nil {
		return false, err
	}

	// Set expiration on first request
	if count == 1 {
		if err := rl.redis.Expire(ctx, key, rl.window); err != nil {
			return false, err
		}
	}

	return count <= int64(rl.limit), nil
}

// MemoryLimiter keeps one token bucket per key in process memory
type MemoryLimiter struct {
	mu       sync.Mutex
	limiters map[string]*memoryBucket
	every    rate.Limit
	burst    int
	window   time.Duration
	now      func() time.Time
}

type memoryBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewMemoryLimiter allows limit requests per window with bursts up to limit
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limiters: make(map[string]*memoryBucket),
		every:    rate.Every(window / time.Duration(limit)),
		burst:    limit,
		window:   window,
		now:      time.Now,
	}
}

func (ml *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	now := ml.now()
	b, ok := ml.limiters[key]
	if !ok {
		b = &memoryBucket{limiter: rate.NewLimiter(ml.every, ml.burst)}
		ml.limiters[key] = b
	}
	b.lastSeen = now

	return b.limiter.AllowN(now, 1), nil
}

// Len returns the number of tracked keys
func (ml *MemoryLimiter) Len() int {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	return len(ml.limiters)
}

// Sweep drops buckets idle for a full window. Such a bucket has refilled,
// so a new one behaves the same. It returns how many were removed.
func (ml *MemoryLimiter) Sweep() int {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	now := ml.now()
	removed := 0
	for key, b := range ml.limiters {
		if now.Sub(b.lastSeen) >= ml.window {
			delete(ml.limiters, key)
			removed++
		}
	}
	return removed
}

// StartJanitor sweeps every interval until ctx is done
func (ml *MemoryLimiter) StartJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				ml.Sweep()
			}
		}
	}()
}

// RateLimit limits requests per session. Requests that arrived without a valid
// session cookie are limited per IP, so dropping the cookie does not reset the budget.
func RateLimit(limiter Limiter, action string, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identifier := c.ClientIP()
		if sessionID := c.GetString(util.ContextKeySessionID); sessionID != "" && !c.GetBool(util.ContextKeySessionNew) {
			identifier = "session:" + sessionID
		}

		allowed, err := limiter.Allow(c.Request.Context(), redis.RateLimitKey(identifier, action))
		if err != nil {
			// fail open
			log.Warnf("Rate limiter unavailable: %v", err)
			c.Next()
			return
		}

		if !allowed {
			util.AbortWithError(c, util.ErrRateLimit("Rate limit exceeded. Please try again later."))
			return
		}

		c.Next()
	}
}
