package middleware

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"ironforge-backend/pkg/apperror"
	"ironforge-backend/pkg/metrics"
	"ironforge-backend/pkg/security"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitConfig holds configuration for one rate limit scope
type RateLimitConfig struct {
	// Scope labels the limit in logs and metrics ("global", "contact")
	Scope string
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Key prefix for Redis
	KeyPrefix string
	// Custom key extractor (default: client IP)
	KeyFunc func(*gin.Context) string
}

// GlobalRateLimitConfig applies to every route.
func GlobalRateLimitConfig(perMinute int) RateLimitConfig {
	return RateLimitConfig{
		Scope:     "global",
		Limit:     perMinute,
		Window:    time.Minute,
		KeyPrefix: "rl:ip:",
	}
}

// ContactRateLimitConfig guards quote submissions against spam.
func ContactRateLimitConfig(perMinute int) RateLimitConfig {
	return RateLimitConfig{
		Scope:     "contact",
		Limit:     perMinute,
		Window:    time.Minute,
		KeyPrefix: "rl:contact:",
	}
}

// Lua script for atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = TTL in seconds
// Returns: [current_count, ttl_remaining]
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

// rateLimitEntry tracks request count for a key (in-memory store)
type rateLimitEntry struct {
	count   int
	resetAt time.Time
	mu      sync.Mutex
}

// RateLimiter counts requests per key in Redis when a client is configured
// and in process memory otherwise. A Redis error degrades to memory for that
// request instead of rejecting it.
type RateLimiter struct {
	redis  *goredis.Client
	log    *zap.Logger
	events *security.SecurityLogger
	store  sync.Map
	now    func() time.Time
}

// NewRateLimiter builds a limiter. redis and events may be nil.
func NewRateLimiter(redis *goredis.Client, log *zap.Logger, events *security.SecurityLogger) *RateLimiter {
	return &RateLimiter{
		redis:  redis,
		log:    log,
		events: events,
		now:    time.Now,
	}
}

// Run evicts expired in-memory entries until ctx is done.
func (l *RateLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.cleanup()
		}
	}
}

func (l *RateLimiter) cleanup() {
	now := l.now()
	l.store.Range(func(key, value interface{}) bool {
		entry := value.(*rateLimitEntry)
		entry.mu.Lock()
		if now.After(entry.resetAt) {
			l.store.Delete(key)
		}
		entry.mu.Unlock()
		return true
	})
}

// Middleware enforces cfg for every request passing through it.
func (l *RateLimiter) Middleware(cfg RateLimitConfig) gin.HandlerFunc {
	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}

	return func(c *gin.Context) {
		fullKey := cfg.KeyPrefix + keyFunc(c)

		count, resetAt, err := l.hit(c.Request.Context(), fullKey, cfg)
		if err != nil {
			l.log.Warn("Rate limit store unavailable, counting in memory",
				zap.String("scope", cfg.Scope),
				zap.Error(err),
			)
			count, resetAt = l.hitInMemory(fullKey, cfg)
		}

		if count > cfg.Limit {
			retryAfter := int(resetAt.Sub(l.now()).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}

			c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			metrics.RateLimited.WithLabelValues(cfg.Scope).Inc()
			l.events.LogRateLimitTriggered(c.Request.Context(),
				cfg.Scope,
				c.ClientIP(),
				c.GetHeader("User-Agent"),
				c.FullPath(),
			)

			_ = c.Error(apperror.TooManyRequests("Too many requests. Please wait a moment and try again."))
			c.Abort()
			return
		}

		remaining := cfg.Limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))

		c.Next()
	}
}

func (l *RateLimiter) hit(ctx context.Context, key string, cfg RateLimitConfig) (int, time.Time, error) {
	if l.redis == nil {
		count, resetAt := l.hitInMemory(key, cfg)
		return count, resetAt, nil
	}
	return l.hitRedis(ctx, key, cfg)
}

// hitRedis increments the counter using an atomic Lua script
func (l *RateLimiter) hitRedis(ctx context.Context, key string, cfg RateLimitConfig) (int, time.Time, error) {
	ttlSeconds := int(cfg.Window.Seconds())

	result, err := l.redis.Eval(ctx, rateLimitLuaScript, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return 0, time.Time{}, errors.New("unexpected redis result format")
	}

	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)

	return int(count), l.now().Add(time.Duration(ttl) * time.Second), nil
}

func (l *RateLimiter) hitInMemory(key string, cfg RateLimitConfig) (int, time.Time) {
	now := l.now()
	entryI, _ := l.store.LoadOrStore(key, &rateLimitEntry{
		resetAt: now.Add(cfg.Window),
	})
	entry := entryI.(*rateLimitEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	// Reset if window expired
	if now.After(entry.resetAt) {
		entry.count = 0
		entry.resetAt = now.Add(cfg.Window)
	}
	entry.count++

	return entry.count, entry.resetAt
}
