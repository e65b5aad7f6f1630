package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// RateLimiter counts requests per client IP in fixed Redis windows
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
	logger *zap.Logger
}

// NewRateLimiter creates a new rate limiter. A nil client lets every request through.
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		config: config,
		logger: logger,
	}
}

// NewPlanRateLimiter limits meal plan generation
func NewPlanRateLimiter(redisClient *redis.Client, limit int, window time.Duration, logger *zap.Logger) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    window,
		Limit:     limit,
		KeyPrefix: "rate_limit:plan_generation",
	}, logger)
}

// NewParseRateLimiter limits recipe photo parsing, which calls a paid API
func NewParseRateLimiter(redisClient *redis.Client, limit int, window time.Duration, logger *zap.Logger) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    window,
		Limit:     limit,
		KeyPrefix: "rate_limit:photo_parse",
	}, logger)
}

// Middleware returns a Gin middleware that enforces the limit
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.redis == nil || rl.config.Limit <= 0 {
			c.Next()
			return
		}

		allowed, remaining, resetTime, err := rl.IsAllowed(c.Request.Context(), c.ClientIP())
		if err != nil {
			rl.logger.Warn("Rate limit check failed", zap.String("prefix", rl.config.KeyPrefix), zap.Error(err))
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"message":     fmt.Sprintf("at most %d requests per %v", rl.config.Limit, rl.config.Window),
				"retry_after": int(time.Until(resetTime).Seconds()),
			})
			return
		}

		c.Next()
	}
}

// IsAllowed counts a request from client in the current window
// Returns: allowed, remaining requests, reset time, error
func (rl *RateLimiter) IsAllowed(ctx context.Context, client string) (bool, int, time.Time, error) {
	windowStart := time.Now().Truncate(rl.config.Window)
	key := rl.key(client, windowStart)

	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, rl.config.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= rl.config.Limit, remaining, windowStart.Add(rl.config.Window), nil
}

// LimitStatus is a client's standing in the current window
type LimitStatus struct {
	Enabled       bool      `json:"enabled"`
	Limit         int       `json:"limit"`
	Remaining     int       `json:"remaining"`
	WindowSeconds int       `json:"window_seconds"`
	ResetAt       time.Time `json:"reset_at"`
}

// Status reports client's budget without counting a request. A limiter
// without Redis or without a positive limit reports itself disabled.
func (rl *RateLimiter) Status(ctx context.Context, client string) (LimitStatus, error) {
	status := LimitStatus{
		Enabled:       rl.redis != nil && rl.config.Limit > 0,
		Limit:         rl.config.Limit,
		Remaining:     rl.config.Limit,
		WindowSeconds: int(rl.config.Window.Seconds()),
	}
	if !status.Enabled {
		return status, nil
	}
	status.ResetAt = time.Now().Truncate(rl.config.Window).Add(rl.config.Window)

	left, err := rl.Remaining(ctx, client)
	if err != nil {
		return status, err
	}
	status.Remaining = left
	return status, nil
}

// Remaining reports how many requests client has left without counting one
func (rl *RateLimiter) Remaining(ctx context.Context, client string) (int, error) {
	if rl.redis == nil {
		return rl.config.Limit, nil
	}
	count, err := rl.redis.Get(ctx, rl.key(client, time.Now().Truncate(rl.config.Window))).Int()
	if errors.Is(err, redis.Nil) {
		return rl.config.Limit, nil
	}
	if err != nil {
		return 0, err
	}
	if count > rl.config.Limit {
		return 0, nil
	}
	return rl.config.Limit - count, nil
}

func (rl *RateLimiter) key(client string, windowStart time.Time) string {
	return fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, client, windowStart.Unix())
}
