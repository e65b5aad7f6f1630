package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/weekplate/backend/config"
)

// NewRedisClient connects to cfg.RedisURL. Without a URL it returns nil, and
// rate limiting and parse drafts stay disabled.
func NewRedisClient(cfg *config.Config, logger *zap.Logger) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		logger.Warn("REDIS_URL not set, rate limiting and photo parse drafts are disabled")
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	if opts.Password == "" {
		opts.Password = cfg.RedisPassword
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Successfully connected to Redis", zap.String("addr", opts.Addr))
	return client, nil
}
