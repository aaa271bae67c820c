package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/orderbridge/backend/internal/domain/delivery"
	"github.com/orderbridge/backend/internal/infrastructure/config"
)

// RedisThrottle implements FallbackThrottle using Redis.
// This is suitable for distributed deployments where multiple instances
// must share the same per-tenant rate gate.
type RedisThrottle struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisThrottle creates a new Redis-backed throttle
func NewRedisThrottle(cfg *config.RedisConfig) (*RedisThrottle, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisThrottle{
		client:    client,
		keyPrefix: "sync:fallback:",
	}, nil
}

// NewRedisThrottleWithClient creates a throttle with an existing Redis client.
// This is useful for testing or when sharing a client across components.
func NewRedisThrottleWithClient(client *redis.Client, keyPrefix string) *RedisThrottle {
	if keyPrefix == "" {
		keyPrefix = "sync:fallback:"
	}
	return &RedisThrottle{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Allow reserves the slot for key if it is free.
// Uses SETNX with TTL so the check-and-reserve is a single atomic operation
// across all instances.
func (t *RedisThrottle) Allow(ctx context.Context, key string, interval time.Duration) (bool, error) {
	result, err := t.client.SetNX(ctx, t.keyPrefix+key, "1", interval).Result()
	if err != nil {
		return false, fmt.Errorf("failed to reserve throttle slot: %w", err)
	}
	return result, nil
}

// Close closes the Redis client
func (t *RedisThrottle) Close() error {
	return t.client.Close()
}

// Ensure RedisThrottle implements FallbackThrottle
var _ delivery.FallbackThrottle = (*RedisThrottle)(nil)
