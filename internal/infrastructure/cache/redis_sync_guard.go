package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shoplink/backend/internal/domain/connection"
)

// RedisSyncGuard implements SyncGuard using Redis.
// This is suitable for distributed deployments where multiple instances
// must agree on which one is reconciling a seller's catalog.
type RedisSyncGuard struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisSyncGuard creates a new Redis-backed sync guard
func NewRedisSyncGuard(cfg RedisConfig) (*RedisSyncGuard, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSyncGuard{
		client:    client,
		keyPrefix: "sync:lock:",
	}, nil
}

// NewRedisSyncGuardWithClient creates a guard with an existing Redis client.
// This is useful for testing or when sharing a client across components.
func NewRedisSyncGuardWithClient(client *redis.Client, keyPrefix string) *RedisSyncGuard {
	if keyPrefix == "" {
		keyPrefix = "sync:lock:"
	}
	return &RedisSyncGuard{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// TryLock acquires the lock for the key if it is free.
// Uses SETNX with TTL in a single atomic operation; the TTL bounds how
// long a crashed holder can wedge the key.
func (g *RedisSyncGuard) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	acquired, err := g.client.SetNX(ctx, g.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire sync lock: %w", err)
	}
	return acquired, nil
}

// Unlock releases the lock. Releasing a key that is not held is a no-op.
func (g *RedisSyncGuard) Unlock(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, g.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release sync lock: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (g *RedisSyncGuard) Close() error {
	return g.client.Close()
}

// Ensure RedisSyncGuard implements SyncGuard
var _ connection.SyncGuard = (*RedisSyncGuard)(nil)
