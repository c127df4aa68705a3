package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dropship/backend/internal/application/sync"
)

const defaultRunLockTTL = 2 * time.Hour

// RedisRunLock implements sync.RunLock on a shared Redis key so
// overlapping sync runs are rejected across instances. The TTL guards
// against a crashed holder wedging the lock forever.
type RedisRunLock struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

var _ sync.RunLock = (*RedisRunLock)(nil)

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisRunLock creates a run lock backed by a new Redis connection
func NewRedisRunLock(cfg RedisConfig) (*RedisRunLock, error) {
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

	return NewRedisRunLockWithClient(client, "", 0), nil
}

// NewRedisRunLockWithClient creates a run lock on an existing client.
// Useful for testing or sharing a client across components.
func NewRedisRunLockWithClient(client *redis.Client, key string, ttl time.Duration) *RedisRunLock {
	if key == "" {
		key = "sync:run-lock"
	}
	if ttl <= 0 {
		ttl = defaultRunLockTTL
	}
	return &RedisRunLock{client: client, key: key, ttl: ttl}
}

// TryLock attempts to take the lock, returning false when another run
// holds it
func (l *RedisRunLock) TryLock(ctx context.Context) (bool, error) {
	acquired, err := l.client.SetNX(ctx, l.key, "1", l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire run lock: %w", err)
	}
	return acquired, nil
}

// Unlock releases the lock
func (l *RedisRunLock) Unlock(ctx context.Context) error {
	if err := l.client.Del(ctx, l.key).Err(); err != nil {
		return fmt.Errorf("failed to release run lock: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (l *RedisRunLock) Close() error {
	return l.client.Close()
}
