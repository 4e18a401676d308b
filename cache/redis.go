package cache

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"yttmp3/config"
)

const progressKeyPrefix = "yttmp3:progress:"

// RedisStore is a ProgressStore backed by Redis, letting progress survive
// restarts and be shared across worker processes.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis at addr ("host:port") and verifies the
// connection with a ping.
func NewRedisStore(ctx context.Context, addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &RedisStore{client: client}, nil
}

// SetProgress implements ProgressStore.
func (r *RedisStore) SetProgress(ctx context.Context, id string, percent int) error {
	return r.client.Set(ctx, progressKeyPrefix+id, percent, config.ProgressTTL).Err()
}

// GetProgress implements ProgressStore.
func (r *RedisStore) GetProgress(ctx context.Context, id string) (int, bool, error) {
	val, err := r.client.Get(ctx, progressKeyPrefix+id).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	percent, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt progress value %q: %w", val, err)
	}
	return percent, true, nil
}

// Close releases the underlying Redis connection.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
