package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "dataengine/internal/errors"
)

// RedisCache is the Redis-backed cache implementation
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache instance
func NewRedisCache(cfg *Config) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrCodeCacheConnection, "failed to connect to Redis")
	}

	return &RedisCache{client: client}, nil
}

// Set stores a JSON-encoded value with expiration
func (r *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return apperrors.WrapError(err, apperrors.ErrCodeCacheOperation, "failed to encode cache value")
	}
	if err := r.client.Set(ctx, key, data, expiration).Err(); err != nil {
		return apperrors.WrapError(err, apperrors.ErrCodeCacheOperation, "failed to set cache key")
	}
	return nil
}

// Get retrieves and decodes a value into dest
func (r *RedisCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return apperrors.NewAppError(apperrors.ErrCodeCacheMiss, "cache miss", nil).WithContext("key", key)
	}
	if err != nil {
		return apperrors.WrapError(err, apperrors.ErrCodeCacheOperation, "failed to get cache key")
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return apperrors.WrapError(err, apperrors.ErrCodeCacheOperation, "failed to decode cache value")
	}
	return nil
}

// Delete removes a key
func (r *RedisCache) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// HealthCheck pings the Redis server
func (r *RedisCache) HealthCheck(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the client connection pool
func (r *RedisCache) Close() error {
	return r.client.Close()
}
