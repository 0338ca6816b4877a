package cache

import (
	"context"
	"time"
)

// Cacher is the storage interface for computed engine outputs. Keys
// are engine-scoped (quote:..., clusters:...); values are JSON-encoded.
type Cacher interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, key string) error
	HealthCheck(ctx context.Context) error
	Close() error
}

// Config represents cache backend configuration
type Config struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	PoolSize int
}

// NewCacher creates a cache instance based on configuration: Redis
// when enabled, otherwise an in-memory fallback.
func NewCacher(cfg *Config) (Cacher, error) {
	if cfg != nil && cfg.Enabled {
		return NewRedisCache(cfg)
	}
	return NewMemoryCache(0), nil
}
