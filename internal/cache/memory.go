package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	apperrors "dataengine/internal/errors"
)

// MemoryCache implements an in-memory cache with TTL support, used as
// a fallback when Redis is not configured.
type MemoryCache struct {
	items    map[string]*memoryItem
	mu       sync.RWMutex
	maxSize  int
	stopChan chan struct{}
	stopOnce sync.Once
}

// memoryItem represents an item in memory cache
type memoryItem struct {
	data       []byte
	expiration time.Time
	accessed   time.Time
}

// NewMemoryCache creates a new memory cache
func NewMemoryCache(maxSize int) *MemoryCache {
	if maxSize <= 0 {
		maxSize = 10000
	}

	mc := &MemoryCache{
		items:    make(map[string]*memoryItem),
		maxSize:  maxSize,
		stopChan: make(chan struct{}),
	}

	go mc.cleanupLoop()

	return mc
}

// Set stores a JSON-encoded value with expiration
func (mc *MemoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return apperrors.WrapError(err, apperrors.ErrCodeCacheOperation, "failed to encode cache value")
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	if len(mc.items) >= mc.maxSize {
		mc.evictLRU()
	}

	expirationTime := time.Now().Add(expiration)
	if expiration <= 0 {
		expirationTime = time.Now().Add(24 * time.Hour)
	}

	mc.items[key] = &memoryItem{
		data:       data,
		expiration: expirationTime,
		accessed:   time.Now(),
	}
	return nil
}

// Get retrieves and decodes a value into dest
func (mc *MemoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	item, exists := mc.items[key]
	if !exists {
		return apperrors.NewAppError(apperrors.ErrCodeCacheMiss, "cache miss", nil).WithContext("key", key)
	}

	if time.Now().After(item.expiration) {
		delete(mc.items, key)
		return apperrors.NewAppError(apperrors.ErrCodeCacheMiss, "cache key expired", nil).WithContext("key", key)
	}

	item.accessed = time.Now()
	if err := json.Unmarshal(item.data, dest); err != nil {
		return apperrors.WrapError(err, apperrors.ErrCodeCacheOperation, "failed to decode cache value")
	}
	return nil
}

// Delete removes a key
func (mc *MemoryCache) Delete(ctx context.Context, key string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	delete(mc.items, key)
	return nil
}

// HealthCheck always succeeds for the in-memory cache
func (mc *MemoryCache) HealthCheck(ctx context.Context) error {
	return nil
}

// Close stops the cleanup goroutine
func (mc *MemoryCache) Close() error {
	mc.stopOnce.Do(func() {
		close(mc.stopChan)
	})
	return nil
}

// evictLRU drops the least recently accessed item. Caller holds the lock.
func (mc *MemoryCache) evictLRU() {
	var oldestKey string
	var oldestAccess time.Time
	for key, item := range mc.items {
		if oldestKey == "" || item.accessed.Before(oldestAccess) {
			oldestKey = key
			oldestAccess = item.accessed
		}
	}
	if oldestKey != "" {
		delete(mc.items, oldestKey)
	}
}

// cleanupLoop periodically removes expired items
func (mc *MemoryCache) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-mc.stopChan:
			return
		case <-ticker.C:
			now := time.Now()
			mc.mu.Lock()
			for key, item := range mc.items {
				if now.After(item.expiration) {
					delete(mc.items, key)
				}
			}
			mc.mu.Unlock()
		}
	}
}
