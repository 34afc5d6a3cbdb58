package resource

import (
	"context"
	"encoding/json"
	"sync"

	"skillpath_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// MemoryCache 进程内缓存，只增不删（除非显式 Clear）
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string][]VideoResource
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string][]VideoResource)}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]VideoResource, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *MemoryCache) Set(_ context.Context, key string, resources []VideoResource) {
	c.mu.Lock()
	c.entries[key] = resources
	c.mu.Unlock()
}

func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string][]VideoResource)
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

const redisKeyPrefix = "skillpath:resources:"

// RedisCache 多实例共享的缓存，条目不设过期时间
type RedisCache struct {
	Redis *redis.Client
}

func NewRedisCache(rdb *redis.Client) *RedisCache {
	return &RedisCache{Redis: rdb}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]VideoResource, bool) {
	val, err := c.Redis.Get(ctx, redisKeyPrefix+key).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Log.Warn("Resource cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	var resources []VideoResource
	if err := json.Unmarshal([]byte(val), &resources); err != nil {
		logger.Log.Warn("Resource cache entry corrupted", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return resources, true
}

func (c *RedisCache) Set(ctx context.Context, key string, resources []VideoResource) {
	data, err := json.Marshal(resources)
	if err != nil {
		logger.Log.Warn("Resource cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.Redis.Set(ctx, redisKeyPrefix+key, data, 0).Err(); err != nil {
		logger.Log.Warn("Resource cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *RedisCache) Clear(ctx context.Context) error {
	iter := c.Redis.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.Redis.Del(ctx, keys...).Err()
}
