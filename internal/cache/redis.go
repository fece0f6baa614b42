package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/RMahshie/cardiosynth/pkg/models"
	"github.com/redis/go-redis/v9"
)

// MaxCachedSamples keeps very long traces out of Redis
const MaxCachedSamples = 200_000

// ResultCache stores seeded generation results. Unseeded requests are never cached.
type ResultCache interface {
	Get(ctx context.Context, opts models.GenerateOptions) (*models.ECGResult, bool, error)
	Set(ctx context.Context, opts models.GenerateOptions, result *models.ECGResult) error
}

// RedisCache implements ResultCache on Redis
type RedisCache struct {
	client    *redis.Client
	ttl       time.Duration
	namespace string
}

// NewRedisCache connects lazily; call Ping to verify the server. namespace
// separates engines whose defaults differ (sampling rate, family, leads).
func NewRedisCache(addr, password string, db int, ttl time.Duration, namespace string) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ttl:       ttl,
		namespace: namespace,
	}
}

// Key derives the cache key of opts; ok is false when opts carry no seed
func (c *RedisCache) Key(opts models.GenerateOptions) (key string, ok bool) {
	if opts.Seed == nil {
		return "", false
	}
	data, err := json.Marshal(opts)
	if err != nil {
		return "", false
	}
	sum := sha256.Sum256(append([]byte(c.namespace+"|"), data...))
	return "ecg:result:" + hex.EncodeToString(sum[:]), true
}

// Get returns a cached result; a miss is (nil, false, nil)
func (c *RedisCache) Get(ctx context.Context, opts models.GenerateOptions) (*models.ECGResult, bool, error) {
	key, ok := c.Key(opts)
	if !ok {
		return nil, false, nil
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get result from Redis: %w", err)
	}

	var result models.ECGResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return &result, true, nil
}

// Set stores result under the key of opts
func (c *RedisCache) Set(ctx context.Context, opts models.GenerateOptions, result *models.ECGResult) error {
	key, ok := c.Key(opts)
	if !ok || result.Len() > MaxCachedSamples {
		return nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save result to Redis: %w", err)
	}
	return nil
}

// Ping checks connectivity
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
