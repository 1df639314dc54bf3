package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iyhunko/product-catalog/internal/config"
	"github.com/redis/go-redis/v9"
)

// redisAPI is the subset of the go-redis client used by RedisCache.
type redisAPI interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisCache implements SummaryCache on Redis. Entries are JSON encoded and expire after ttl.
type RedisCache struct {
	client redisAPI
	ttl    time.Duration
}

// NewRedisCache creates a RedisCache over client.
func NewRedisCache(client redisAPI, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// NewRedisClient opens a client for the configured Redis server and checks it responds.
func NewRedisClient(ctx context.Context, conf config.Cache) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", conf.Addr, err)
	}
	return client, nil
}

// Get returns the cached summary of the product or ErrMiss.
func (c *RedisCache) Get(ctx context.Context, productID int64) (Summary, error) {
	var summary Summary

	raw, err := c.client.Get(ctx, Key(productID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return summary, ErrMiss
		}
		return summary, fmt.Errorf("failed to read summary: %w", err)
	}

	if err := json.Unmarshal(raw, &summary); err != nil {
		return summary, fmt.Errorf("failed to decode summary: %w", err)
	}
	return summary, nil
}

// Set stores the summary of the product, replacing any previous entry.
func (c *RedisCache) Set(ctx context.Context, productID int64, summary Summary) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	if err := c.client.Set(ctx, Key(productID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

// Delete evicts the summary of the product. Evicting a missing entry is not an error.
func (c *RedisCache) Delete(ctx context.Context, productID int64) error {
	if err := c.client.Del(ctx, Key(productID)).Err(); err != nil {
		return fmt.Errorf("failed to evict summary: %w", err)
	}
	return nil
}
