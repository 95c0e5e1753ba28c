package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akarpov/shortly/internal/config"
	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces redirect entries in a shared redis instance.
const keyPrefix = "url:"

// RedisCache is the redis implementation of the RedirectCache.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to redis and verifies the connection.
func NewRedisCache(ctx context.Context, cfg config.Redis) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Addr, err)
	}

	return &RedisCache{client: client}, nil
}

// Put stores the mapping for the given TTL.
func (c *RedisCache) Put(ctx context.Context, shortCode, originalURL string, ttl time.Duration) error {
	if err := c.client.SetEx(ctx, keyPrefix+shortCode, originalURL, ttl).Err(); err != nil {
		return fmt.Errorf("cache put %q: %w", shortCode, err)
	}
	return nil
}

// Get retrieves the original URL for the code, or ErrCacheMiss.
func (c *RedisCache) Get(ctx context.Context, shortCode string) (string, error) {
	url, err := c.client.Get(ctx, keyPrefix+shortCode).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCacheMiss
		}
		return "", fmt.Errorf("cache get %q: %w", shortCode, err)
	}
	return url, nil
}

// Invalidate removes the entry for the code.
func (c *RedisCache) Invalidate(ctx context.Context, shortCode string) error {
	if err := c.client.Del(ctx, keyPrefix+shortCode).Err(); err != nil {
		return fmt.Errorf("cache invalidate %q: %w", shortCode, err)
	}
	return nil
}

// Ping checks the connection to redis.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the redis client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
