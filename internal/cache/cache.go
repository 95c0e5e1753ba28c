// Package cache provides the read-through cache for the public
// redirect path.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/akarpov/shortly/internal/config"
	"github.com/akarpov/shortly/internal/logger"
)

// ErrCacheMiss is returned by Get when no entry exists for the code.
var ErrCacheMiss = errors.New("cache miss")

// RedirectCache maps short codes to original URLs for the public
// redirect path. The cache is advisory: a miss or any cache failure
// always degrades to a store lookup, so implementations never need
// to be durable.
type RedirectCache interface {
	// Put stores the mapping for the given TTL.
	Put(ctx context.Context, shortCode, originalURL string, ttl time.Duration) error

	// Get retrieves the original URL for the code, or ErrCacheMiss.
	Get(ctx context.Context, shortCode string) (string, error)

	// Invalidate removes the entry for the code. Removing an absent
	// entry is not an error.
	Invalidate(ctx context.Context, shortCode string) error

	// Ping checks the health of the cache.
	Ping(ctx context.Context) error
}

// NewRedirectCache returns the redis cache when an address is
// configured and the disabled no-op cache otherwise.
func NewRedirectCache(ctx context.Context, config *config.Config, log logger.Logger) (RedirectCache, error) {
	if config.Redis.Addr == "" {
		log.Info("redis address is not provided, redirect cache is disabled")
		return NewNoopCache(), nil
	}
	return NewRedisCache(ctx, config.Redis)
}
