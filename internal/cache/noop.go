package cache

import (
	"context"
	"time"
)

// NoopCache is a disabled cache: every Get is a miss and writes are
// dropped. Resolution then always falls through to the store.
type NoopCache struct{}

// NewNoopCache returns the disabled cache.
func NewNoopCache() *NoopCache {
	return &NoopCache{}
}

func (*NoopCache) Put(context.Context, string, string, time.Duration) error {
	return nil
}

func (*NoopCache) Get(context.Context, string) (string, error) {
	return "", ErrCacheMiss
}

func (*NoopCache) Invalidate(context.Context, string) error {
	return nil
}

func (*NoopCache) Ping(context.Context) error {
	return nil
}
