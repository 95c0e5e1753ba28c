package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akarpov/shortly/internal/cache"
	"github.com/akarpov/shortly/internal/errs"
)

// ResolvePublic resolves a short code for the public redirect path.
//
// The cache is consulted first: a hit returns without touching the
// store, since the entry TTL never outlives the link's expiration.
// On a miss the store is read; an absent link yields ErrNotFound, an
// expired one ErrGone, and a live one repopulates the cache with a
// TTL bounded by the remaining time to expiry. Every successful
// resolution schedules exactly one access count increment.
func (s *LinkService) ResolvePublic(ctx context.Context, shortCode string) (string, error) {
	cctx, cancel := s.cacheContext(ctx)
	originalURL, err := s.cache.Get(cctx, shortCode)
	cancel()
	if err == nil {
		s.recordAccess(shortCode)
		return originalURL, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		// Cache failures are never fatal to resolution.
		s.logger.Errorf("cache lookup for %q: %v", shortCode, err)
	}

	sctx, cancel := s.storeContext(ctx)
	defer cancel()

	link, err := s.store.GetByCode(sctx, shortCode)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return "", err
		}
		return "", fmt.Errorf("resolve %q: %w", shortCode, err)
	}

	now := time.Now()
	if link.ExpiredAt(now) {
		return "", fmt.Errorf("%s: %w", shortCode, errs.ErrGone)
	}

	if ttl := link.TTLAt(now, s.config.Redis.TTL); ttl > 0 {
		cctx, cancel := s.cacheContext(ctx)
		if err := s.cache.Put(cctx, shortCode, link.OriginalURL, ttl); err != nil {
			s.logger.Errorf("cache populate for %q: %v", shortCode, err)
		}
		cancel()
	}

	s.recordAccess(shortCode)

	return link.OriginalURL, nil
}
