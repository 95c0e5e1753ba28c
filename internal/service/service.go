// Package service owns the business rules of the link lifecycle:
// short code allocation, expiration semantics, cache consistency and
// access count accounting.
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/akarpov/shortly/internal/cache"
	"github.com/akarpov/shortly/internal/config"
	"github.com/akarpov/shortly/internal/errs"
	"github.com/akarpov/shortly/internal/logger"
	"github.com/akarpov/shortly/internal/repository"
)

// LinkService orchestrates the link store and the redirect cache.
// The store is the source of truth; the cache only ever serves the
// public redirect path and is invalidated synchronously whenever a
// link changes.
type LinkService struct {
	store  repository.LinkStorage
	cache  cache.RedirectCache
	logger logger.Logger
	config *config.Config

	// counts carries short codes awaiting an access count increment.
	counts chan string
	done   chan struct{}
	wg     sync.WaitGroup
	stop   sync.Once
}

// New constructs the link service and starts its access count worker.
func New(store repository.LinkStorage, redirectCache cache.RedirectCache,
	config *config.Config, logger logger.Logger,
) (*LinkService, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store", errs.ErrNilDependency)
	}
	if redirectCache == nil {
		return nil, fmt.Errorf("%w: cache", errs.ErrNilDependency)
	}
	if config == nil {
		return nil, fmt.Errorf("%w: config", errs.ErrNilDependency)
	}
	if logger == nil {
		return nil, fmt.Errorf("%w: logger", errs.ErrNilDependency)
	}

	s := &LinkService{
		store:  store,
		cache:  redirectCache,
		logger: logger,
		config: config,
		counts: make(chan string, config.Service.CounterBufLen),
		done:   make(chan struct{}),
	}

	s.wg.Add(1)
	go s.countWorker()

	return s, nil
}

// Stop drains the pending access count increments and stops the
// worker. Must be called once on shutdown.
func (s *LinkService) Stop() {
	s.stop.Do(func() {
		close(s.done)
		s.wg.Wait()
	})
}

// Ping checks the health of the underlying store.
func (s *LinkService) Ping(ctx context.Context) error {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()
	return s.store.Ping(ctx)
}

// countWorker applies access count increments off the hot path.
func (s *LinkService) countWorker() {
	defer s.wg.Done()
	for {
		select {
		case shortCode := <-s.counts:
			s.increment(shortCode)
		case <-s.done:
			// Drain what is already buffered before exiting.
			for {
				select {
				case shortCode := <-s.counts:
					s.increment(shortCode)
				default:
					return
				}
			}
		}
	}
}

// recordAccess schedules exactly one access count increment for the
// code. A full buffer degrades to an inline increment on the calling
// goroutine, so a resolution is never silently uncounted.
func (s *LinkService) recordAccess(shortCode string) {
	select {
	case <-s.done:
		s.increment(shortCode)
		return
	default:
	}

	select {
	case s.counts <- shortCode:
	default:
		s.increment(shortCode)
	}
}

// increment applies a single atomic increment with one retry.
// Failures are logged, never propagated: the redirect has already
// been served.
func (s *LinkService) increment(shortCode string) {
	err := s.incrementOnce(shortCode)
	if err == nil {
		return
	}
	s.logger.Errorf("increment access count for %q: %v, retrying", shortCode, err)

	if err = s.incrementOnce(shortCode); err != nil {
		s.logger.Errorf("increment access count for %q failed after retry: %v", shortCode, err)
	}
}

func (s *LinkService) incrementOnce(shortCode string) error {
	ctx, cancel := s.storeContext(context.Background())
	defer cancel()
	return s.store.IncrementAccessCount(ctx, shortCode)
}

// storeContext bounds a storage call with the configured timeout.
func (s *LinkService) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.config.Service.StoreTimeout)
}

// cacheContext bounds a cache call with the configured timeout.
func (s *LinkService) cacheContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.config.Service.CacheTimeout)
}

// invalidate removes the cache entry for the code before the calling
// operation returns. Cache failures are absorbed: staleness stays
// bounded by the entry TTL.
func (s *LinkService) invalidate(ctx context.Context, shortCode string) {
	ctx, cancel := s.cacheContext(ctx)
	defer cancel()

	if err := s.cache.Invalidate(ctx, shortCode); err != nil {
		s.logger.Errorf("invalidate cache for %q: %v", shortCode, err)
	}
}
