package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akarpov/shortly/internal/errs"
	"github.com/akarpov/shortly/internal/models"
	"github.com/akarpov/shortly/internal/shortcode"
)

// Shorten creates a new link for the owner. When a custom alias is
// given it is validated and tried exactly once: a collision surfaces
// as ErrConflict. Otherwise codes are generated and tried until one
// is free, bounded by the configured retry budget. Uniqueness rests
// entirely on the store's constraint; there is no pre-check.
func (s *LinkService) Shorten(ctx context.Context, ownerID, originalURL, customAlias string, expiresInDays *int) (*models.Link, error) {
	var expiresAt *time.Time
	if expiresInDays != nil {
		var err error
		if expiresAt, err = models.ExpiryFromDays(*expiresInDays); err != nil {
			return nil, err
		}
	}

	if customAlias != "" {
		if err := shortcode.ValidateAlias(customAlias); err != nil {
			return nil, err
		}
		return s.create(ctx, models.NewLink(ownerID, customAlias, originalURL, expiresAt))
	}

	for attempt := 0; attempt < s.config.Service.GenerateRetries; attempt++ {
		code, err := shortcode.Generate()
		if err != nil {
			return nil, err
		}

		link, err := s.create(ctx, models.NewLink(ownerID, code, originalURL, expiresAt))
		if errors.Is(err, errs.ErrConflict) {
			s.logger.Infof("generated code %q collided, retrying", code)
			continue
		}
		return link, err
	}

	// Practically unreachable with a 58^8 code space, but a caller
	// must get a definite answer rather than an infinite loop.
	return nil, fmt.Errorf("%w after %d attempts",
		errs.ErrCodeSpaceExhausted, s.config.Service.GenerateRetries)
}

func (s *LinkService) create(ctx context.Context, link *models.Link) (*models.Link, error) {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	if err := s.store.Create(ctx, link); err != nil {
		return nil, err
	}
	// The cache is populated lazily on the first public resolution;
	// the write path only ever invalidates.
	return link, nil
}

// Get returns the owner's link. Expired links are reported as not
// found: their semantic lifetime has ended even though the record
// remains stored until deleted.
func (s *LinkService) Get(ctx context.Context, ownerID, shortCode string) (*models.Link, error) {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	link, err := s.store.GetByOwnerAndCode(ctx, ownerID, shortCode)
	if err != nil {
		return nil, err
	}
	if link.ExpiredAt(time.Now()) {
		return nil, fmt.Errorf("%s: %w", shortCode, errs.ErrNotFound)
	}

	return link, nil
}

// Stats returns the owner's link for statistics purposes. The same
// expiration visibility rule as Get applies.
func (s *LinkService) Stats(ctx context.Context, ownerID, shortCode string) (*models.Link, error) {
	return s.Get(ctx, ownerID, shortCode)
}

// Update applies the patch to the owner's link and invalidates the
// cache entry before returning. Invalidation is unconditional: an
// expiry change affects redirect eligibility even when the URL is
// unchanged.
func (s *LinkService) Update(ctx context.Context, ownerID, shortCode string, patch models.LinkPatch) (*models.Link, error) {
	sctx, cancel := s.storeContext(ctx)
	defer cancel()

	link, err := s.store.Update(sctx, ownerID, shortCode, patch)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, shortCode)

	return link, nil
}

// Delete removes the owner's link and invalidates the cache entry
// before returning.
func (s *LinkService) Delete(ctx context.Context, ownerID, shortCode string) error {
	sctx, cancel := s.storeContext(ctx)
	defer cancel()

	if err := s.store.Delete(sctx, ownerID, shortCode); err != nil {
		return err
	}

	s.invalidate(ctx, shortCode)

	return nil
}

// Search returns the owner's link with the exact original URL.
// Expired links are reported as not found, as in Get.
func (s *LinkService) Search(ctx context.Context, ownerID, originalURL string) (*models.Link, error) {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	link, err := s.store.FindByOwnerAndURL(ctx, ownerID, originalURL)
	if err != nil {
		return nil, err
	}
	if link.ExpiredAt(time.Now()) {
		return nil, fmt.Errorf("%s: %w", originalURL, errs.ErrNotFound)
	}

	return link, nil
}

// List returns the owner's links, most recent first, with expired
// links filtered out.
func (s *LinkService) List(ctx context.Context, ownerID string) ([]*models.Link, error) {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()

	links, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	alive := links[:0]
	for _, link := range links {
		if !link.ExpiredAt(now) {
			alive = append(alive, link)
		}
	}

	return alive, nil
}

// DeleteAllForOwner removes the owner with every link it owns and
// invalidates their cache entries. Used by account deletion.
func (s *LinkService) DeleteAllForOwner(ctx context.Context, ownerID string) error {
	sctx, cancel := s.storeContext(ctx)
	defer cancel()

	codes, err := s.store.DeleteAllByOwner(sctx, ownerID)
	if err != nil {
		return err
	}

	for _, code := range codes {
		s.invalidate(ctx, code)
	}

	return nil
}
