// Package memstore implements the link storage in process memory.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/akarpov/shortly/internal/errs"
	"github.com/akarpov/shortly/internal/models"
)

// LinkRepository is an in-memory implementation of the LinkStorage
// interface. It stores links in a map keyed by short code and is safe
// for concurrent use. Used for DSN-less runs and in tests.
type LinkRepository struct {
	// store maps short codes to link records.
	store map[string]models.Link
	// mu protects the store map.
	mu sync.RWMutex
}

// NewLinkRepository creates an empty in-memory link store.
func NewLinkRepository() *LinkRepository {
	return &LinkRepository{store: make(map[string]models.Link)}
}

// Create saves a link. If the short code is taken, ErrConflict is
// returned. The map write happens under the same lock as the
// existence check, which is this store's uniqueness constraint.
func (r *LinkRepository) Create(_ context.Context, link *models.Link) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[link.ShortCode]; ok {
		return errs.ErrConflict
	}
	r.store[link.ShortCode] = *link

	return nil
}

// GetByCode retrieves a link by its short code.
func (r *LinkRepository) GetByCode(_ context.Context, shortCode string) (*models.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, found := r.store[shortCode]
	if !found {
		return nil, fmt.Errorf("%s: %w", shortCode, errs.ErrNotFound)
	}

	return &record, nil
}

// GetByOwnerAndCode retrieves a link by its short code scoped to the
// given owner.
func (r *LinkRepository) GetByOwnerAndCode(_ context.Context, ownerID, shortCode string) (*models.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, found := r.store[shortCode]
	if !found || record.OwnerID != ownerID {
		return nil, fmt.Errorf("%s: %w", shortCode, errs.ErrNotFound)
	}

	return &record, nil
}

// FindByOwnerAndURL retrieves the owner's most recent link with the
// exact original URL.
func (r *LinkRepository) FindByOwnerAndURL(_ context.Context, ownerID, originalURL string) (*models.Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var match *models.Link
	for _, record := range r.store {
		record := record
		if record.OwnerID != ownerID || record.OriginalURL != originalURL {
			continue
		}
		if match == nil || record.CreatedAt.After(match.CreatedAt) {
			match = &record
		}
	}
	if match == nil {
		return nil, errs.ErrNotFound
	}

	return match, nil
}

// ListByOwner retrieves all links of the owner, most recent first.
func (r *LinkRepository) ListByOwner(_ context.Context, ownerID string) ([]*models.Link, error) {
	r.mu.RLock()

	all := make([]*models.Link, 0)
	for _, record := range r.store {
		record := record
		if record.OwnerID == ownerID {
			all = append(all, &record)
		}
	}

	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	return all, nil
}

// Update applies the non-nil patch fields to the owner's link.
func (r *LinkRepository) Update(_ context.Context, ownerID, shortCode string, patch models.LinkPatch) (*models.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, found := r.store[shortCode]
	if !found || record.OwnerID != ownerID {
		return nil, fmt.Errorf("%s: %w", shortCode, errs.ErrNotFound)
	}

	if patch.OriginalURL != nil {
		record.OriginalURL = *patch.OriginalURL
	}
	if patch.ExpiresAt != nil {
		expiresAt := *patch.ExpiresAt
		record.ExpiresAt = &expiresAt
	}
	r.store[shortCode] = record

	return &record, nil
}

// Delete removes the owner's link.
func (r *LinkRepository) Delete(_ context.Context, ownerID, shortCode string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, found := r.store[shortCode]
	if !found || record.OwnerID != ownerID {
		return fmt.Errorf("%s: %w", shortCode, errs.ErrNotFound)
	}
	delete(r.store, shortCode)

	return nil
}

// IncrementAccessCount adds one to the access count of the link. The
// increment runs under the write lock, so concurrent callers cannot
// lose updates.
func (r *LinkRepository) IncrementAccessCount(_ context.Context, shortCode string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, found := r.store[shortCode]
	if !found {
		return fmt.Errorf("%s: %w", shortCode, errs.ErrNotFound)
	}
	record.AccessCount++
	r.store[shortCode] = record

	return nil
}

// DeleteAllByOwner removes every link of the owner and returns the
// short codes that were removed.
func (r *LinkRepository) DeleteAllByOwner(_ context.Context, ownerID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	codes := make([]string, 0)
	for code, record := range r.store {
		if record.OwnerID == ownerID {
			codes = append(codes, code)
			delete(r.store, code)
		}
	}

	return codes, nil
}

// Ping is a placeholder method that reports that no database
// is connected.
func (r *LinkRepository) Ping(_ context.Context) error {
	return errs.ErrDBNotConnected
}
