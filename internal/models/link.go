// Package models contains the data models for the application.
package models

import (
	"fmt"
	"time"

	"github.com/akarpov/shortly/internal/errs"
	"github.com/google/uuid"
)

// Link represents a shortened link record.
//
// ShortCode and OwnerID are immutable after creation. ExpiresAt is
// the only stored expiration signal: whether a link is expired is
// always derived from it at read time, never stored separately.
type Link struct {
	ID          string     `json:"id"`
	ShortCode   string     `json:"short_code"`
	OriginalURL string     `json:"original_url"`
	OwnerID     string     `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	AccessCount int64      `json:"access_count"`
}

// NewLink creates a new link record owned by the given user.
func NewLink(ownerID, shortCode, originalURL string, expiresAt *time.Time) *Link {
	return &Link{
		ID:          uuid.NewString(),
		ShortCode:   shortCode,
		OriginalURL: originalURL,
		OwnerID:     ownerID,
		CreatedAt:   time.Now().UTC(),
		ExpiresAt:   expiresAt,
	}
}

// ExpiredAt reports whether the link is expired at the given instant.
// Links without ExpiresAt never expire.
func (l *Link) ExpiredAt(now time.Time) bool {
	return l.ExpiresAt != nil && l.ExpiresAt.Before(now)
}

// TTLAt returns how long a cached redirect for this link may live
// when cached at the given instant, capped by defaultTTL. The zero
// duration means the link must not be cached.
func (l *Link) TTLAt(now time.Time, defaultTTL time.Duration) time.Duration {
	if l.ExpiresAt == nil {
		return defaultTTL
	}
	remaining := l.ExpiresAt.Sub(now)
	if remaining <= 0 {
		return 0
	}
	if remaining < defaultTTL {
		return remaining
	}
	return defaultTTL
}

// LinkPatch carries the mutable link fields for update operations.
// Nil fields are left untouched.
type LinkPatch struct {
	OriginalURL *string
	ExpiresAt   *time.Time
}

// ExpiryFromDays converts a day count into an absolute expiration
// timestamp.
func ExpiryFromDays(days int) (*time.Time, error) {
	if days <= 0 {
		return nil, fmt.Errorf("%w: expires_in_days must be positive", errs.ErrInvalidRequest)
	}
	expiresAt := time.Now().UTC().Add(time.Duration(days) * 24 * time.Hour)
	return &expiresAt, nil
}
