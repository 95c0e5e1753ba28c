package memstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/akarpov/shortly/internal/errs"
	"github.com/akarpov/shortly/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_DuplicateCode(t *testing.T) {
	ctx := context.Background()
	store := NewLinkRepository()

	first := models.NewLink("user-1", "simple", "https://a.test", nil)
	require.NoError(t, store.Create(ctx, first))

	second := models.NewLink("user-2", "simple", "https://b.test", nil)
	assert.ErrorIs(t, store.Create(ctx, second), errs.ErrConflict)

	// The first record must be untouched by the failed create.
	got, err := store.GetByCode(ctx, "simple")
	require.NoError(t, err)
	assert.Equal(t, "https://a.test", got.OriginalURL)
	assert.Equal(t, "user-1", got.OwnerID)
}

func TestCreate_ConcurrentSameCode(t *testing.T) {
	ctx := context.Background()
	store := NewLinkRepository()

	const attempts = 50
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.Create(ctx, models.NewLink("user-1", "contested", "https://a.test", nil))
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, errs.ErrConflict)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded, "exactly one concurrent create must win")
}

func TestIncrementAccessCount_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := NewLinkRepository()
	require.NoError(t, store.Create(ctx, models.NewLink("user-1", "hot", "https://a.test", nil)))

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.IncrementAccessCount(ctx, "hot"))
		}()
	}
	wg.Wait()

	got, err := store.GetByCode(ctx, "hot")
	require.NoError(t, err)
	assert.EqualValues(t, n, got.AccessCount, "no increment may be lost")
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	store := NewLinkRepository()
	require.NoError(t, store.Create(ctx, models.NewLink("user-1", "simple", "https://a.test", nil)))

	newURL := "https://b.test"
	updated, err := store.Update(ctx, "user-1", "simple", models.LinkPatch{OriginalURL: &newURL})
	require.NoError(t, err)
	assert.Equal(t, newURL, updated.OriginalURL)
	assert.Nil(t, updated.ExpiresAt)

	expiresAt := time.Now().Add(24 * time.Hour).UTC()
	updated, err = store.Update(ctx, "user-1", "simple", models.LinkPatch{ExpiresAt: &expiresAt})
	require.NoError(t, err)
	assert.Equal(t, newURL, updated.OriginalURL, "url must survive an expiry-only patch")
	require.NotNil(t, updated.ExpiresAt)
	assert.True(t, updated.ExpiresAt.Equal(expiresAt))

	_, err = store.Update(ctx, "user-2", "simple", models.LinkPatch{OriginalURL: &newURL})
	assert.ErrorIs(t, err, errs.ErrNotFound, "foreign links must be invisible to update")
}

func TestListByOwner_Order(t *testing.T) {
	ctx := context.Background()
	store := NewLinkRepository()

	older := models.NewLink("user-1", "first", "https://a.test", nil)
	older.CreatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, store.Create(ctx, older))
	require.NoError(t, store.Create(ctx, models.NewLink("user-1", "second", "https://b.test", nil)))
	require.NoError(t, store.Create(ctx, models.NewLink("user-2", "foreign", "https://c.test", nil)))

	links, err := store.ListByOwner(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "second", links[0].ShortCode, "most recent first")
	assert.Equal(t, "first", links[1].ShortCode)
}

func TestDeleteAllByOwner(t *testing.T) {
	ctx := context.Background()
	store := NewLinkRepository()
	require.NoError(t, store.Create(ctx, models.NewLink("user-1", "one", "https://a.test", nil)))
	require.NoError(t, store.Create(ctx, models.NewLink("user-1", "two", "https://b.test", nil)))
	require.NoError(t, store.Create(ctx, models.NewLink("user-2", "keep", "https://c.test", nil)))

	codes, err := store.DeleteAllByOwner(ctx, "user-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"one", "two"}, codes)

	_, err = store.GetByCode(ctx, "one")
	assert.ErrorIs(t, err, errs.ErrNotFound)
	_, err = store.GetByCode(ctx, "two")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	got, err := store.GetByCode(ctx, "keep")
	require.NoError(t, err)
	assert.Equal(t, "user-2", got.OwnerID)
}

func TestFindByOwnerAndURL(t *testing.T) {
	ctx := context.Background()
	store := NewLinkRepository()
	require.NoError(t, store.Create(ctx, models.NewLink("user-1", "mine", "https://a.test", nil)))

	got, err := store.FindByOwnerAndURL(ctx, "user-1", "https://a.test")
	require.NoError(t, err)
	assert.Equal(t, "mine", got.ShortCode)

	_, err = store.FindByOwnerAndURL(ctx, "user-2", "https://a.test")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = store.FindByOwnerAndURL(ctx, "user-1", "https://a.test/other")
	assert.ErrorIs(t, err, errs.ErrNotFound, "match must be exact")
}
