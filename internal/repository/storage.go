// Package repository provides the interfaces of storage.
package repository

import (
	"context"
	"fmt"

	"github.com/akarpov/shortly/internal/config"
	"github.com/akarpov/shortly/internal/errs"
	"github.com/akarpov/shortly/internal/logger"
	"github.com/akarpov/shortly/internal/models"
	"github.com/akarpov/shortly/internal/repository/memstore"
	"github.com/akarpov/shortly/internal/repository/postgres"
	"github.com/akarpov/shortly/migrations"
	"github.com/jackc/pgx/v5/stdlib"
	sqldblogger "github.com/simukti/sqldb-logger"
)

// LinkStorage is the interface of the durable link store. It is the
// source of truth for all link records and the sole writer of access
// counts.
type LinkStorage interface {
	// Create saves a new link. Short code uniqueness is enforced by
	// the storage itself; a taken code yields errs.ErrConflict.
	Create(ctx context.Context, link *models.Link) error

	// GetByCode retrieves a link by its short code regardless of the
	// owner. Expiration is not filtered here: the policy differs
	// between callers and lives in the service layer.
	GetByCode(ctx context.Context, shortCode string) (*models.Link, error)

	// GetByOwnerAndCode retrieves a link by its short code scoped to
	// the given owner.
	GetByOwnerAndCode(ctx context.Context, ownerID, shortCode string) (*models.Link, error)

	// FindByOwnerAndURL retrieves the owner's link with the exact
	// original URL.
	FindByOwnerAndURL(ctx context.Context, ownerID, originalURL string) (*models.Link, error)

	// ListByOwner retrieves all links of the owner, most recent first.
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Link, error)

	// Update applies the non-nil patch fields to the owner's link and
	// returns the updated record.
	Update(ctx context.Context, ownerID, shortCode string, patch models.LinkPatch) (*models.Link, error)

	// Delete removes the owner's link.
	Delete(ctx context.Context, ownerID, shortCode string) error

	// IncrementAccessCount atomically adds one to the access count of
	// the link. Concurrent callers must not lose updates.
	IncrementAccessCount(ctx context.Context, shortCode string) error

	// DeleteAllByOwner removes the owner together with every link it
	// owns and returns the short codes that were removed.
	DeleteAllByOwner(ctx context.Context, ownerID string) ([]string, error)

	// Ping checks the health of the storage.
	Ping(ctx context.Context) error
}

// NewLinkStore returns one of the LinkStorage implementations based
// on the configuration: postgres when a DSN is provided, an in-memory
// store otherwise.
func NewLinkStore(ctx context.Context, config *config.Config, log logger.Logger) (LinkStorage, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config", errs.ErrNilDependency)
	}
	if log == nil {
		return nil, fmt.Errorf("%w: logger", errs.ErrNilDependency)
	}

	if config.DSN == "" {
		log.Info("DSN is not provided, initializing in-memory storage")
		return memstore.NewLinkRepository(), nil
	}

	db := sqldblogger.OpenDriver(config.DSN, stdlib.GetDefaultDriver(), sqlLogger{log})
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	if err := migrations.Up(db); err != nil {
		return nil, fmt.Errorf("failed to migrate DB: %w", err)
	}

	return postgres.NewLinkRepository(db, log)
}

// sqlLogger adapts the application logger to the sqldb-logger
// interface so that every SQL statement is traceable in debug logs.
type sqlLogger struct {
	logger.Logger
}

func (l sqlLogger) Log(ctx context.Context, level sqldblogger.Level, msg string, data map[string]interface{}) {
	args := make([]interface{}, 0, len(data)*2)
	for k, v := range data {
		args = append(args, k, v)
	}
	switch level {
	case sqldblogger.LevelError:
		l.With(ctx, args...).Error(msg)
	default:
		l.With(ctx, args...).Debug(msg)
	}
}
