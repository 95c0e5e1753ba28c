// Package postgres implements the link storage on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/akarpov/shortly/internal/errs"
	"github.com/akarpov/shortly/internal/logger"
	"github.com/akarpov/shortly/internal/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// LinkRepository is the PostgreSQL implementation of the link store.
// Uniqueness of short codes rests on the unique constraint of the
// link table and access counting on a single UPDATE increment, so
// neither needs locking in this process.
type LinkRepository struct {
	db     *sql.DB
	logger logger.Logger
}

// NewLinkRepository creates a link repository over an open database handle.
func NewLinkRepository(db *sql.DB, logger logger.Logger) (*LinkRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("%w: *sql.DB", errs.ErrNilDependency)
	}
	if logger == nil {
		return nil, fmt.Errorf("%w: logger", errs.ErrNilDependency)
	}
	return &LinkRepository{db: db, logger: logger}, nil
}

// Create saves a new link record to the database. The owner row is
// upserted first so that the foreign key holds for identities issued
// outside this service. If the short code is taken, ErrConflict is
// returned.
func (r *LinkRepository) Create(ctx context.Context, link *models.Link) error {
	const qOwner = `
		INSERT INTO owner
			(id)
		VALUES
			($1)
		ON CONFLICT (id) DO NOTHING
	`
	const qLink = `
		INSERT INTO link
			(id, short_code, original_url, owner_id, created_at, expires_at)
		VALUES
			($1, $2, $3, $4, $5, $6)
	`

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			r.logger.Errorf("rollback: %v", err)
		}
	}()

	if _, err = tx.ExecContext(ctx, qOwner, link.OwnerID); err != nil {
		return fmt.Errorf("save owner with query (%s): %w", formatQuery(qOwner), err)
	}

	_, err = tx.ExecContext(ctx, qLink,
		link.ID, link.ShortCode, link.OriginalURL,
		link.OwnerID, link.CreatedAt, link.ExpiresAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			// The unique constraint on short_code is the single
			// collision signal; there is no pre-check.
			if pgErr.Code == pgerrcode.UniqueViolation {
				return errs.ErrConflict
			}
			return fmt.Errorf("save link with query (%s): %w",
				formatQuery(qLink), formatPgError(pgErr))
		}
		return fmt.Errorf("save link with query (%s): %w", formatQuery(qLink), err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetByCode retrieves a link record by its short code.
func (r *LinkRepository) GetByCode(ctx context.Context, shortCode string) (*models.Link, error) {
	const q = `
		SELECT
			id, short_code, original_url, owner_id,
			created_at, expires_at, access_count
		FROM link
		WHERE short_code = $1
	`
	return r.queryLink(ctx, q, shortCode)
}

// GetByOwnerAndCode retrieves a link record by its short code scoped
// to the given owner.
func (r *LinkRepository) GetByOwnerAndCode(ctx context.Context, ownerID, shortCode string) (*models.Link, error) {
	const q = `
		SELECT
			id, short_code, original_url, owner_id,
			created_at, expires_at, access_count
		FROM link
		WHERE owner_id = $1 AND short_code = $2
	`
	return r.queryLink(ctx, q, ownerID, shortCode)
}

// FindByOwnerAndURL retrieves the owner's link with the exact
// original URL.
func (r *LinkRepository) FindByOwnerAndURL(ctx context.Context, ownerID, originalURL string) (*models.Link, error) {
	const q = `
		SELECT
			id, short_code, original_url, owner_id,
			created_at, expires_at, access_count
		FROM link
		WHERE owner_id = $1 AND original_url = $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	return r.queryLink(ctx, q, ownerID, originalURL)
}

// ListByOwner retrieves all links of the owner, most recent first.
func (r *LinkRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Link, error) {
	const q = `
		SELECT
			id, short_code, original_url, owner_id,
			created_at, expires_at, access_count
		FROM link
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list links with query (%s): %w", formatQuery(q), err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.Errorf("close rows: %v", err)
		}
	}()

	links := make([]*models.Link, 0)
	for rows.Next() {
		link := new(models.Link)
		if err = rows.Scan(
			&link.ID, &link.ShortCode, &link.OriginalURL, &link.OwnerID,
			&link.CreatedAt, &link.ExpiresAt, &link.AccessCount,
		); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		links = append(links, link)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate links: %w", err)
	}

	return links, nil
}

// Update applies the non-nil patch fields to the owner's link and
// returns the updated record. ErrNotFound is returned when no link
// matches the code and owner.
func (r *LinkRepository) Update(ctx context.Context, ownerID, shortCode string, patch models.LinkPatch) (*models.Link, error) {
	const q = `
		UPDATE link
		SET
			original_url = COALESCE($3, original_url),
			expires_at = COALESCE($4, expires_at)
		WHERE owner_id = $1 AND short_code = $2
		RETURNING
			id, short_code, original_url, owner_id,
			created_at, expires_at, access_count
	`
	return r.queryLink(ctx, q, ownerID, shortCode, patch.OriginalURL, patch.ExpiresAt)
}

// Delete removes the owner's link. ErrNotFound is returned when no
// link matches the code and owner.
func (r *LinkRepository) Delete(ctx context.Context, ownerID, shortCode string) error {
	const q = `
		DELETE FROM link
		WHERE owner_id = $1 AND short_code = $2
	`

	res, err := r.db.ExecContext(ctx, q, ownerID, shortCode)
	if err != nil {
		return fmt.Errorf("delete link with query (%s): %w", formatQuery(q), err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", shortCode, errs.ErrNotFound)
	}

	return nil
}

// IncrementAccessCount atomically adds one to the access count of the
// link. The increment happens entirely inside the database, so
// concurrent resolutions of the same code cannot lose updates.
func (r *LinkRepository) IncrementAccessCount(ctx context.Context, shortCode string) error {
	const q = `
		UPDATE link
		SET access_count = access_count + 1
		WHERE short_code = $1
	`

	res, err := r.db.ExecContext(ctx, q, shortCode)
	if err != nil {
		return fmt.Errorf("increment access count with query (%s): %w", formatQuery(q), err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", shortCode, errs.ErrNotFound)
	}

	return nil
}

// DeleteAllByOwner removes the owner row; the foreign key cascades
// the deletion to every link it owns. The short codes of the removed
// links are returned for cache invalidation.
func (r *LinkRepository) DeleteAllByOwner(ctx context.Context, ownerID string) ([]string, error) {
	const qCodes = `
		SELECT short_code FROM link WHERE owner_id = $1
	`
	const qOwner = `
		DELETE FROM owner WHERE id = $1
	`

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			r.logger.Errorf("rollback: %v", err)
		}
	}()

	rows, err := tx.QueryContext(ctx, qCodes, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list codes with query (%s): %w", formatQuery(qCodes), err)
	}

	codes := make([]string, 0)
	for rows.Next() {
		var code string
		if err = rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scan short code: %w", err)
		}
		codes = append(codes, code)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate short codes: %w", err)
	}

	if _, err = tx.ExecContext(ctx, qOwner, ownerID); err != nil {
		return nil, fmt.Errorf("delete owner with query (%s): %w", formatQuery(qOwner), err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return codes, nil
}

// Ping verifies the connection to the database.
func (r *LinkRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *LinkRepository) queryLink(ctx context.Context, q string, args ...any) (*models.Link, error) {
	link := new(models.Link)

	err := r.db.QueryRowContext(ctx, q, args...).Scan(
		&link.ID, &link.ShortCode, &link.OriginalURL, &link.OwnerID,
		&link.CreatedAt, &link.ExpiresAt, &link.AccessCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return nil, fmt.Errorf("query link with query (%s): %w",
				formatQuery(q), formatPgError(pgErr))
		}
		return nil, fmt.Errorf("query link with query (%s): %w", formatQuery(q), err)
	}

	return link, nil
}

// formatQuery collapses a multiline SQL constant into a single log line.
func formatQuery(q string) string {
	return strings.Join(strings.Fields(q), " ")
}

// formatPgError extracts the useful parts of a postgres error.
func formatPgError(err *pgconn.PgError) error {
	return fmt.Errorf("SQL error: %s, Detail: %s, Where: %s, Code: %s, State: %v",
		err.Message, err.Detail, err.Where, err.Code, err.SQLState())
}
