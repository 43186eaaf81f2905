package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hmoreau/linkshelf/internal/domain"
)

// Collections is the Postgres-backed collection store. Every owner-facing
// query filters on user_id; the original's row-level policy becomes an
// explicit WHERE clause here.
type Collections struct {
	pool *pgxpool.Pool
}

func NewCollections(pool *pgxpool.Pool) *Collections {
	return &Collections{pool: pool}
}

const collectionColumns = `id, user_id, name, description, is_public, slug, created_at`

func (s *Collections) Create(ctx context.Context, c *domain.Collection) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO collections (id, user_id, name, description, is_public, slug, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.UserID, c.Name, c.Description, c.IsPublic, c.Slug, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}

func (s *Collections) ByID(ctx context.Context, userID, id uuid.UUID) (*domain.Collection, error) {
	return scanCollection(s.pool.QueryRow(ctx,
		`SELECT `+collectionColumns+` FROM collections WHERE id = $1 AND user_id = $2`,
		id, userID))
}

func (s *Collections) ListByOwner(ctx context.Context, userID uuid.UUID) ([]*domain.Collection, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+collectionColumns+` FROM collections
		 WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	defer rows.Close()

	collections := make([]*domain.Collection, 0)
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}
	return collections, rows.Err()
}

func (s *Collections) Update(ctx context.Context, userID, id uuid.UUID, upd domain.CollectionUpdate) (*domain.Collection, error) {
	return scanCollection(s.pool.QueryRow(ctx,
		`UPDATE collections SET
		     name        = COALESCE($3, name),
		     description = COALESCE($4, description),
		     is_public   = COALESCE($5, is_public)
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+collectionColumns,
		id, userID, upd.Name, upd.Description, upd.IsPublic))
}

// AssignSlug sets the slug at most once. The "slug IS NULL" guard makes the
// operation idempotent: re-publishing an already-slugged collection leaves
// the existing slug untouched.
func (s *Collections) AssignSlug(ctx context.Context, userID, id uuid.UUID, slug string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE collections SET slug = $3
		 WHERE id = $1 AND user_id = $2 AND slug IS NULL`,
		id, userID, slug)
	if err != nil {
		return fmt.Errorf("failed to assign slug: %w", err)
	}
	return nil
}

func (s *Collections) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM collections WHERE id = $1 AND user_id = $2`,
		id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// BySlug only matches public collections, so a collection toggled private
// 404s on the very next read even though its slug is retained.
func (s *Collections) BySlug(ctx context.Context, slug string) (*domain.Collection, error) {
	return scanCollection(s.pool.QueryRow(ctx,
		`SELECT `+collectionColumns+` FROM collections
		 WHERE slug = $1 AND is_public = TRUE`,
		slug))
}

func scanCollection(row pgx.Row) (*domain.Collection, error) {
	var c domain.Collection
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Description, &c.IsPublic, &c.Slug, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan collection: %w", err)
	}
	return &c, nil
}
