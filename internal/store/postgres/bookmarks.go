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

// Bookmarks is the Postgres-backed bookmark store.
type Bookmarks struct {
	pool *pgxpool.Pool
}

func NewBookmarks(pool *pgxpool.Pool) *Bookmarks {
	return &Bookmarks{pool: pool}
}

const bookmarkColumns = `id, collection_id, user_id, url, title, description, favicon_url, tags, created_at`

const insertBookmark = `INSERT INTO bookmarks
	(id, collection_id, user_id, url, title, description, favicon_url, tags, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

func (s *Bookmarks) Create(ctx context.Context, b *domain.Bookmark) error {
	_, err := s.pool.Exec(ctx, insertBookmark,
		b.ID, b.CollectionID, b.UserID, b.URL, b.Title, b.Description, b.FaviconURL, b.Tags, b.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bookmark: %w", err)
	}
	return nil
}

// CreateBatch inserts one import batch inside a transaction, using a pgx
// batch to keep it a single round trip. The batch commits or fails as a
// whole; committed earlier batches are unaffected by a later failure.
func (s *Bookmarks) CreateBatch(ctx context.Context, bookmarks []*domain.Bookmark) error {
	if len(bookmarks) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin batch insert: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, b := range bookmarks {
		batch.Queue(insertBookmark,
			b.ID, b.CollectionID, b.UserID, b.URL, b.Title, b.Description, b.FaviconURL, b.Tags, b.CreatedAt)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert bookmark batch: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *Bookmarks) ByID(ctx context.Context, userID, id uuid.UUID) (*domain.Bookmark, error) {
	return scanBookmark(s.pool.QueryRow(ctx,
		`SELECT `+bookmarkColumns+` FROM bookmarks WHERE id = $1 AND user_id = $2`,
		id, userID))
}

func (s *Bookmarks) ListByOwner(ctx context.Context, userID uuid.UUID, collectionID *uuid.UUID) ([]*domain.Bookmark, error) {
	query := `SELECT ` + bookmarkColumns + ` FROM bookmarks WHERE user_id = $1`
	args := []any{userID}
	if collectionID != nil {
		query += ` AND collection_id = $2`
		args = append(args, *collectionID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	defer rows.Close()

	return collectBookmarks(rows)
}

// ListPublicByCollection joins on the collection's public flag: the public
// share page sees bookmarks only while their collection is public.
func (s *Bookmarks) ListPublicByCollection(ctx context.Context, collectionID uuid.UUID) ([]*domain.Bookmark, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT b.id, b.collection_id, b.user_id, b.url, b.title, b.description, b.favicon_url, b.tags, b.created_at
		 FROM bookmarks b
		 JOIN collections c ON c.id = b.collection_id
		 WHERE b.collection_id = $1 AND c.is_public = TRUE
		 ORDER BY b.created_at DESC`,
		collectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list public bookmarks: %w", err)
	}
	defer rows.Close()

	return collectBookmarks(rows)
}

func (s *Bookmarks) Update(ctx context.Context, userID, id uuid.UUID, upd domain.BookmarkUpdate) (*domain.Bookmark, error) {
	// The collection reference can be set to NULL explicitly, so it cannot
	// ride on COALESCE like the other columns.
	if upd.SetCollection {
		tag, err := s.pool.Exec(ctx,
			`UPDATE bookmarks SET collection_id = $3 WHERE id = $1 AND user_id = $2`,
			id, userID, upd.CollectionID)
		if err != nil {
			return nil, fmt.Errorf("failed to move bookmark: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil, domain.ErrNotFound
		}
	}

	return scanBookmark(s.pool.QueryRow(ctx,
		`UPDATE bookmarks SET
		     url         = COALESCE($3, url),
		     title       = COALESCE($4, title),
		     description = COALESCE($5, description),
		     favicon_url = COALESCE($6, favicon_url),
		     tags        = COALESCE($7, tags)
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+bookmarkColumns,
		id, userID, upd.URL, upd.Title, upd.Description, upd.FaviconURL, upd.Tags))
}

func (s *Bookmarks) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM bookmarks WHERE id = $1 AND user_id = $2`,
		id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanBookmark(row pgx.Row) (*domain.Bookmark, error) {
	var b domain.Bookmark
	err := row.Scan(&b.ID, &b.CollectionID, &b.UserID, &b.URL, &b.Title, &b.Description, &b.FaviconURL, &b.Tags, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan bookmark: %w", err)
	}
	return &b, nil
}

func collectBookmarks(rows pgx.Rows) ([]*domain.Bookmark, error) {
	bookmarks := make([]*domain.Bookmark, 0)
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}
