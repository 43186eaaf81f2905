package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hmoreau/linkshelf/internal/domain"
)

// Sessions is the Postgres-backed refresh-session store.
type Sessions struct {
	pool *pgxpool.Pool
}

func NewSessions(pool *pgxpool.Pool) *Sessions {
	return &Sessions{pool: pool}
}

func (s *Sessions) Create(ctx context.Context, session *domain.Session) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO sessions (id, user_id, refresh_hash, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		session.ID, session.UserID, session.RefreshHash, session.ExpiresAt, session.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (s *Sessions) ByRefreshHash(ctx context.Context, refreshHash string) (*domain.Session, error) {
	var sess domain.Session
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, refresh_hash, expires_at, created_at
		 FROM sessions WHERE refresh_hash = $1`,
		refreshHash).Scan(&sess.ID, &sess.UserID, &sess.RefreshHash, &sess.ExpiresAt, &sess.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &sess, nil
}

// Rotate replaces the old session with next in one transaction. If the old
// row is already gone (token reuse or concurrent refresh), the rotation
// fails and no new session is created.
func (s *Sessions) Rotate(ctx context.Context, oldID uuid.UUID, next *domain.Session) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin rotation: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, oldID)
	if err != nil {
		return fmt.Errorf("failed to delete rotated session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionExpired
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO sessions (id, user_id, refresh_hash, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		next.ID, next.UserID, next.RefreshHash, next.ExpiresAt, next.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert rotated session: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *Sessions) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions whose refresh window has passed. Called
// by the periodic sweeper; expired rows are already unusable, this just
// keeps the table from growing without bound.
func (s *Sessions) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
