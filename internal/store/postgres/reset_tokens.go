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

// ResetTokens is the Postgres-backed password-reset token store.
type ResetTokens struct {
	pool *pgxpool.Pool
}

func NewResetTokens(pool *pgxpool.Pool) *ResetTokens {
	return &ResetTokens{pool: pool}
}

func (s *ResetTokens) Create(ctx context.Context, tokenHash string, userID uuid.UUID, expiresAt time.Time) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO password_reset_tokens (token_hash, user_id, expires_at)
		 VALUES ($1, $2, $3)`,
		tokenHash, userID, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}
	return nil
}

// Consume deletes the token row and returns its owner. The DELETE doubles
// as the single-use guard: a second consume of the same token sees zero
// rows and reports ErrNotFound.
func (s *ResetTokens) Consume(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	var userID uuid.UUID
	err := s.pool.QueryRow(ctx,
		`DELETE FROM password_reset_tokens
		 WHERE token_hash = $1 AND expires_at > now()
		 RETURNING user_id`,
		tokenHash).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, domain.ErrNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to consume reset token: %w", err)
	}
	return userID, nil
}

// DeleteExpired removes reset tokens that can no longer be consumed.
func (s *ResetTokens) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM password_reset_tokens WHERE expires_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired reset tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
