package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session backs one refresh-token pair. The refresh token itself is never
// stored; only its SHA-256 hash is. Rotation deletes the row and inserts
// a new one, so a stolen old token stops working on first reuse.
type Session struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	RefreshHash string
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// Expired reports whether the session can no longer be refreshed.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}
