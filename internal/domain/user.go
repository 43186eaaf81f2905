package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an account holder. Collections and bookmarks are always owned
// by exactly one user; every store query is scoped by the owner id.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
