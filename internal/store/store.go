// Package store defines the persistence interfaces consumed by handlers
// and services. The postgres subpackage is the production implementation;
// the memory subpackage backs tests.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hmoreau/linkshelf/internal/domain"
)

// Users persists accounts.
type Users interface {
	// Create inserts a new user. Returns domain.ErrEmailTaken if the email
	// is already registered.
	Create(ctx context.Context, user *domain.User) error
	ByEmail(ctx context.Context, email string) (*domain.User, error)
	ByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// Sessions persists refresh-token sessions.
type Sessions interface {
	Create(ctx context.Context, session *domain.Session) error
	ByRefreshHash(ctx context.Context, refreshHash string) (*domain.Session, error)
	// Rotate atomically replaces old with next. The old session must still
	// exist; a concurrent rotation of the same token fails with
	// domain.ErrSessionExpired.
	Rotate(ctx context.Context, oldID uuid.UUID, next *domain.Session) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ResetTokens persists single-use password-reset tokens.
type ResetTokens interface {
	Create(ctx context.Context, tokenHash string, userID uuid.UUID, expiresAt time.Time) error
	// Consume deletes the token and returns its user. Unknown or expired
	// tokens yield domain.ErrNotFound.
	Consume(ctx context.Context, tokenHash string) (uuid.UUID, error)
}

// Collections persists bookmark collections. Every method except BySlug is
// scoped by the owner id: a caller can never see or touch another user's
// rows, mirroring the row-level policy of the original hosted store.
type Collections interface {
	Create(ctx context.Context, collection *domain.Collection) error
	ByID(ctx context.Context, userID, id uuid.UUID) (*domain.Collection, error)
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]*domain.Collection, error)
	Update(ctx context.Context, userID, id uuid.UUID, upd domain.CollectionUpdate) (*domain.Collection, error)
	// AssignSlug sets the slug only when none is assigned yet; it is a no-op
	// for an already-slugged collection.
	AssignSlug(ctx context.Context, userID, id uuid.UUID, slug string) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	// BySlug returns the collection only while it is public at read time.
	BySlug(ctx context.Context, slug string) (*domain.Collection, error)
}

// Bookmarks persists bookmarks, owner-scoped like Collections.
type Bookmarks interface {
	Create(ctx context.Context, bookmark *domain.Bookmark) error
	// CreateBatch inserts all bookmarks of one import batch. It either
	// commits the whole batch or none of it.
	CreateBatch(ctx context.Context, bookmarks []*domain.Bookmark) error
	ByID(ctx context.Context, userID, id uuid.UUID) (*domain.Bookmark, error)
	// ListByOwner returns the owner's bookmarks, optionally filtered by
	// collection.
	ListByOwner(ctx context.Context, userID uuid.UUID, collectionID *uuid.UUID) ([]*domain.Bookmark, error)
	// ListPublicByCollection returns bookmarks of a collection only while
	// that collection is public; it requires no owner.
	ListPublicByCollection(ctx context.Context, collectionID uuid.UUID) ([]*domain.Bookmark, error)
	Update(ctx context.Context, userID, id uuid.UUID, upd domain.BookmarkUpdate) (*domain.Bookmark, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
