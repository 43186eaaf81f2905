package domain

import (
	"time"

	"github.com/google/uuid"
)

// Bookmark is a saved URL with optional page metadata.
// CollectionID is nullable: deleting a collection detaches its bookmarks
// instead of cascading the delete. Tags are unordered and duplicates are
// not rejected.
type Bookmark struct {
	ID           uuid.UUID
	CollectionID *uuid.UUID
	UserID       uuid.UUID
	URL          string
	Title        *string
	Description  *string
	FaviconURL   *string
	Tags         []string
	CreatedAt    time.Time
}

// BookmarkUpdate carries a partial update; nil fields are left untouched.
// SetCollection distinguishes "leave alone" from "detach" (nil CollectionID).
type BookmarkUpdate struct {
	CollectionID  *uuid.UUID
	SetCollection bool
	URL           *string
	Title         *string
	Description   *string
	FaviconURL    *string
	Tags          []string
}
