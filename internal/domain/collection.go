package domain

import (
	"time"

	"github.com/google/uuid"
)

// Collection is a named, owned grouping of bookmarks, optionally shared
// read-only at /share/{slug}.
//
// Slug invariant: assigned exactly once, the first time the collection is
// made public. Unpublishing keeps the slug so a later re-publish reuses
// the same public URL. Readers must check IsPublic, never slug presence.
type Collection struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Name        string
	Description *string
	IsPublic    bool
	Slug        *string
	CreatedAt   time.Time
}

// CollectionUpdate carries a partial update; nil fields are left untouched.
type CollectionUpdate struct {
	Name        *string
	Description *string
	IsPublic    *bool
}
