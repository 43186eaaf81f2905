package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/hmoreau/linkshelf/internal/domain"
)

// Bookmarks is an in-memory store.Bookmarks.
type Bookmarks struct {
	mu        sync.Mutex
	bookmarks map[uuid.UUID]*domain.Bookmark

	// Collections, when set, backs ListPublicByCollection's public-flag
	// guard the way the SQL join does.
	Collections *Collections

	// FailBatch makes the FailOn-th CreateBatch call (1-based) fail
	// without storing anything (test hook for partial-import reporting).
	FailBatch  error
	FailOn     int
	batchCalls int
}

func NewBookmarks() *Bookmarks {
	return &Bookmarks{bookmarks: make(map[uuid.UUID]*domain.Bookmark)}
}

func (s *Bookmarks) Create(_ context.Context, b *domain.Bookmark) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookmarks[b.ID] = cloneBookmark(b)
	return nil
}

func (s *Bookmarks) CreateBatch(_ context.Context, bookmarks []*domain.Bookmark) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batchCalls++
	if s.FailBatch != nil && s.batchCalls == s.FailOn {
		return s.FailBatch
	}
	for _, b := range bookmarks {
		s.bookmarks[b.ID] = cloneBookmark(b)
	}
	return nil
}

func (s *Bookmarks) ByID(_ context.Context, userID, id uuid.UUID) (*domain.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookmarks[id]
	if !ok || b.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return cloneBookmark(b), nil
}

func (s *Bookmarks) ListByOwner(_ context.Context, userID uuid.UUID, collectionID *uuid.UUID) ([]*domain.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Bookmark, 0)
	for _, b := range s.bookmarks {
		if b.UserID != userID {
			continue
		}
		if collectionID != nil && (b.CollectionID == nil || *b.CollectionID != *collectionID) {
			continue
		}
		out = append(out, cloneBookmark(b))
	}
	sortBookmarks(out)
	return out, nil
}

func (s *Bookmarks) ListPublicByCollection(_ context.Context, collectionID uuid.UUID) ([]*domain.Bookmark, error) {
	if s.Collections != nil && !s.Collections.IsPublic(collectionID) {
		return []*domain.Bookmark{}, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Bookmark, 0)
	for _, b := range s.bookmarks {
		if b.CollectionID != nil && *b.CollectionID == collectionID {
			out = append(out, cloneBookmark(b))
		}
	}
	sortBookmarks(out)
	return out, nil
}

func (s *Bookmarks) Update(_ context.Context, userID, id uuid.UUID, upd domain.BookmarkUpdate) (*domain.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookmarks[id]
	if !ok || b.UserID != userID {
		return nil, domain.ErrNotFound
	}
	if upd.SetCollection {
		b.CollectionID = upd.CollectionID
	}
	if upd.URL != nil {
		b.URL = *upd.URL
	}
	if upd.Title != nil {
		b.Title = upd.Title
	}
	if upd.Description != nil {
		b.Description = upd.Description
	}
	if upd.FaviconURL != nil {
		b.FaviconURL = upd.FaviconURL
	}
	if upd.Tags != nil {
		b.Tags = append([]string(nil), upd.Tags...)
	}
	return cloneBookmark(b), nil
}

func (s *Bookmarks) Delete(_ context.Context, userID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookmarks[id]
	if !ok || b.UserID != userID {
		return domain.ErrNotFound
	}
	delete(s.bookmarks, id)
	return nil
}

// DetachCollection nulls the collection reference of every bookmark in the
// given collection, mimicking ON DELETE SET NULL.
func (s *Bookmarks) DetachCollection(collectionID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookmarks {
		if b.CollectionID != nil && *b.CollectionID == collectionID {
			b.CollectionID = nil
		}
	}
}

// Count returns the number of stored bookmarks (test helper).
func (s *Bookmarks) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookmarks)
}

// ErrBatchFailed is a convenience sentinel for FailBatch in tests.
var ErrBatchFailed = errors.New("batch insert failed")

func sortBookmarks(bs []*domain.Bookmark) {
	sort.Slice(bs, func(i, j int) bool { return bs[i].CreatedAt.After(bs[j].CreatedAt) })
}

func cloneBookmark(b *domain.Bookmark) *domain.Bookmark {
	cp := *b
	if b.CollectionID != nil {
		id := *b.CollectionID
		cp.CollectionID = &id
	}
	cp.Tags = append([]string(nil), b.Tags...)
	return &cp
}
