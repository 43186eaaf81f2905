package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/hmoreau/linkshelf/internal/domain"
)

// Collections is an in-memory store.Collections.
type Collections struct {
	mu          sync.Mutex
	collections map[uuid.UUID]*domain.Collection

	// OnDelete stands in for the schema's ON DELETE SET NULL: the test
	// harness wires it to Bookmarks.DetachCollection.
	OnDelete func(collectionID uuid.UUID)
}

func NewCollections() *Collections {
	return &Collections{collections: make(map[uuid.UUID]*domain.Collection)}
}

func (s *Collections) Create(_ context.Context, c *domain.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := cloneCollection(c)
	s.collections[c.ID] = cp
	return nil
}

func (s *Collections) ByID(_ context.Context, userID, id uuid.UUID) (*domain.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[id]
	if !ok || c.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return cloneCollection(c), nil
}

func (s *Collections) ListByOwner(_ context.Context, userID uuid.UUID) ([]*domain.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Collection, 0)
	for _, c := range s.collections {
		if c.UserID == userID {
			out = append(out, cloneCollection(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Collections) Update(_ context.Context, userID, id uuid.UUID, upd domain.CollectionUpdate) (*domain.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[id]
	if !ok || c.UserID != userID {
		return nil, domain.ErrNotFound
	}
	if upd.Name != nil {
		c.Name = *upd.Name
	}
	if upd.Description != nil {
		c.Description = upd.Description
	}
	if upd.IsPublic != nil {
		c.IsPublic = *upd.IsPublic
	}
	return cloneCollection(c), nil
}

func (s *Collections) AssignSlug(_ context.Context, userID, id uuid.UUID, slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[id]
	if !ok || c.UserID != userID || c.Slug != nil {
		return nil
	}
	c.Slug = &slug
	return nil
}

func (s *Collections) Delete(_ context.Context, userID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[id]
	if !ok || c.UserID != userID {
		return domain.ErrNotFound
	}
	delete(s.collections, id)
	if s.OnDelete != nil {
		s.OnDelete(id)
	}
	return nil
}

func (s *Collections) BySlug(_ context.Context, slug string) (*domain.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.collections {
		if c.Slug != nil && *c.Slug == slug && c.IsPublic {
			return cloneCollection(c), nil
		}
	}
	return nil, domain.ErrNotFound
}

// IsPublic reports the live public flag of a collection (used by the
// bookmark store's public listing).
func (s *Collections) IsPublic(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[id]
	return ok && c.IsPublic
}

func cloneCollection(c *domain.Collection) *domain.Collection {
	cp := *c
	if c.Description != nil {
		d := *c.Description
		cp.Description = &d
	}
	if c.Slug != nil {
		sl := *c.Slug
		cp.Slug = &sl
	}
	return &cp
}
