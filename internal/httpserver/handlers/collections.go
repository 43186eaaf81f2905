package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hmoreau/linkshelf/internal/domain"
	"github.com/hmoreau/linkshelf/internal/httpserver/deps"
	"github.com/hmoreau/linkshelf/internal/httpserver/mw"
	"github.com/hmoreau/linkshelf/internal/logger"
)

type collectionResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	IsPublic    bool      `json:"is_public"`
	Slug        *string   `json:"slug"`
	CreatedAt   time.Time `json:"created_at"`
}

func toCollectionResponse(c *domain.Collection) collectionResponse {
	return collectionResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Description: c.Description,
		IsPublic:    c.IsPublic,
		Slug:        c.Slug,
		CreatedAt:   c.CreatedAt,
	}
}

type createCollectionRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func CreateCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := mw.UserID(r.Context())

		req, err := decodeJSON[createCollectionRequest](r)
		if err != nil || req.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}

		c := &domain.Collection{
			ID:          uuid.New(),
			UserID:      userID,
			Name:        req.Name,
			Description: req.Description,
			CreatedAt:   d.TimeNow(),
		}
		if err := d.Collections.Create(r.Context(), c); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toCollectionResponse(c))
	}
}

func ListCollections(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := mw.UserID(r.Context())

		list, err := d.Collections.ListByOwner(r.Context(), userID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		out := make([]collectionResponse, 0, len(list))
		for _, c := range list {
			out = append(out, toCollectionResponse(c))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func GetCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := mw.UserID(r.Context())

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid collection id")
			return
		}

		c, err := d.Collections.ByID(r.Context(), userID, id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toCollectionResponse(c))
	}
}

type updateCollectionRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"is_public"`
}

// UpdateCollection handles partial updates, including publishing. The
// first publish mints the permanent slug; unpublishing leaves it in place
// so the share URL survives a publish/unpublish cycle.
func UpdateCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := mw.UserID(r.Context())

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid collection id")
			return
		}

		req, err := decodeJSON[updateCollectionRequest](r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Name != nil && *req.Name == "" {
			writeError(w, http.StatusBadRequest, "name cannot be empty")
			return
		}

		if req.IsPublic != nil && *req.IsPublic {
			if err := ensureSlug(d, r, userID, id); err != nil {
				writeDomainError(w, err)
				return
			}
		}

		c, err := d.Collections.Update(r.Context(), userID, id, domain.CollectionUpdate{
			Name:        req.Name,
			Description: req.Description,
			IsPublic:    req.IsPublic,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toCollectionResponse(c))
	}
}

// ensureSlug assigns a slug if the collection has none yet. Collisions on
// the unique index are vanishingly rare at 62^8 but retried anyway.
func ensureSlug(d deps.Deps, r *http.Request, userID, id uuid.UUID) error {
	c, err := d.Collections.ByID(r.Context(), userID, id)
	if err != nil {
		return err
	}
	if c.Slug != nil {
		return nil
	}

	var lastErr error
	for range 3 {
		slug, err := domain.NewSlug()
		if err != nil {
			return err
		}
		if err := d.Collections.AssignSlug(r.Context(), userID, id, slug); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	d.Logger.Error("exhausted slug assignment retries", logger.Error(lastErr))
	return lastErr
}

func DeleteCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := mw.UserID(r.Context())

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid collection id")
			return
		}

		if err := d.Collections.Delete(r.Context(), userID, id); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
