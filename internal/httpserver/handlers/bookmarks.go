package handlers

import (
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hmoreau/linkshelf/internal/domain"
	"github.com/hmoreau/linkshelf/internal/httpserver/deps"
	"github.com/hmoreau/linkshelf/internal/httpserver/mw"
)

type bookmarkResponse struct {
	ID           string    `json:"id"`
	CollectionID *string   `json:"collection_id"`
	URL          string    `json:"url"`
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	FaviconURL   *string   `json:"favicon_url"`
	Tags         []string  `json:"tags"`
	CreatedAt    time.Time `json:"created_at"`
}

func toBookmarkResponse(b *domain.Bookmark) bookmarkResponse {
	resp := bookmarkResponse{
		ID:          b.ID.String(),
		URL:         b.URL,
		Title:       b.Title,
		Description: b.Description,
		FaviconURL:  b.FaviconURL,
		Tags:        b.Tags,
		CreatedAt:   b.CreatedAt,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if b.CollectionID != nil {
		id := b.CollectionID.String()
		resp.CollectionID = &id
	}
	return resp
}

type createBookmarkRequest struct {
	URL          string   `json:"url"`
	CollectionID *string  `json:"collection_id"`
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	FaviconURL   *string  `json:"favicon_url"`
	Tags         []string `json:"tags"`
}

func validBookmarkURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func CreateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := mw.UserID(r.Context())

		req, err := decodeJSON[createBookmarkRequest](r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if !validBookmarkURL(req.URL) {
			writeError(w, http.StatusBadRequest, "url must be absolute http(s)")
			return
		}

		b := &domain.Bookmark{
			ID:          uuid.New(),
			UserID:      userID,
			URL:         req.URL,
			Title:       req.Title,
			Description: req.Description,
			FaviconURL:  req.FaviconURL,
			Tags:        req.Tags,
			CreatedAt:   d.TimeNow(),
		}
		if req.CollectionID != nil {
			cid, err := uuid.Parse(*req.CollectionID)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid collection id")
				return
			}
			// Attaching to someone else's collection must fail the same
			// way as attaching to a nonexistent one.
			if _, err := d.Collections.ByID(r.Context(), userID, cid); err != nil {
				writeDomainError(w, err)
				return
			}
			b.CollectionID = &cid
		}

		if err := d.Bookmarks.Create(r.Context(), b); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toBookmarkResponse(b))
	}
}

// ListBookmarks returns the caller's bookmarks, optionally filtered with
// ?collection_id=.
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := mw.UserID(r.Context())

		var filter *uuid.UUID
		if raw := r.URL.Query().Get("collection_id"); raw != "" {
			cid, err := uuid.Parse(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid collection id")
				return
			}
			filter = &cid
		}

		list, err := d.Bookmarks.ListByOwner(r.Context(), userID, filter)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		out := make([]bookmarkResponse, 0, len(list))
		for _, b := range list {
			out = append(out, toBookmarkResponse(b))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func GetBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := mw.UserID(r.Context())

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid bookmark id")
			return
		}

		b, err := d.Bookmarks.ByID(r.Context(), userID, id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toBookmarkResponse(b))
	}
}

type updateBookmarkRequest struct {
	CollectionID *string  `json:"collection_id"`
	URL          *string  `json:"url"`
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	FaviconURL   *string  `json:"favicon_url"`
	Tags         []string `json:"tags"`

	// set by a custom unmarshal step below
	collectionPresent bool
}

// UnmarshalJSON records whether collection_id appeared at all, so a
// literal null detaches the bookmark while an absent key changes nothing.
func (u *updateBookmarkRequest) UnmarshalJSON(data []byte) error {
	type alias updateBookmarkRequest
	var a alias
	if err := jsonUnmarshalStrict(data, &a); err != nil {
		return err
	}
	*u = updateBookmarkRequest(a)
	u.collectionPresent = jsonKeyPresent(data, "collection_id")
	return nil
}

func UpdateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := mw.UserID(r.Context())

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid bookmark id")
			return
		}

		req, err := decodeJSON[updateBookmarkRequest](r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.URL != nil && !validBookmarkURL(*req.URL) {
			writeError(w, http.StatusBadRequest, "url must be absolute http(s)")
			return
		}

		upd := domain.BookmarkUpdate{
			URL:         req.URL,
			Title:       req.Title,
			Description: req.Description,
			FaviconURL:  req.FaviconURL,
			Tags:        req.Tags,
		}
		if req.collectionPresent {
			upd.SetCollection = true
			if req.CollectionID != nil {
				cid, err := uuid.Parse(*req.CollectionID)
				if err != nil {
					writeError(w, http.StatusBadRequest, "invalid collection id")
					return
				}
				if _, err := d.Collections.ByID(r.Context(), userID, cid); err != nil {
					writeDomainError(w, err)
					return
				}
				upd.CollectionID = &cid
			}
		}

		b, err := d.Bookmarks.Update(r.Context(), userID, id, upd)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toBookmarkResponse(b))
	}
}

func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := mw.UserID(r.Context())

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid bookmark id")
			return
		}

		if err := d.Bookmarks.Delete(r.Context(), userID, id); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
