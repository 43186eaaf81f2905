package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmoreau/linkshelf/internal/domain"
	"github.com/hmoreau/linkshelf/internal/httpserver/handlers"
)

func bookmarksRouter(f *fixture, userID uuid.UUID) chi.Router {
	r := chi.NewRouter()
	r.Use(asUser(userID))
	r.Post("/api/bookmarks", handlers.CreateBookmark(f.deps))
	r.Get("/api/bookmarks", handlers.ListBookmarks(f.deps))
	r.Get("/api/bookmarks/{id}", handlers.GetBookmark(f.deps))
	r.Patch("/api/bookmarks/{id}", handlers.UpdateBookmark(f.deps))
	r.Delete("/api/bookmarks/{id}", handlers.DeleteBookmark(f.deps))
	return r
}

type bookmarkJSON struct {
	ID           string   `json:"id"`
	CollectionID *string  `json:"collection_id"`
	URL          string   `json:"url"`
	Title        *string  `json:"title"`
	Tags         []string `json:"tags"`
}

func seedCollection(t *testing.T, f *fixture, userID uuid.UUID, name string) *domain.Collection {
	t.Helper()
	c := &domain.Collection{ID: uuid.New(), UserID: userID, Name: name}
	require.NoError(t, f.collections.Create(context.Background(), c))
	return c
}

func TestBookmarkLifecycle(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	r := bookmarksRouter(f, userID)
	c := seedCollection(t, f, userID, "Tools")

	rec := doJSON(t, r, http.MethodPost, "/api/bookmarks",
		`{"url":"https://go.dev","title":"Go","collection_id":"`+c.ID.String()+`","tags":["lang"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var b bookmarkJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	require.NotNil(t, b.CollectionID)
	assert.Equal(t, c.ID.String(), *b.CollectionID)
	assert.Equal(t, []string{"lang"}, b.Tags)

	rec = doJSON(t, r, http.MethodPatch, "/api/bookmarks/"+b.ID, `{"title":"The Go Programming Language"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	assert.Equal(t, "The Go Programming Language", *b.Title)

	rec = doJSON(t, r, http.MethodGet, "/api/bookmarks?collection_id="+c.ID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []bookmarkJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	rec = doJSON(t, r, http.MethodDelete, "/api/bookmarks/"+b.ID, "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodGet, "/api/bookmarks/"+b.ID, "").Code)
}

func TestBookmarkValidation(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	r := bookmarksRouter(f, userID)

	assert.Equal(t, http.StatusBadRequest,
		doJSON(t, r, http.MethodPost, "/api/bookmarks", `{"url":"not a url"}`).Code)
	assert.Equal(t, http.StatusBadRequest,
		doJSON(t, r, http.MethodPost, "/api/bookmarks", `{"url":"ftp://example.com/x"}`).Code)

	// Attaching to a collection the caller does not own reads as missing.
	other := seedCollection(t, f, uuid.New(), "Not yours")
	rec := doJSON(t, r, http.MethodPost, "/api/bookmarks",
		`{"url":"https://example.com","collection_id":"`+other.ID.String()+`"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookmarkDetachSemantics(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	r := bookmarksRouter(f, userID)
	c := seedCollection(t, f, userID, "Tools")

	rec := doJSON(t, r, http.MethodPost, "/api/bookmarks",
		`{"url":"https://go.dev","collection_id":"`+c.ID.String()+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var b bookmarkJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))

	// Absent key leaves the attachment alone.
	rec = doJSON(t, r, http.MethodPatch, "/api/bookmarks/"+b.ID, `{"title":"Go"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	require.NotNil(t, b.CollectionID)

	// Explicit null detaches.
	rec = doJSON(t, r, http.MethodPatch, "/api/bookmarks/"+b.ID, `{"collection_id":null}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	assert.Nil(t, b.CollectionID)
}

func TestDeletingCollectionDetachesBookmarks(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	c := seedCollection(t, f, userID, "Doomed")

	rec := doJSON(t, bookmarksRouter(f, userID), http.MethodPost, "/api/bookmarks",
		`{"url":"https://example.com","collection_id":"`+c.ID.String()+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var b bookmarkJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))

	rec = doJSON(t, collectionsRouter(f, userID), http.MethodDelete, "/api/collections/"+c.ID.String(), "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	// The bookmark survives, detached.
	rec = doJSON(t, bookmarksRouter(f, userID), http.MethodGet, "/api/bookmarks/"+b.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	assert.Nil(t, b.CollectionID)
}

func TestBookmarkOwnerScoping(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()

	rec := doJSON(t, bookmarksRouter(f, owner), http.MethodPost, "/api/bookmarks", `{"url":"https://example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var b bookmarkJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))

	r := bookmarksRouter(f, uuid.New())
	assert.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodGet, "/api/bookmarks/"+b.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodDelete, "/api/bookmarks/"+b.ID, "").Code)
}
