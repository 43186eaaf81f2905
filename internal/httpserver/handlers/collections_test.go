package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmoreau/linkshelf/internal/httpserver/handlers"
)

func collectionsRouter(f *fixture, userID uuid.UUID) chi.Router {
	r := chi.NewRouter()
	r.Use(asUser(userID))
	r.Post("/api/collections", handlers.CreateCollection(f.deps))
	r.Get("/api/collections", handlers.ListCollections(f.deps))
	r.Get("/api/collections/{id}", handlers.GetCollection(f.deps))
	r.Patch("/api/collections/{id}", handlers.UpdateCollection(f.deps))
	r.Delete("/api/collections/{id}", handlers.DeleteCollection(f.deps))
	return r
}

type collectionJSON struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	IsPublic    bool    `json:"is_public"`
	Slug        *string `json:"slug"`
}

func doJSON(t *testing.T, r chi.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCollectionLifecycle(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	r := collectionsRouter(f, userID)

	rec := doJSON(t, r, http.MethodPost, "/api/collections", `{"name":"Reading list","description":"Long reads"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created collectionJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Reading list", created.Name)
	assert.False(t, created.IsPublic)
	assert.Nil(t, created.Slug)

	rec = doJSON(t, r, http.MethodGet, "/api/collections", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []collectionJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)

	rec = doJSON(t, r, http.MethodPatch, "/api/collections/"+created.ID, `{"name":"Reading"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated collectionJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "Reading", updated.Name)
	assert.Equal(t, "Long reads", *updated.Description)

	rec = doJSON(t, r, http.MethodDelete, "/api/collections/"+created.ID, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/api/collections/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCollectionValidation(t *testing.T) {
	f := newFixture(t)
	r := collectionsRouter(f, uuid.New())

	rec := doJSON(t, r, http.MethodPost, "/api/collections", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/api/collections/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCollectionPublishAssignsSlugOnce(t *testing.T) {
	f := newFixture(t)
	r := collectionsRouter(f, uuid.New())

	rec := doJSON(t, r, http.MethodPost, "/api/collections", `{"name":"Shared"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var c collectionJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))

	// First publish mints the slug.
	rec = doJSON(t, r, http.MethodPatch, "/api/collections/"+c.ID, `{"is_public":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	require.NotNil(t, c.Slug)
	assert.Len(t, *c.Slug, 8)
	assert.True(t, c.IsPublic)
	first := *c.Slug

	// Unpublish keeps the slug.
	rec = doJSON(t, r, http.MethodPatch, "/api/collections/"+c.ID, `{"is_public":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	assert.False(t, c.IsPublic)
	require.NotNil(t, c.Slug)
	assert.Equal(t, first, *c.Slug)

	// Re-publish reuses it.
	rec = doJSON(t, r, http.MethodPatch, "/api/collections/"+c.ID, `{"is_public":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	require.NotNil(t, c.Slug)
	assert.Equal(t, first, *c.Slug)
}

func TestCollectionOwnerScoping(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	intruder := uuid.New()

	rec := doJSON(t, collectionsRouter(f, owner), http.MethodPost, "/api/collections", `{"name":"Private"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var c collectionJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))

	// Another user sees 404, not 403: existence itself is private.
	r := collectionsRouter(f, intruder)
	assert.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodGet, "/api/collections/"+c.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodPatch, "/api/collections/"+c.ID, `{"name":"Mine now"}`).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodDelete, "/api/collections/"+c.ID, "").Code)

	rec = doJSON(t, r, http.MethodGet, "/api/collections", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}
