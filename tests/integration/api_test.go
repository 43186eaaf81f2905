package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmoreau/linkshelf/internal/auth"
	"github.com/hmoreau/linkshelf/internal/httpserver/deps"
	"github.com/hmoreau/linkshelf/internal/httpserver/routes"
	"github.com/hmoreau/linkshelf/internal/importer"
	"github.com/hmoreau/linkshelf/internal/logger"
	"github.com/hmoreau/linkshelf/internal/meta"
	"github.com/hmoreau/linkshelf/internal/store/memory"
)

// newTestAPI wires the full route registry over in-memory stores, the
// same composition production gets minus Postgres and Redis.
func newTestAPI(t *testing.T) http.Handler {
	t.Helper()

	log := logger.New("error", false)
	collections := memory.NewCollections()
	bookmarks := memory.NewBookmarks()
	bookmarks.Collections = collections
	collections.OnDelete = bookmarks.DetachCollection

	authService := auth.NewService(
		memory.NewUsers(),
		memory.NewSessions(),
		memory.NewResetTokens(),
		auth.Config{
			JWTSecret:       []byte("0123456789abcdef0123456789abcdef"),
			AccessTokenTTL:  time.Minute,
			RefreshTokenTTL: time.Hour,
			ResetTokenTTL:   time.Hour,
		},
		log,
	)

	d := deps.Deps{
		Logger:          log,
		StartTime:       time.Now(),
		TimeNow:         time.Now,
		Auth:            authService,
		Collections:     collections,
		Bookmarks:       bookmarks,
		Extractor:       meta.NewExtractor(log),
		Importer:        importer.New(bookmarks, log),
		SignInPath:      "/signin",
		AccessTTL:       time.Minute,
		RefreshTTL:      time.Hour,
		RateLimitBurst:  100,
		RateLimitPerMin: 6000,
	}

	r := chi.NewRouter()
	routes.RegisterAll(r, d)
	return r
}

type apiClient struct {
	t       *testing.T
	handler http.Handler
	access  string
}

func (c *apiClient) do(method, path, body string) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.access != "" {
		req.Header.Set("Authorization", "Bearer "+c.access)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	return rec
}

func (c *apiClient) signUp(email string) {
	c.t.Helper()
	rec := c.do(http.MethodPost, "/api/auth/signup",
		`{"email":"`+email+`","password":"correcthorse"}`)
	require.Equal(c.t, http.StatusCreated, rec.Code)
	var body struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &body))
	c.access = body.AccessToken
}

func TestShareJourney(t *testing.T) {
	h := newTestAPI(t)
	c := &apiClient{t: t, handler: h}
	c.signUp("alice@example.com")

	// Create a collection and a bookmark in it.
	rec := c.do(http.MethodPost, "/api/collections", `{"name":"Public picks"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var coll struct {
		ID   string  `json:"id"`
		Slug *string `json:"slug"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &coll))

	rec = c.do(http.MethodPost, "/api/bookmarks",
		`{"url":"https://go.dev","title":"Go","collection_id":"`+coll.ID+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Publish; the response carries the freshly minted slug.
	rec = c.do(http.MethodPatch, "/api/collections/"+coll.ID, `{"is_public":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &coll))
	require.NotNil(t, coll.Slug)

	// The share page is readable with no credentials at all.
	anon := &apiClient{t: t, handler: h}
	rec = anon.do(http.MethodGet, "/share/"+*coll.Slug, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "https://go.dev")

	// Unpublish; the same URL is gone for the public but the slug is kept.
	rec = c.do(http.MethodPatch, "/api/collections/"+coll.ID, `{"is_public":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusNotFound, anon.do(http.MethodGet, "/share/"+*coll.Slug, "").Code)

	rec = c.do(http.MethodPatch, "/api/collections/"+coll.ID, `{"is_public":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var again struct {
		Slug *string `json:"slug"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &again))
	require.NotNil(t, again.Slug)
	assert.Equal(t, *coll.Slug, *again.Slug)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	h := newTestAPI(t)
	anon := &apiClient{t: t, handler: h}

	for _, path := range []string{"/api/collections", "/api/bookmarks"} {
		rec := anon.do(http.MethodGet, path, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	// Page navigations bounce to the sign-in page instead.
	req := httptest.NewRequest(http.MethodGet, "/api/collections", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/signin", rec.Header().Get("Location"))
}

func TestUsersAreIsolated(t *testing.T) {
	h := newTestAPI(t)

	alice := &apiClient{t: t, handler: h}
	alice.signUp("alice@example.com")
	rec := alice.do(http.MethodPost, "/api/collections", `{"name":"Alice stuff"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var coll struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &coll))

	bob := &apiClient{t: t, handler: h}
	bob.signUp("bob@example.com")
	assert.Equal(t, http.StatusNotFound,
		bob.do(http.MethodGet, "/api/collections/"+coll.ID, "").Code)

	rec = bob.do(http.MethodGet, "/api/collections", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestHealthEndpoints(t *testing.T) {
	h := newTestAPI(t)
	anon := &apiClient{t: t, handler: h}

	rec := anon.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	// No database pool wired in this harness: not ready.
	rec = anon.do(http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
