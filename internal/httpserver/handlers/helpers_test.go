package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hmoreau/linkshelf/internal/auth"
	"github.com/hmoreau/linkshelf/internal/httpserver/deps"
	"github.com/hmoreau/linkshelf/internal/httpserver/mw"
	"github.com/hmoreau/linkshelf/internal/importer"
	"github.com/hmoreau/linkshelf/internal/logger"
	"github.com/hmoreau/linkshelf/internal/store/memory"
)

type fixture struct {
	deps        deps.Deps
	collections *memory.Collections
	bookmarks   *memory.Bookmarks
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := logger.New("error", false)
	collections := memory.NewCollections()
	bookmarks := memory.NewBookmarks()
	// Mirror the FK behavior: deleting a collection detaches its bookmarks.
	collections.OnDelete = bookmarks.DetachCollection

	svc := auth.NewService(
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

	return &fixture{
		deps: deps.Deps{
			Logger:      log,
			TimeNow:     time.Now,
			Auth:        svc,
			Collections: collections,
			Bookmarks:   bookmarks,
			Importer:    importer.New(bookmarks, log),
			SignInPath:  "/signin",
			AccessTTL:   time.Minute,
			RefreshTTL:  time.Hour,
		},
		collections: collections,
		bookmarks:   bookmarks,
	}
}

// asUser injects an authenticated user the way the session gate would.
func asUser(id uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(mw.WithUserID(r.Context(), id)))
		})
	}
}
