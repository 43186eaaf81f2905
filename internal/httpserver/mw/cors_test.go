package mw_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmoreau/linkshelf/internal/httpserver/mw"
)

func corsHandler(origins []string) http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return mw.CORS(origins)(ok)
}

// The extension changes passwords with PUT, so its preflight for that
// method must be granted alongside the usual verbs.
func TestCORSPreflightAllowsEveryAPIMethod(t *testing.T) {
	h := corsHandler([]string{"chrome-extension://abcdef"})

	for _, method := range []string{"GET", "POST", "PUT", "PATCH", "DELETE"} {
		req := httptest.NewRequest(http.MethodOptions, "/api/auth/password", nil)
		req.Header.Set("Origin", "chrome-extension://abcdef")
		req.Header.Set("Access-Control-Request-Method", method)
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		allowed := rec.Header().Get("Access-Control-Allow-Methods")
		require.NotEmpty(t, allowed, "preflight for %s was rejected", method)
		assert.True(t, strings.Contains(allowed, method),
			"preflight for %s: allowed methods %q", method, allowed)
		assert.Equal(t, "chrome-extension://abcdef", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	h := corsHandler([]string{"chrome-extension://abcdef"})

	req := httptest.NewRequest(http.MethodOptions, "/api/collections", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSWithoutOriginsIsPassthrough(t *testing.T) {
	h := corsHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/collections", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
