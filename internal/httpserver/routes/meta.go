package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/hmoreau/linkshelf/internal/httpserver/deps"
	"github.com/hmoreau/linkshelf/internal/httpserver/handlers"
	"github.com/hmoreau/linkshelf/internal/httpserver/mw"
)

func init() { Register(registerMeta) }

func registerMeta(r chi.Router, d deps.Deps) {
	// Fetches arbitrary third-party URLs on behalf of the caller, so it
	// is both gated and rate limited.
	r.With(mw.SessionGate(d), rateLimited(d)).Get("/api/fetch-meta", handlers.FetchMeta(d))
}
