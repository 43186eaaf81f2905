package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/hmoreau/linkshelf/internal/httpserver/deps"
	"github.com/hmoreau/linkshelf/internal/httpserver/handlers"
)

func init() { Register(registerShare) }

// The share page is deliberately outside the session gate: the slug is
// the only credential.
func registerShare(r chi.Router, d deps.Deps) {
	r.Get("/share/{slug}", handlers.SharePage(d))
}
