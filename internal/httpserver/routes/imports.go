package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/hmoreau/linkshelf/internal/httpserver/deps"
	"github.com/hmoreau/linkshelf/internal/httpserver/handlers"
	"github.com/hmoreau/linkshelf/internal/httpserver/mw"
)

func init() { Register(registerImports) }

func registerImports(r chi.Router, d deps.Deps) {
	r.With(mw.SessionGate(d)).Post("/api/imports", handlers.ImportBookmarks(d))
}
