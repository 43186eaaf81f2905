package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/hmoreau/linkshelf/internal/httpserver/deps"
	"github.com/hmoreau/linkshelf/internal/httpserver/handlers"
	"github.com/hmoreau/linkshelf/internal/httpserver/mw"
)

func init() { Register(registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	g := r.With(mw.SessionGate(d))
	g.Post("/api/bookmarks", handlers.CreateBookmark(d))
	g.Get("/api/bookmarks", handlers.ListBookmarks(d))
	g.Get("/api/bookmarks/{id}", handlers.GetBookmark(d))
	g.Patch("/api/bookmarks/{id}", handlers.UpdateBookmark(d))
	g.Delete("/api/bookmarks/{id}", handlers.DeleteBookmark(d))
}
