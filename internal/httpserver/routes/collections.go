package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/hmoreau/linkshelf/internal/httpserver/deps"
	"github.com/hmoreau/linkshelf/internal/httpserver/handlers"
	"github.com/hmoreau/linkshelf/internal/httpserver/mw"
)

func init() { Register(registerCollections) }

func registerCollections(r chi.Router, d deps.Deps) {
	g := r.With(mw.SessionGate(d))
	g.Post("/api/collections", handlers.CreateCollection(d))
	g.Get("/api/collections", handlers.ListCollections(d))
	g.Get("/api/collections/{id}", handlers.GetCollection(d))
	g.Patch("/api/collections/{id}", handlers.UpdateCollection(d))
	g.Delete("/api/collections/{id}", handlers.DeleteCollection(d))
}
