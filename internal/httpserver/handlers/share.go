package handlers

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hmoreau/linkshelf/internal/domain"
	"github.com/hmoreau/linkshelf/internal/httpserver/deps"
	"github.com/hmoreau/linkshelf/internal/logger"
)

//go:embed templates/share.html
var shareFS embed.FS

var shareTmpl = template.Must(template.ParseFS(shareFS, "templates/share.html"))

type sharePage struct {
	Collection *domain.Collection
	Bookmarks  []*domain.Bookmark
}

// SharePage renders the read-only public view of a collection. The slug
// alone grants access, but only while the collection is public: the store
// checks is_public at read time, so unpublishing turns this into a 404
// immediately even though the slug is kept.
func SharePage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		c, err := d.Collections.BySlug(r.Context(), slug)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			d.Logger.Error("share lookup failed", logger.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		bookmarks, err := d.Bookmarks.ListPublicByCollection(r.Context(), c.ID)
		if err != nil {
			d.Logger.Error("share listing failed", logger.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := shareTmpl.Execute(w, sharePage{Collection: c, Bookmarks: bookmarks}); err != nil {
			d.Logger.Error("share render failed", logger.Error(err))
		}
	}
}
