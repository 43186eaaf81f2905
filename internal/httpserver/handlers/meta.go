package handlers

import (
	"net/http"

	"github.com/hmoreau/linkshelf/internal/httpserver/deps"
)

type metadataResponse struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	FaviconURL  *string `json:"favicon_url"`
}

// FetchMeta extracts OpenGraph metadata from a page. A missing url
// parameter is the only error: unreachable or unparsable pages answer
// 200 with all-null fields so clients fall back to manual entry.
func FetchMeta(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawURL := r.URL.Query().Get("url")
		if rawURL == "" {
			writeError(w, http.StatusBadRequest, "url parameter is required")
			return
		}

		m := d.Extractor.Extract(r.Context(), rawURL)
		writeJSON(w, http.StatusOK, metadataResponse{
			Title:       m.Title,
			Description: m.Description,
			FaviconURL:  m.FaviconURL,
		})
	}
}
