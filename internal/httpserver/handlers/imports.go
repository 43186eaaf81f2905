package handlers

import (
	"io"
	"iter"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/hmoreau/linkshelf/internal/httpserver/deps"
	"github.com/hmoreau/linkshelf/internal/httpserver/mw"
	"github.com/hmoreau/linkshelf/internal/importer"
	"github.com/hmoreau/linkshelf/internal/utils"
)

// maxImportBytes caps the uploaded bookmark file. Browser exports of even
// very large bookmark bars stay well under this.
const maxImportBytes = 10 << 20

// ImportBookmarks accepts a browser bookmark export as multipart form
// field "file" and imports it in batches. Netscape HTML and Homepage-style
// YAML are both accepted; the format is chosen by filename extension with
// a content sniff as fallback.
func ImportBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := mw.UserID(r.Context())

		if err := r.ParseMultipartForm(maxImportBytes); err != nil {
			writeError(w, http.StatusBadRequest, "expected multipart form upload")
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing file field")
			return
		}
		defer utils.Close(file)

		data, err := io.ReadAll(io.LimitReader(file, maxImportBytes+1))
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read upload")
			return
		}
		if len(data) > maxImportBytes {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}

		var collectionID *uuid.UUID
		if raw := r.FormValue("collection_id"); raw != "" {
			cid, err := uuid.Parse(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid collection id")
				return
			}
			if _, err := d.Collections.ByID(r.Context(), userID, cid); err != nil {
				writeDomainError(w, err)
				return
			}
			collectionID = &cid
		}

		candidates, err := parseImport(header, data, d)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unrecognized bookmark file format")
			return
		}

		report := d.Importer.Run(r.Context(), userID, collectionID, candidates)
		writeJSON(w, http.StatusOK, report)
	}
}

func parseImport(header *multipart.FileHeader, data []byte, d deps.Deps) (iter.Seq[importer.Candidate], error) {
	name := strings.ToLower(header.Filename)
	switch {
	case strings.HasSuffix(name, ".yaml"), strings.HasSuffix(name, ".yml"):
		return importer.ParseHomepageYAML(data, d.TimeNow)
	case strings.HasSuffix(name, ".html"), strings.HasSuffix(name, ".htm"):
		return importer.ParseNetscape(data, d.TimeNow)
	}
	// No telling extension; sniff for the Netscape doctype.
	if strings.Contains(strings.ToUpper(string(data[:min(len(data), 512)])), "NETSCAPE-BOOKMARK") {
		return importer.ParseNetscape(data, d.TimeNow)
	}
	return importer.ParseHomepageYAML(data, d.TimeNow)
}
