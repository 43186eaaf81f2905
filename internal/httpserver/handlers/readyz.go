package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hmoreau/linkshelf/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready bool `json:"ready"`
}

// Readyz answers 503 until the database is reachable; healthz stays 200
// regardless so orchestrators can tell liveness from readiness.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		ready := false
		if d.Pool != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			ready = d.Pool.Ping(ctx) == nil
		}

		if !ready {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(readyzResponse{Ready: ready})
	}
}
