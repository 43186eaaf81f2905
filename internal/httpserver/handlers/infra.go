package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/hmoreau/linkshelf/internal/httpserver/deps"
)

type componentStatus struct {
	OK     bool   `json:"ok"`
	Mode   string `json:"mode,omitempty"`
	Impact string `json:"impact,omitempty"`
	Error  string `json:"error,omitempty"`
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the health of the backing services. Postgres down means
// the whole API is down; redis down only disables the metadata cache.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"postgres": checkPostgres(d),
			"redis":    checkRedis(d),
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Status:     overallStatus(components),
			Components: components,
		})
	}
}

func overallStatus(components map[string]componentStatus) string {
	if pg, ok := components["postgres"]; ok && !pg.OK {
		return "critical"
	}
	if rd, ok := components["redis"]; ok && !rd.OK {
		return "degraded"
	}
	return "ok"
}

func checkPostgres(d deps.Deps) componentStatus {
	if d.Pool == nil {
		return componentStatus{OK: false, Error: "pool not initialized"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.Pool.Ping(ctx); err != nil {
		return componentStatus{OK: false, Impact: "api-unavailable", Error: err.Error()}
	}
	return componentStatus{OK: true, Mode: "optimal"}
}

func checkRedis(d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     false,
			Mode:   "disabled",
			Impact: "metadata-cache-disabled",
			Error:  "client not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "metadata-cache-disabled",
			Error:  "timeout",
		}
	}
	return componentStatus{OK: true, Mode: "optimal", Impact: "metadata-cache-enabled"}
}
