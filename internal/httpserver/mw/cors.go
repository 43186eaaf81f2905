package mw

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS opens the API to the browser extension's origins. With no origins
// configured it is a passthrough: same-origin pages need no CORS at all.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           60 * 15,
	})
}
