package mw

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/hmoreau/linkshelf/internal/httpserver/deps"
	"github.com/hmoreau/linkshelf/internal/logger"
)

type ctxKey int

const userIDKey ctxKey = iota

// UserID returns the authenticated user set by SessionGate.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}

// WithUserID injects a user into the context (test helper).
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// SessionGate guards the protected route prefix. Resolution order:
//
//  1. Authorization: Bearer <access> - the extension boundary. Verified
//     as-is; no cookies are read or written.
//  2. Access cookie - verified; valid means authenticated.
//  3. Refresh cookie - the session is transparently refreshed, the rotated
//     token pair is written back onto the response, and the request
//     proceeds authenticated.
//
// Every failure along the way degrades to "no user": invalid cookies are
// cleared and the request is redirected to the sign-in page (page
// navigations) or answered 401 (API calls). The gate never panics and
// never surfaces validation errors to the client.
func SessionGate(d deps.Deps) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, ok := bearerToken(r); ok {
				userID, err := d.Auth.VerifyAccess(token)
				if err != nil {
					d.Logger.Debug("session gate: bearer token rejected", logger.Error(err))
					deny(w, r, d, false)
					return
				}
				next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
				return
			}

			if c, err := r.Cookie(AccessCookie); err == nil && c.Value != "" {
				if userID, err := d.Auth.VerifyAccess(c.Value); err == nil {
					next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
					return
				}
				// Expired or tampered access cookie: fall through to the
				// refresh path.
			}

			c, err := r.Cookie(RefreshCookie)
			if err != nil || c.Value == "" {
				deny(w, r, d, true)
				return
			}

			userID, pair, err := d.Auth.Refresh(r.Context(), c.Value)
			if err != nil {
				d.Logger.Debug("session gate: refresh failed", logger.Error(err))
				deny(w, r, d, true)
				return
			}

			SetSessionCookies(w, pair, d.SecureCookies, d.AccessTTL, d.RefreshTTL)
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// deny ends the request unauthenticated. Invalid cookie state is cleared
// so the browser stops replaying it; bearer requests get no cookie
// mutation at all.
func deny(w http.ResponseWriter, r *http.Request, d deps.Deps, clearCookies bool) {
	if clearCookies {
		ClearSessionCookies(w, d.SecureCookies)
	}
	if wantsHTML(r) {
		http.Redirect(w, r, d.SignInPath, http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized"}` + "\n"))
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return h[len(prefix):], true
	}
	return "", false
}

// wantsHTML reports whether the request is a page navigation rather than
// an API call.
func wantsHTML(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html")
}
