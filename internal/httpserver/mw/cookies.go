package mw

import (
	"net/http"
	"time"

	"github.com/hmoreau/linkshelf/internal/auth"
)

// Session cookie names. Both cookies are HttpOnly; scripts never see the
// tokens.
const (
	AccessCookie  = "linkshelf_access"
	RefreshCookie = "linkshelf_refresh"
)

// SetSessionCookies writes both token cookies on the response. Called on
// sign-up, sign-in and every transparent refresh performed by the gate.
func SetSessionCookies(w http.ResponseWriter, pair *auth.TokenPair, secure bool, accessTTL, refreshTTL time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessCookie,
		Value:    pair.AccessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(accessTTL.Seconds()),
	})
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookie,
		Value:    pair.RefreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(refreshTTL.Seconds()),
	})
}

// ClearSessionCookies expires both token cookies.
func ClearSessionCookies(w http.ResponseWriter, secure bool) {
	for _, name := range []string{AccessCookie, RefreshCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
	}
}
