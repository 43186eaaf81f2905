package handlers

import (
	"net/http"
	"time"

	"github.com/hmoreau/linkshelf/internal/httpserver/deps"
	"github.com/hmoreau/linkshelf/internal/httpserver/mw"
	"github.com/hmoreau/linkshelf/internal/logger"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type sessionResponse struct {
	User        userResponse `json:"user"`
	AccessToken string       `json:"access_token"`
}

// SignUp creates the account and opens a session in one step; the response
// carries the access token for extension clients while browser clients rely
// on the cookies set alongside.
func SignUp(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeJSON[credentialsRequest](r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		user, pair, err := d.Auth.SignUp(r.Context(), req.Email, req.Password)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		mw.SetSessionCookies(w, pair, d.SecureCookies, d.AccessTTL, d.RefreshTTL)
		writeJSON(w, http.StatusCreated, sessionResponse{
			User: userResponse{
				ID:        user.ID.String(),
				Email:     user.Email,
				CreatedAt: user.CreatedAt,
			},
			AccessToken: pair.AccessToken,
		})
	}
}

func SignIn(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeJSON[credentialsRequest](r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		user, pair, err := d.Auth.SignIn(r.Context(), req.Email, req.Password)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		mw.SetSessionCookies(w, pair, d.SecureCookies, d.AccessTTL, d.RefreshTTL)
		writeJSON(w, http.StatusOK, sessionResponse{
			User: userResponse{
				ID:        user.ID.String(),
				Email:     user.Email,
				CreatedAt: user.CreatedAt,
			},
			AccessToken: pair.AccessToken,
		})
	}
}

// SignOut revokes the refresh session and clears both cookies. It never
// fails: signing out an already-dead session is a success.
func SignOut(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(mw.RefreshCookie); err == nil && c.Value != "" {
			if err := d.Auth.SignOut(r.Context(), c.Value); err != nil {
				d.Logger.Warn("sign-out revoke failed", logger.Error(err))
			}
		}
		mw.ClearSessionCookies(w, d.SecureCookies)
		w.WriteHeader(http.StatusNoContent)
	}
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type refreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Refresh rotates a session explicitly. Browser clients get the rotation
// for free inside the session gate; this endpoint serves extension clients
// that hold the tokens themselves.
func Refresh(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeJSON[refreshRequest](r)
		if err != nil || req.RefreshToken == "" {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		_, pair, err := d.Auth.Refresh(r.Context(), req.RefreshToken)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		mw.SetSessionCookies(w, pair, d.SecureCookies, d.AccessTTL, d.RefreshTTL)
		writeJSON(w, http.StatusOK, refreshResponse{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
		})
	}
}

type resetRequestRequest struct {
	Email string `json:"email"`
}

// RequestPasswordReset always answers 202 so the endpoint cannot be used
// to probe which emails are registered.
func RequestPasswordReset(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeJSON[resetRequestRequest](r)
		if err != nil || req.Email == "" {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := d.Auth.RequestPasswordReset(r.Context(), req.Email); err != nil {
			d.Logger.Warn("password reset request failed", logger.Error(err))
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func ResetPassword(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeJSON[resetPasswordRequest](r)
		if err != nil || req.Token == "" {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := d.Auth.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type updatePasswordRequest struct {
	Password string `json:"password"`
}

// UpdatePassword changes the password of the signed-in user.
func UpdatePassword(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := mw.UserID(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		req, err := decodeJSON[updatePasswordRequest](r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := d.Auth.UpdatePassword(r.Context(), userID, req.Password); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
