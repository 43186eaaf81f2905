package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/hmoreau/linkshelf/internal/httpserver/deps"
	"github.com/hmoreau/linkshelf/internal/httpserver/handlers"
	"github.com/hmoreau/linkshelf/internal/httpserver/mw"
)

func init() { Register(registerAuth) }

func registerAuth(r chi.Router, d deps.Deps) {
	limited := r.With(rateLimited(d))
	limited.Post("/api/auth/signup", handlers.SignUp(d))
	limited.Post("/api/auth/signin", handlers.SignIn(d))
	limited.Post("/api/auth/refresh", handlers.Refresh(d))
	limited.Post("/api/auth/reset-password", handlers.RequestPasswordReset(d))
	limited.Post("/api/auth/reset-password/confirm", handlers.ResetPassword(d))

	r.Post("/api/auth/signout", handlers.SignOut(d))
	r.With(mw.SessionGate(d)).Put("/api/auth/password", handlers.UpdatePassword(d))
}
