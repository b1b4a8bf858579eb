package auth

import (
	"net/http"

	"github.com/EmpoweredVote/booth-results/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// SetupRoutes mounts the account routes. loginLimit guards POST /login.
func SetupRoutes(h *Handler, loginLimit func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/register", h.Register)
	r.With(loginLimit).Post("/login", h.Login)
	r.Get("/roles", h.ListRoles)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(h.svc))

		r.Post("/logout", h.Logout)
		r.Get("/me", h.Me)
		r.Post("/password", h.UpdatePassword)

		r.With(middleware.AdminMiddleware(h.svc)).Put("/users/{user_id}/roles", h.UpdateRoles)
	})

	return r
}
