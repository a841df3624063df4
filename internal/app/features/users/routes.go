// internal/app/features/users/routes.go
package users

import (
	"github.com/dalemusser/parishhub/internal/app/system/auth"
	"github.com/dalemusser/parishhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Staff administration is bishop only.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Use(auth.RequireRole(authz.RoleBishop))

		pr.Get("/", h.ServeList)
		pr.Post("/", h.HandleCreate)
		pr.Get("/{id}", h.ServeView)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Post("/{id}/disable", h.HandleDisable)
	})

	return r
}
