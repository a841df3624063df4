// internal/app/features/prayer/routes.go
package prayer

import (
	"github.com/dalemusser/parishhub/internal/app/system/auth"
	"github.com/dalemusser/parishhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Post("/", h.HandleSubmit)
		pr.Get("/", h.ServeList)

		pr.Group(func(sr chi.Router) {
			sr.Use(auth.RequireRole(authz.RoleBishop, authz.RoleLeader))
			sr.Put("/{id}/status", h.HandleSetStatus)
		})
	})

	return r
}
