// internal/app/features/announcements/routes.go
package announcements

import (
	"github.com/dalemusser/parishhub/internal/app/system/auth"
	"github.com/dalemusser/parishhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Get("/{id}", h.ServeView)

		pr.Group(func(sr chi.Router) {
			sr.Use(auth.RequireRole(authz.RoleBishop, authz.RoleLeader))
			sr.Post("/", h.HandleCreate)
			sr.Delete("/{id}", h.HandleDelete)
		})
	})

	return r
}
