// internal/app/features/attendance/routes.go
package attendance

import (
	"github.com/dalemusser/parishhub/internal/app/system/auth"
	"github.com/dalemusser/parishhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Use(auth.RequireRole(authz.RoleBishop, authz.RoleLeader, authz.RoleProtocol))

		pr.Post("/visitors/{id}", h.HandleMark)
		pr.Post("/batch", h.HandleBatch)
	})

	return r
}
