// internal/app/features/events/routes.go
package events

import (
	"github.com/dalemusser/parishhub/internal/app/system/auth"
	"github.com/dalemusser/parishhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		// Any signed-in role can browse the schedule.
		pr.Get("/", h.ServeList)
		pr.Get("/{id}", h.ServeView)

		// Scheduling is bishop/leader.
		pr.Group(func(sr chi.Router) {
			sr.Use(auth.RequireRole(authz.RoleBishop, authz.RoleLeader))
			sr.Post("/", h.HandleCreate)
			sr.Post("/{id}/cancel", h.HandleCancel)
		})
	})

	return r
}
