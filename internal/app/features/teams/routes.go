// internal/app/features/teams/routes.go
package teams

import (
	"github.com/dalemusser/parishhub/internal/app/system/auth"
	"github.com/dalemusser/parishhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		// Staff can browse teams and rosters.
		pr.Group(func(sr chi.Router) {
			sr.Use(auth.RequireRole(authz.RoleBishop, authz.RoleLeader, authz.RoleProtocol))
			sr.Get("/", h.ServeList)
			sr.Get("/{id}", h.ServeView)
			sr.Get("/{id}/members", h.ServeMembers)
		})

		// Team and membership management is bishop only.
		pr.Group(func(br chi.Router) {
			br.Use(auth.RequireRole(authz.RoleBishop))
			br.Post("/", h.HandleCreate)
			br.Put("/{id}", h.HandleRename)
			br.Post("/{id}/disable", h.HandleDisable)
			br.Post("/{id}/members", h.HandleAddMember)
			br.Delete("/{id}/members/{userID}", h.HandleRemoveMember)
		})
	})

	return r
}
