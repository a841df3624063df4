// internal/app/features/analytics/routes.go
package analytics

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

		pr.Get("/teams", h.ServeTeamStats)
		pr.Get("/conversion", h.ServeConversion)
		pr.Get("/trends", h.ServeTrends)

		// Bishop-only, enforced inside the handler.
		pr.Post("/refresh", h.HandleRefresh)
	})

	return r
}
