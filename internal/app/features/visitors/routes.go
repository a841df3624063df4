// internal/app/features/visitors/routes.go
package visitors

import (
	"github.com/dalemusser/parishhub/internal/app/system/auth"
	"github.com/dalemusser/parishhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Everything under /visitors requires authentication.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		// Staff routes. Record-level policy checks (assigned caretaker,
		// team membership) happen inside the handlers.
		pr.Group(func(sr chi.Router) {
			sr.Use(auth.RequireRole(authz.RoleBishop, authz.RoleLeader, authz.RoleProtocol))

			// LIST / VIEW
			sr.Get("/", h.ServeList)
			sr.Get("/{id}", h.ServeView)

			// REGISTER
			sr.Post("/", h.HandleRegister)

			// PROFILE
			sr.Put("/{id}", h.HandleUpdate)

			// CHECKLIST
			sr.Put("/{id}/checklist", h.HandleChecklist)

			// MILESTONES (manual override)
			sr.Put("/{id}/milestones/{week}", h.HandleMilestone)
		})

		// CONVERSION is protocol or bishop only.
		pr.Group(func(cr chi.Router) {
			cr.Use(auth.RequireRole(authz.RoleBishop, authz.RoleProtocol))
			cr.Post("/{id}/convert", h.HandleConvert)
		})

		// ASSIGNMENT and DEACTIVATION are bishop only.
		pr.Group(func(br chi.Router) {
			br.Use(auth.RequireRole(authz.RoleBishop))
			br.Put("/{id}/assign", h.HandleAssign)
			br.Post("/{id}/deactivate", h.HandleDeactivate)
		})

		// FEEDBACK is open to any signed-in role; visitors submit through a
		// member of staff or a kiosk session.
		pr.Post("/{id}/suggestions", h.HandleSuggestion)
		pr.Post("/{id}/experiences", h.HandleExperience)
	})

	return r
}
