// internal/app/features/teams/teams.go
package teams

import (
	"errors"
	"net/http"

	teamstore "github.com/dalemusser/parishhub/internal/app/store/teams"
	"github.com/dalemusser/parishhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/parishhub/internal/app/system/httpjson"
	"github.com/dalemusser/parishhub/internal/app/system/timeouts"
	"github.com/dalemusser/parishhub/internal/domain/models"
	"go.uber.org/zap"
)

type createTeamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HandleCreate processes POST /teams.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createTeamRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if htmlsanitize.PlainText(req.Name) == "" {
		httpjson.FieldError(w, "name is required", "name")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "team create")
	defer cancel()

	t, err := h.Teams.Create(ctx, models.Team{
		Name:        htmlsanitize.PlainText(req.Name),
		Description: htmlsanitize.PlainText(req.Description),
	})
	if err != nil {
		if errors.Is(err, teamstore.ErrDuplicateName) {
			httpjson.FieldError(w, err.Error(), "name")
			return
		}
		h.Log.Error("team create failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	h.Log.Info("team created", zap.String("team_id", t.ID.Hex()), zap.String("name", t.Name))
	httpjson.Respond(w, http.StatusCreated, t)
}

// ServeList handles GET /teams.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "team list")
	defer cancel()

	items, err := h.Teams.List(ctx)
	if err != nil {
		h.Log.Error("team list failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	httpjson.OK(w, map[string]any{"teams": items, "count": len(items)})
}

// ServeView handles GET /teams/{id}, including the member list.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	t, ok := h.loadTeam(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "team view")
	defer cancel()

	members, err := h.Teams.ListMembers(ctx, t.ID)
	if err != nil {
		h.Log.Error("team members load failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	httpjson.OK(w, map[string]any{"team": t, "members": members})
}

type renameRequest struct {
	Name string `json:"name"`
}

// HandleRename processes PUT /teams/{id}.
func (h *Handler) HandleRename(w http.ResponseWriter, r *http.Request) {
	t, ok := h.loadTeam(w, r)
	if !ok {
		return
	}

	var req renameRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	name := htmlsanitize.PlainText(req.Name)
	if name == "" {
		httpjson.FieldError(w, "name is required", "name")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "team rename")
	defer cancel()

	if err := h.Teams.Rename(ctx, t.ID, name); err != nil {
		if errors.Is(err, teamstore.ErrDuplicateName) {
			httpjson.FieldError(w, err.Error(), "name")
			return
		}
		h.Log.Error("team rename failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	httpjson.OK(w, map[string]string{"status": "renamed"})
}

// HandleDisable processes POST /teams/{id}/disable. Membership history is
// kept.
func (h *Handler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	t, ok := h.loadTeam(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "team disable")
	defer cancel()

	if err := h.Teams.Disable(ctx, t.ID); err != nil {
		h.Log.Error("team disable failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	httpjson.OK(w, map[string]string{"status": "disabled"})
}
