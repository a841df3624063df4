// internal/app/features/teams/members.go
package teams

import (
	"errors"
	"net/http"

	teamstore "github.com/dalemusser/parishhub/internal/app/store/teams"
	"github.com/dalemusser/parishhub/internal/app/system/httpjson"
	"github.com/dalemusser/parishhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type memberRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// HandleAddMember processes POST /teams/{id}/members.
func (h *Handler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	t, ok := h.loadTeam(w, r)
	if !ok {
		return
	}

	var req memberRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		httpjson.FieldError(w, "user_id is not a valid id", "user_id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "team add member")
	defer cancel()

	if err := h.Teams.AddMember(ctx, t.ID, userID, req.Role); err != nil {
		switch {
		case errors.Is(err, teamstore.ErrAlreadyMember):
			httpjson.FieldError(w, err.Error(), "user_id")
		case errors.Is(err, teamstore.ErrBadMemberRole):
			httpjson.FieldError(w, err.Error(), "role")
		default:
			h.Log.Error("team add member failed", zap.Error(err))
			httpjson.ServerError(w)
		}
		return
	}

	h.Log.Info("team member added",
		zap.String("team_id", t.ID.Hex()),
		zap.String("user_id", userID.Hex()),
		zap.String("role", req.Role))

	httpjson.Respond(w, http.StatusCreated, map[string]string{"status": "added"})
}

// HandleRemoveMember processes DELETE /teams/{id}/members/{userID}.
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	t, ok := h.loadTeam(w, r)
	if !ok {
		return
	}
	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		httpjson.NotFound(w, "membership")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "team remove member")
	defer cancel()

	n, err := h.Teams.RemoveMember(ctx, t.ID, userID)
	if err != nil {
		h.Log.Error("team remove member failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	if n == 0 {
		httpjson.NotFound(w, "membership")
		return
	}
	httpjson.OK(w, map[string]string{"status": "removed"})
}

// ServeMembers handles GET /teams/{id}/members.
func (h *Handler) ServeMembers(w http.ResponseWriter, r *http.Request) {
	t, ok := h.loadTeam(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "team members")
	defer cancel()

	members, err := h.Teams.ListMembers(ctx, t.ID)
	if err != nil {
		h.Log.Error("team members load failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	httpjson.OK(w, map[string]any{"members": members, "count": len(members)})
}
