// internal/app/features/visitors/assign.go
package visitors

import (
	"net/http"

	"github.com/dalemusser/parishhub/internal/app/system/httpjson"
	"github.com/dalemusser/parishhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type assignRequest struct {
	AssignedProtocolMember string `json:"assigned_protocol_member"`
	ProtocolTeamID         string `json:"protocol_team_id"`
}

// HandleAssign processes PUT /visitors/{id}/assign: setting or clearing the
// caretaker and protocol team. An empty string clears the field.
func (h *Handler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	v, ok := h.loadVisitor(w, r)
	if !ok {
		return
	}

	var req assignRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	var member, team *primitive.ObjectID
	if req.AssignedProtocolMember != "" {
		id, err := primitive.ObjectIDFromHex(req.AssignedProtocolMember)
		if err != nil {
			httpjson.FieldError(w, "assigned_protocol_member is not a valid id", "assigned_protocol_member")
			return
		}
		member = &id
	}
	if req.ProtocolTeamID != "" {
		id, err := primitive.ObjectIDFromHex(req.ProtocolTeamID)
		if err != nil {
			httpjson.FieldError(w, "protocol_team_id is not a valid id", "protocol_team_id")
			return
		}
		team = &id
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "visitor assign")
	defer cancel()

	if err := h.Visitors.Assign(ctx, v.ID, member, team); err != nil {
		h.Log.Error("visitor assign failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	v.AssignedProtocolMember = member
	v.ProtocolTeamID = team

	h.Log.Info("visitor assignment updated", zap.String("visitor_id", v.ID.Hex()))
	httpjson.OK(w, v)
}
