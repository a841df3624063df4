// internal/app/features/attendance/mark.go
package attendance

import (
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/parishhub/internal/app/system/auth"
	"github.com/dalemusser/parishhub/internal/app/system/httpjson"
	"github.com/dalemusser/parishhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// currentUserID resolves the signed-in caller to an ObjectID, when the
// session carries a well-formed one.
func currentUserID(r *http.Request) (primitive.ObjectID, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// HandleMark processes POST /attendance/visitors/{id}: one attendance
// record for one visitor.
func (h *Handler) HandleMark(w http.ResponseWriter, r *http.Request) {
	visitorID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.NotFound(w, "visitor")
		return
	}

	var req markRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg, field := req.validate(); msg != "" {
		httpjson.FieldError(w, msg, field)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "attendance mark")
	defer cancel()

	v, err := h.mark(ctx, r, visitorID, req, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, errVisitorNotFound):
			httpjson.NotFound(w, "visitor")
		case errors.Is(err, errNotAuthorized):
			httpjson.Forbidden(w)
		default:
			h.Log.Error("attendance mark failed",
				zap.String("visitor_id", visitorID.Hex()),
				zap.Error(err))
			httpjson.ServerError(w)
		}
		return
	}

	h.Log.Info("attendance marked",
		zap.String("visitor_id", v.ID.Hex()),
		zap.String("event_type", req.EventType),
		zap.String("status", req.Status))

	httpjson.OK(w, v)
}
