// internal/app/features/visitors/milestone.go
package visitors

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/parishhub/internal/app/monitoring"
	"github.com/dalemusser/parishhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/parishhub/internal/app/system/httpjson"
	"github.com/dalemusser/parishhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type milestoneRequest struct {
	Completed bool   `json:"completed"`
	Notes     string `json:"notes"`
}

// HandleMilestone processes PUT /visitors/{id}/milestones/{week}: the
// manual override of one weekly milestone. The derived progress and status
// are recomputed before the document is written back.
func (h *Handler) HandleMilestone(w http.ResponseWriter, r *http.Request) {
	v, ok := h.loadVisitor(w, r)
	if !ok {
		return
	}
	if !h.requireManage(w, r, v) {
		return
	}

	week, err := strconv.Atoi(chi.URLParam(r, "week"))
	if err != nil {
		httpjson.FieldError(w, "week must be a number between 1 and 12", "week")
		return
	}

	var req milestoneRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now().UTC()
	if err := monitoring.SetMilestone(v, week, req.Completed, htmlsanitize.PlainText(req.Notes), now); err != nil {
		if errors.Is(err, monitoring.ErrInvalidWeek) {
			httpjson.FieldError(w, err.Error(), "week")
			return
		}
		h.Log.Error("milestone update failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	monitoring.Recalculate(v)
	v.UpdatedAt = now

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "visitor milestone")
	defer cancel()

	if err := h.Visitors.Replace(ctx, v); err != nil {
		h.Log.Error("milestone persist failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	h.Log.Info("milestone updated",
		zap.String("visitor_id", v.ID.Hex()),
		zap.Int("week", week),
		zap.Bool("completed", req.Completed))

	httpjson.OK(w, v)
}
