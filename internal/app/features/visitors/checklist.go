// internal/app/features/visitors/checklist.go
package visitors

import (
	"net/http"
	"time"

	"github.com/dalemusser/parishhub/internal/app/monitoring"
	"github.com/dalemusser/parishhub/internal/app/system/httpjson"
	"github.com/dalemusser/parishhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type checklistRequest struct {
	WelcomePackage        *bool `json:"welcome_package"`
	HomeVisit             *bool `json:"home_visit"`
	SmallGroupIntro       *bool `json:"small_group_intro"`
	MinistryOpportunities *bool `json:"ministry_opportunities"`
	MentorAssigned        *bool `json:"mentor_assigned"`
	RegularCheckIns       *bool `json:"regular_check_ins"`
}

// HandleChecklist processes PUT /visitors/{id}/checklist: a partial update
// of the six integration flags. Changing any flag reruns the progress and
// status calculation, since checklist progress is 20% of the composite.
func (h *Handler) HandleChecklist(w http.ResponseWriter, r *http.Request) {
	v, ok := h.loadVisitor(w, r)
	if !ok {
		return
	}
	if !h.requireManage(w, r, v) {
		return
	}

	var req checklistRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	cl := &v.IntegrationChecklist
	if req.WelcomePackage != nil {
		cl.WelcomePackage = *req.WelcomePackage
	}
	if req.HomeVisit != nil {
		cl.HomeVisit = *req.HomeVisit
	}
	if req.SmallGroupIntro != nil {
		cl.SmallGroupIntro = *req.SmallGroupIntro
	}
	if req.MinistryOpportunities != nil {
		cl.MinistryOpportunities = *req.MinistryOpportunities
	}
	if req.MentorAssigned != nil {
		cl.MentorAssigned = *req.MentorAssigned
	}
	if req.RegularCheckIns != nil {
		cl.RegularCheckIns = *req.RegularCheckIns
	}

	monitoring.Recalculate(v)
	v.UpdatedAt = time.Now().UTC()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "visitor checklist")
	defer cancel()

	if err := h.Visitors.Replace(ctx, v); err != nil {
		h.Log.Error("visitor checklist update failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	httpjson.OK(w, v)
}
