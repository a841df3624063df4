// internal/app/features/visitors/list.go
package visitors

import (
	"net/http"

	"github.com/dalemusser/parishhub/internal/app/monitoring"
	visitorstore "github.com/dalemusser/parishhub/internal/app/store/visitors"
	"github.com/dalemusser/parishhub/internal/app/system/httpjson"
	"github.com/dalemusser/parishhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeList handles GET /visitors with optional query filters:
// type, monitoring_status, assigned_to, team, q (name prefix), include_inactive.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := visitorstore.ListFilter{
		Type:            q.Get("type"),
		NamePrefix:      q.Get("q"),
		IncludeInactive: q.Get("include_inactive") == "true",
	}

	if ms := q.Get("monitoring_status"); ms != "" {
		if !monitoring.IsValidStatus(ms) {
			httpjson.FieldError(w, "unknown monitoring_status", "monitoring_status")
			return
		}
		f.MonitoringStatus = ms
	}
	if s := q.Get("assigned_to"); s != "" {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			httpjson.FieldError(w, "assigned_to is not a valid id", "assigned_to")
			return
		}
		f.AssignedTo = id
	}
	if s := q.Get("team"); s != "" {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			httpjson.FieldError(w, "team is not a valid id", "team")
			return
		}
		f.TeamID = id
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "visitor list")
	defer cancel()

	items, err := h.Visitors.List(ctx, f)
	if err != nil {
		h.Log.Error("visitor list failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	httpjson.OK(w, map[string]any{
		"visitors": items,
		"count":    len(items),
	})
}

// ServeView handles GET /visitors/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	v, ok := h.loadVisitor(w, r)
	if !ok {
		return
	}
	httpjson.OK(w, v)
}
