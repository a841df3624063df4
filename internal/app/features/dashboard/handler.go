// internal/app/features/dashboard/handler.go

// Package dashboard serves the role-scoped landing counts.
package dashboard

import (
	"net/http"

	statsstore "github.com/dalemusser/parishhub/internal/app/store/stats"
	"github.com/dalemusser/parishhub/internal/app/system/authz"
	"github.com/dalemusser/parishhub/internal/app/system/httpjson"
	"github.com/dalemusser/parishhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}

// Serve handles GET /dashboard. Every signed-in role gets the counts that
// concern it; members see only the congregation-wide numbers.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "dashboard counts")
	defer cancel()

	counts := statsstore.FetchDashboardCounts(ctx, h.DB)

	if !authz.IsStaff(r) {
		httpjson.OK(w, map[string]any{
			"upcoming_events":      counts.UpcomingEvents,
			"open_prayer_requests": counts.OpenPrayer,
		})
		return
	}

	httpjson.OK(w, counts)
}
