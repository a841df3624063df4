// internal/app/features/visitors/convert.go
package visitors

import (
	"net/http"
	"time"

	"github.com/dalemusser/parishhub/internal/app/monitoring"
	"github.com/dalemusser/parishhub/internal/app/system/auth"
	"github.com/dalemusser/parishhub/internal/app/system/httpjson"
	"github.com/dalemusser/parishhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleConvert processes POST /visitors/{id}/convert: the explicit
// promotion to converted-to-member. The status is terminal; converting an
// already-converted visitor succeeds and keeps the original conversion time.
func (h *Handler) HandleConvert(w http.ResponseWriter, r *http.Request) {
	v, ok := h.loadVisitor(w, r)
	if !ok {
		return
	}
	if !h.requireManage(w, r, v) {
		return
	}

	monitoring.Convert(v, time.Now().UTC())

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "visitor convert")
	defer cancel()

	if err := h.Visitors.Replace(ctx, v); err != nil {
		h.Log.Error("visitor convert failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	actor := ""
	if u, found := auth.CurrentUser(r); found {
		actor = u.ID
	}
	h.Log.Info("visitor converted to member",
		zap.String("visitor_id", v.ID.Hex()),
		zap.String("by", actor))

	httpjson.OK(w, v)
}
