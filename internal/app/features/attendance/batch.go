// internal/app/features/attendance/batch.go
package attendance

import (
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/parishhub/internal/app/system/httpjson"
	"github.com/dalemusser/parishhub/internal/app/system/timeouts"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type batchRequest struct {
	Records []markRequest `json:"records"`
}

// batchFailure explains why one record in a batch was skipped. The batch
// itself still succeeds.
type batchFailure struct {
	VisitorID string `json:"visitor_id"`
	Reason    string `json:"reason"`
}

type batchResponse struct {
	BatchID     string         `json:"batch_id"`
	TotalMarked int            `json:"total_marked"`
	Skipped     int            `json:"skipped"`
	Failures    []batchFailure `json:"failures,omitempty"`
}

const maxBatchRecords = 500

// HandleBatch processes POST /attendance/batch. Records are processed
// independently: a bad record is reported in the response and skipped, and
// the remaining records still apply. The response is always 200 once the
// envelope itself parses.
func (h *Handler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Records) == 0 {
		httpjson.FieldError(w, "records must not be empty", "records")
		return
	}
	if len(req.Records) > maxBatchRecords {
		httpjson.FieldError(w, "too many records in one batch", "records")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), h.Log, "attendance batch")
	defer cancel()

	resp := batchResponse{BatchID: uuid.NewString()}
	now := time.Now().UTC()

	for _, rec := range req.Records {
		if msg, _ := rec.validate(); msg != "" {
			resp.Failures = append(resp.Failures, batchFailure{VisitorID: rec.VisitorID, Reason: msg})
			continue
		}
		visitorID, err := primitive.ObjectIDFromHex(rec.VisitorID)
		if err != nil {
			resp.Failures = append(resp.Failures, batchFailure{VisitorID: rec.VisitorID, Reason: "visitor_id is not a valid id"})
			continue
		}

		if _, err := h.mark(ctx, r, visitorID, rec, now); err != nil {
			reason := "internal error"
			switch {
			case errors.Is(err, errVisitorNotFound):
				reason = "visitor not found"
			case errors.Is(err, errNotAuthorized):
				reason = "not authorized for this visitor"
			default:
				h.Log.Error("batch record failed",
					zap.String("batch_id", resp.BatchID),
					zap.String("visitor_id", rec.VisitorID),
					zap.Error(err))
			}
			resp.Failures = append(resp.Failures, batchFailure{VisitorID: rec.VisitorID, Reason: reason})
			continue
		}
		resp.TotalMarked++
	}
	resp.Skipped = len(resp.Failures)

	h.Log.Info("attendance batch processed",
		zap.String("batch_id", resp.BatchID),
		zap.Int("total_marked", resp.TotalMarked),
		zap.Int("skipped", resp.Skipped))

	httpjson.OK(w, resp)
}
