// internal/app/features/attendance/handler.go

// Package attendance records visit outcomes against visitor documents. A
// single mark and the batch variant both run the same chain per visitor:
// append the record, rerun milestone auto-completion and the status
// calculator, then write the whole document back.
package attendance

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/parishhub/internal/app/monitoring"
	"github.com/dalemusser/parishhub/internal/app/policy/visitorpolicy"
	visitorstore "github.com/dalemusser/parishhub/internal/app/store/visitors"
	"github.com/dalemusser/parishhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/parishhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB       *mongo.Database
	Visitors *visitorstore.Store
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Visitors: visitorstore.New(db),
		Log:      logger,
	}
}

var (
	errVisitorNotFound = errors.New("visitor not found")
	errNotAuthorized   = errors.New("not authorized for this visitor")
)

// markRequest is one attendance record as submitted by a client. VisitorID
// is ignored on the single endpoint (the URL carries it) and required on
// the batch endpoint.
type markRequest struct {
	VisitorID string `json:"visitor_id,omitempty"`
	EventType string `json:"event_type"`
	Date      string `json:"date,omitempty"` // RFC 3339; defaults to now
	Status    string `json:"status"`
	Notes     string `json:"notes,omitempty"`
}

func (req *markRequest) validate() (string, string) {
	switch req.Status {
	case monitoring.AttendancePresent, monitoring.AttendanceAbsent:
	default:
		return `status must be "present" or "absent"`, "status"
	}
	if req.EventType == "" {
		return "event_type is required", "event_type"
	}
	if req.Date != "" {
		if _, err := time.Parse(time.RFC3339, req.Date); err != nil {
			return "date must be RFC 3339", "date"
		}
	}
	return "", ""
}

// mark loads the visitor, checks the record-level policy for the caller,
// applies the attendance record, and persists. It is shared by the single
// and batch endpoints; the batch endpoint maps the sentinel errors to
// per-record failure entries instead of HTTP statuses.
func (h *Handler) mark(ctx context.Context, r *http.Request, visitorID primitive.ObjectID, req markRequest, now time.Time) (*models.Visitor, error) {
	v, err := h.Visitors.GetByID(ctx, visitorID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errVisitorNotFound
		}
		return nil, err
	}

	ok, err := visitorpolicy.CanManageVisitor(ctx, h.DB, r, v)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errNotAuthorized
	}

	rec := models.VisitRecord{
		EventType:        req.EventType,
		AttendanceStatus: req.Status,
		Notes:            htmlsanitize.PlainText(req.Notes),
	}
	if req.Date != "" {
		// Validated upstream.
		rec.Date, _ = time.Parse(time.RFC3339, req.Date)
	}
	if u, found := currentUserID(r); found {
		rec.RecordedBy = &u
	}

	monitoring.RecordVisit(v, rec, now)

	if err := h.Visitors.Replace(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}
