// internal/app/features/events/handler.go

// Package events manages scheduled services and activities. Event types
// feed attendance records, so the primary-service type here is what drives
// milestone auto-completion downstream.
package events

import (
	"errors"
	"net/http"
	"time"

	eventstore "github.com/dalemusser/parishhub/internal/app/store/events"
	"github.com/dalemusser/parishhub/internal/app/system/auth"
	"github.com/dalemusser/parishhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/parishhub/internal/app/system/httpjson"
	"github.com/dalemusser/parishhub/internal/app/system/timeouts"
	"github.com/dalemusser/parishhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Events *eventstore.Store
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Events: eventstore.New(db),
		Log:    logger,
	}
}

type createEventRequest struct {
	Name        string `json:"name"`
	EventType   string `json:"event_type"`
	Description string `json:"description"`
	Location    string `json:"location"`
	StartsAt    string `json:"starts_at"` // RFC 3339
	EndsAt      string `json:"ends_at,omitempty"`
}

// HandleCreate processes POST /events.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if htmlsanitize.PlainText(req.Name) == "" {
		httpjson.FieldError(w, "name is required", "name")
		return
	}
	if !eventstore.IsValidEventType(req.EventType) {
		httpjson.FieldError(w, `event_type must be "primary-service", "midweek", or "special"`, "event_type")
		return
	}
	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		httpjson.FieldError(w, "starts_at must be RFC 3339", "starts_at")
		return
	}
	var endsAt time.Time
	if req.EndsAt != "" {
		endsAt, err = time.Parse(time.RFC3339, req.EndsAt)
		if err != nil {
			httpjson.FieldError(w, "ends_at must be RFC 3339", "ends_at")
			return
		}
		if endsAt.Before(startsAt) {
			httpjson.FieldError(w, "ends_at must not be before starts_at", "ends_at")
			return
		}
	}

	e := models.Event{
		Name:        htmlsanitize.PlainText(req.Name),
		EventType:   req.EventType,
		Description: htmlsanitize.PlainText(req.Description),
		Location:    htmlsanitize.PlainText(req.Location),
		StartsAt:    startsAt,
		EndsAt:      endsAt,
	}
	if u, found := auth.CurrentUser(r); found {
		if id, err := primitive.ObjectIDFromHex(u.ID); err == nil {
			e.CreatedBy = id
		}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "event create")
	defer cancel()

	created, err := h.Events.Create(ctx, e)
	if err != nil {
		h.Log.Error("event create failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	h.Log.Info("event created",
		zap.String("event_id", created.ID.Hex()),
		zap.String("event_type", created.EventType))

	httpjson.Respond(w, http.StatusCreated, created)
}

// ServeList handles GET /events?type=...
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	eventType := r.URL.Query().Get("type")
	if eventType != "" && !eventstore.IsValidEventType(eventType) {
		httpjson.FieldError(w, "unknown event type", "type")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "event list")
	defer cancel()

	items, err := h.Events.List(ctx, eventType)
	if err != nil {
		h.Log.Error("event list failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	httpjson.OK(w, map[string]any{"events": items, "count": len(items)})
}

// ServeView handles GET /events/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	e, ok := h.loadEvent(w, r)
	if !ok {
		return
	}
	httpjson.OK(w, e)
}

// HandleCancel processes POST /events/{id}/cancel.
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	e, ok := h.loadEvent(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "event cancel")
	defer cancel()

	if err := h.Events.Cancel(ctx, e.ID); err != nil {
		h.Log.Error("event cancel failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	httpjson.OK(w, map[string]string{"status": "cancelled"})
}

func (h *Handler) loadEvent(w http.ResponseWriter, r *http.Request) (*models.Event, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.NotFound(w, "event")
		return nil, false
	}
	e, err := h.Events.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.NotFound(w, "event")
			return nil, false
		}
		h.Log.Error("event load failed", zap.Error(err))
		httpjson.ServerError(w)
		return nil, false
	}
	return e, true
}
