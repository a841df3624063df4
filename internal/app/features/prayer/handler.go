// internal/app/features/prayer/handler.go

// Package prayer handles prayer requests: submission by any signed-in
// role, role-scoped listings, and status progression by bishops/leaders.
package prayer

import (
	"errors"
	"net/http"

	prayerstore "github.com/dalemusser/parishhub/internal/app/store/prayer"
	"github.com/dalemusser/parishhub/internal/app/system/auth"
	"github.com/dalemusser/parishhub/internal/app/system/authz"
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
	Prayer *prayerstore.Store
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Prayer: prayerstore.New(db),
		Log:    logger,
	}
}

type submitRequest struct {
	Text    string `json:"text"`
	Private bool   `json:"private"`
}

// HandleSubmit processes POST /prayer-requests.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	text := htmlsanitize.PlainText(req.Text)
	if text == "" {
		httpjson.FieldError(w, "text is required", "text")
		return
	}

	p := models.PrayerRequest{
		Text:    text,
		Private: req.Private,
	}
	if u, found := auth.CurrentUser(r); found {
		p.RequesterName = u.Name
		if id, err := primitive.ObjectIDFromHex(u.ID); err == nil {
			p.RequesterID = &id
		}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "prayer submit")
	defer cancel()

	created, err := h.Prayer.Create(ctx, p)
	if err != nil {
		h.Log.Error("prayer submit failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	httpjson.Respond(w, http.StatusCreated, created)
}

// ServeList handles GET /prayer-requests?status=...
// Private requests appear only for bishops and leaders; everyone else sees
// public requests plus their own.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	st := r.URL.Query().Get("status")
	if st != "" && !prayerstore.IsValidStatus(st) {
		httpjson.FieldError(w, "unknown status", "status")
		return
	}

	includePrivate := authz.IsBishop(r) || authz.IsLeader(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "prayer list")
	defer cancel()

	items, err := h.Prayer.List(ctx, st, includePrivate)
	if err != nil {
		h.Log.Error("prayer list failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	if !includePrivate {
		if u, found := auth.CurrentUser(r); found {
			if id, err := primitive.ObjectIDFromHex(u.ID); err == nil {
				mine, err := h.Prayer.ListByRequester(ctx, id)
				if err != nil {
					h.Log.Error("prayer own-request list failed", zap.Error(err))
					httpjson.ServerError(w)
					return
				}
				items = mergeOwn(items, mine, st)
			}
		}
	}

	httpjson.OK(w, map[string]any{"prayer_requests": items, "count": len(items)})
}

// mergeOwn adds the caller's private requests to a public listing, keeping
// the optional status filter and skipping duplicates.
func mergeOwn(public, own []models.PrayerRequest, st string) []models.PrayerRequest {
	seen := make(map[primitive.ObjectID]bool, len(public))
	for _, p := range public {
		seen[p.ID] = true
	}
	for _, p := range own {
		if seen[p.ID] {
			continue
		}
		if st != "" && p.Status != st {
			continue
		}
		public = append(public, p)
	}
	return public
}

type statusRequest struct {
	Status string `json:"status"`
}

// HandleSetStatus processes PUT /prayer-requests/{id}/status: the
// open -> praying -> answered progression.
func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.NotFound(w, "prayer request")
		return
	}

	var req statusRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if !prayerstore.IsValidStatus(req.Status) {
		httpjson.FieldError(w, `status must be "open", "praying", or "answered"`, "status")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "prayer status")
	defer cancel()

	if err := h.Prayer.SetStatus(ctx, id, req.Status); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.NotFound(w, "prayer request")
			return
		}
		h.Log.Error("prayer status update failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	httpjson.OK(w, map[string]string{"status": req.Status})
}
