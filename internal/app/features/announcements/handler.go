// internal/app/features/announcements/handler.go

// Package announcements serves congregation-wide messages. Clients only
// ever see the public UUID; the Mongo _id stays internal.
package announcements

import (
	"errors"
	"net/http"

	announcementstore "github.com/dalemusser/parishhub/internal/app/store/announcements"
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
	Announcements *announcementstore.Store
	Log           *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Announcements: announcementstore.New(db),
		Log:           logger,
	}
}

type createRequest struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Audience string `json:"audience"`
}

// HandleCreate processes POST /announcements. The body allows limited rich
// text; the title is plain.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	title := htmlsanitize.PlainText(req.Title)
	if title == "" {
		httpjson.FieldError(w, "title is required", "title")
		return
	}
	body := htmlsanitize.Sanitize(req.Body)
	if body == "" {
		httpjson.FieldError(w, "body is required", "body")
		return
	}
	if req.Audience != "" && !announcementstore.IsValidAudience(req.Audience) {
		httpjson.FieldError(w, `audience must be "all", "leaders", or "protocol"`, "audience")
		return
	}

	a := models.Announcement{
		Title:    title,
		Body:     body,
		Audience: req.Audience,
	}
	if u, found := auth.CurrentUser(r); found {
		if id, err := primitive.ObjectIDFromHex(u.ID); err == nil {
			a.CreatedBy = id
		}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "announcement create")
	defer cancel()

	created, err := h.Announcements.Create(ctx, a)
	if err != nil {
		h.Log.Error("announcement create failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	h.Log.Info("announcement created", zap.String("id", created.PublicID))
	httpjson.Respond(w, http.StatusCreated, created)
}

// audiencesFor maps the caller's role to the audiences they may read.
func audiencesFor(r *http.Request) []string {
	switch {
	case authz.IsBishop(r):
		return nil // unfiltered
	case authz.IsLeader(r):
		return []string{announcementstore.AudienceAll, announcementstore.AudienceLeaders}
	case authz.IsProtocol(r):
		return []string{announcementstore.AudienceAll, announcementstore.AudienceProtocol}
	default:
		return []string{announcementstore.AudienceAll}
	}
}

// ServeList handles GET /announcements, scoped to the caller's role.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "announcement list")
	defer cancel()

	items, err := h.Announcements.List(ctx, audiencesFor(r)...)
	if err != nil {
		h.Log.Error("announcement list failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	httpjson.OK(w, map[string]any{"announcements": items, "count": len(items)})
}

// ServeView handles GET /announcements/{id} (public UUID).
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	a, err := h.Announcements.GetByPublicID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.NotFound(w, "announcement")
			return
		}
		h.Log.Error("announcement load failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	httpjson.OK(w, a)
}

// HandleDelete processes DELETE /announcements/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "announcement delete")
	defer cancel()

	n, err := h.Announcements.Delete(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.Log.Error("announcement delete failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	if n == 0 {
		httpjson.NotFound(w, "announcement")
		return
	}
	httpjson.OK(w, map[string]string{"status": "deleted"})
}
