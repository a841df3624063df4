// internal/app/features/teams/handler.go

// Package teams manages protocol (visitor-care) teams and their
// memberships. Team CRUD is bishop-only; listings are open to staff.
package teams

import (
	"errors"
	"net/http"

	teamstore "github.com/dalemusser/parishhub/internal/app/store/teams"
	"github.com/dalemusser/parishhub/internal/app/system/httpjson"
	"github.com/dalemusser/parishhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Teams *teamstore.Store
	Log   *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Teams: teamstore.New(db),
		Log:   logger,
	}
}

// loadTeam resolves the {id} URL parameter to a team document. On failure
// it writes the error response and returns ok=false.
func (h *Handler) loadTeam(w http.ResponseWriter, r *http.Request) (*models.Team, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.NotFound(w, "team")
		return nil, false
	}
	t, err := h.Teams.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.NotFound(w, "team")
			return nil, false
		}
		h.Log.Error("team load failed", zap.Error(err))
		httpjson.ServerError(w)
		return nil, false
	}
	return t, true
}
