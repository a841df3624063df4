// internal/app/features/users/handler.go

// Package users is the bishop-facing staff administration surface:
// creating accounts, editing roles, and soft-disabling users.
package users

import (
	"errors"
	"net/http"

	userstore "github.com/dalemusser/parishhub/internal/app/store/users"
	"github.com/dalemusser/parishhub/internal/app/system/httpjson"
	"github.com/dalemusser/parishhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Users: userstore.New(db),
		Log:   logger,
	}
}

func (h *Handler) loadUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.NotFound(w, "user")
		return nil, false
	}
	u, err := h.Users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.NotFound(w, "user")
			return nil, false
		}
		h.Log.Error("user load failed", zap.Error(err))
		httpjson.ServerError(w)
		return nil, false
	}
	return u, true
}
