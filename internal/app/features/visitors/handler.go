// internal/app/features/visitors/handler.go
package visitors

import (
	"errors"
	"net/http"

	"github.com/dalemusser/parishhub/internal/app/policy/visitorpolicy"
	visitorstore "github.com/dalemusser/parishhub/internal/app/store/visitors"
	"github.com/dalemusser/parishhub/internal/app/system/httpjson"
	"github.com/dalemusser/parishhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the visitors feature.
// The per-operation handlers (register, list, attendance-adjacent updates,
// milestones, checklist, feedback, conversion) all share these.
type Handler struct {
	DB       *mongo.Database
	Visitors *visitorstore.Store
	Log      *zap.Logger
}

// NewHandler constructs a visitors Handler. It is typically called from the
// bootstrap BuildHandler function.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Visitors: visitorstore.New(db),
		Log:      logger,
	}
}

// loadVisitor resolves the {id} URL parameter to a visitor document.
// On failure it writes the error response and returns ok=false.
func (h *Handler) loadVisitor(w http.ResponseWriter, r *http.Request) (*models.Visitor, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.NotFound(w, "visitor")
		return nil, false
	}
	v, err := h.Visitors.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.NotFound(w, "visitor")
			return nil, false
		}
		h.Log.Error("visitor load failed", zap.Error(err))
		httpjson.ServerError(w)
		return nil, false
	}
	return v, true
}

// requireManage enforces the record-level policy: bishops, the assigned
// caretaker, or a protocol member on the visitor's team. On failure it
// writes the error response and returns false.
func (h *Handler) requireManage(w http.ResponseWriter, r *http.Request, v *models.Visitor) bool {
	ok, err := visitorpolicy.CanManageVisitor(r.Context(), h.DB, r, v)
	if err != nil {
		h.Log.Error("visitor policy check failed", zap.Error(err))
		httpjson.ServerError(w)
		return false
	}
	if !ok {
		httpjson.Forbidden(w)
		return false
	}
	return true
}
