// internal/app/features/visitors/register.go
package visitors

import (
	"errors"
	"net/http"

	"github.com/dalemusser/parishhub/internal/app/monitoring"
	visitorstore "github.com/dalemusser/parishhub/internal/app/store/visitors"
	"github.com/dalemusser/parishhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/parishhub/internal/app/system/httpjson"
	"github.com/dalemusser/parishhub/internal/app/system/normalize"
	"github.com/dalemusser/parishhub/internal/app/system/timeouts"
	"github.com/dalemusser/parishhub/internal/domain/models"
	"go.uber.org/zap"
)

type registerRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Gender   string `json:"gender"`
	AgeGroup string `json:"age_group"`
	Type     string `json:"type"`
}

// HandleRegister processes POST /visitors. Joining visitors leave with an
// active 90-day monitoring window and the 12-week milestone schedule.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if htmlsanitize.PlainText(req.FullName) == "" {
		httpjson.FieldError(w, "full_name is required", "full_name")
		return
	}
	if normalize.Email(req.Email) == "" {
		httpjson.FieldError(w, "email is required", "email")
		return
	}
	switch req.Type {
	case monitoring.TypeVisiting, monitoring.TypeJoining:
	default:
		httpjson.FieldError(w, `type must be "visiting" or "joining"`, "type")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "visitor register")
	defer cancel()

	v, err := h.Visitors.Create(ctx, models.Visitor{
		FullName: htmlsanitize.PlainText(req.FullName),
		Email:    req.Email,
		Phone:    htmlsanitize.PlainText(req.Phone),
		Address:  htmlsanitize.PlainText(req.Address),
		Gender:   htmlsanitize.PlainText(req.Gender),
		AgeGroup: htmlsanitize.PlainText(req.AgeGroup),
		Type:     req.Type,
	})
	if err != nil {
		if errors.Is(err, visitorstore.ErrDuplicateEmail) {
			httpjson.FieldError(w, "a visitor with this email already exists", "email")
			return
		}
		h.Log.Error("visitor create failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	h.Log.Info("visitor registered",
		zap.String("visitor_id", v.ID.Hex()),
		zap.String("type", v.Type))

	httpjson.Respond(w, http.StatusCreated, v)
}
