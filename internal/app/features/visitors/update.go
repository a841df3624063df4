// internal/app/features/visitors/update.go
package visitors

import (
	"errors"
	"net/http"
	"time"

	visitorstore "github.com/dalemusser/parishhub/internal/app/store/visitors"
	"github.com/dalemusser/parishhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/parishhub/internal/app/system/httpjson"
	"github.com/dalemusser/parishhub/internal/app/system/normalize"
	"github.com/dalemusser/parishhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/text"
	"go.uber.org/zap"
)

type updateRequest struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	Gender   *string `json:"gender"`
	AgeGroup *string `json:"age_group"`
}

// HandleUpdate processes PUT /visitors/{id}: a partial profile update.
// Only provided fields change; derived and monitoring fields are never
// touched here.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	v, ok := h.loadVisitor(w, r)
	if !ok {
		return
	}
	if !h.requireManage(w, r, v) {
		return
	}

	var req updateRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.FullName != nil {
		name := htmlsanitize.PlainText(*req.FullName)
		if name == "" {
			httpjson.FieldError(w, "full_name cannot be empty", "full_name")
			return
		}
		v.FullName = normalize.Name(name)
		v.FullNameCI = text.Fold(v.FullName)
	}
	if req.Email != nil {
		email := normalize.Email(*req.Email)
		if email == "" {
			httpjson.FieldError(w, "email cannot be empty", "email")
			return
		}
		v.Email = email
	}
	if req.Phone != nil {
		v.Phone = htmlsanitize.PlainText(*req.Phone)
	}
	if req.Address != nil {
		v.Address = htmlsanitize.PlainText(*req.Address)
	}
	if req.Gender != nil {
		v.Gender = htmlsanitize.PlainText(*req.Gender)
	}
	if req.AgeGroup != nil {
		v.AgeGroup = htmlsanitize.PlainText(*req.AgeGroup)
	}
	v.UpdatedAt = time.Now().UTC()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "visitor update")
	defer cancel()

	if err := h.Visitors.Replace(ctx, v); err != nil {
		if errors.Is(err, visitorstore.ErrDuplicateEmail) {
			httpjson.FieldError(w, "a visitor with this email already exists", "email")
			return
		}
		h.Log.Error("visitor update failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	httpjson.OK(w, v)
}

// HandleDeactivate processes POST /visitors/{id}/deactivate: the soft
// delete. The record stays for analytics.
func (h *Handler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	v, ok := h.loadVisitor(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "visitor deactivate")
	defer cancel()

	if err := h.Visitors.Deactivate(ctx, v.ID); err != nil {
		h.Log.Error("visitor deactivate failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	h.Log.Info("visitor deactivated", zap.String("visitor_id", v.ID.Hex()))
	httpjson.OK(w, map[string]string{"status": "deactivated"})
}
