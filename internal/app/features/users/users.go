// internal/app/features/users/users.go
package users

import (
	"errors"
	"net/http"

	userstore "github.com/dalemusser/parishhub/internal/app/store/users"
	"github.com/dalemusser/parishhub/internal/app/system/authz"
	"github.com/dalemusser/parishhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/parishhub/internal/app/system/httpjson"
	"github.com/dalemusser/parishhub/internal/app/system/normalize"
	"github.com/dalemusser/parishhub/internal/app/system/status"
	"github.com/dalemusser/parishhub/internal/app/system/timeouts"
	"github.com/dalemusser/parishhub/internal/domain/models"
	"go.uber.org/zap"
)

const minPasswordLen = 8

type createUserRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

// HandleCreate processes POST /users. A password is optional; accounts
// without one can only sign in through Google.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
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
	if !authz.IsValidRole(normalize.Role(req.Role)) {
		httpjson.FieldError(w, userstore.ErrBadRole.Error(), "role")
		return
	}
	if req.Password != "" && len(req.Password) < minPasswordLen {
		httpjson.FieldError(w, "password must be at least 8 characters", "password")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "user create")
	defer cancel()

	u, err := h.Users.Create(ctx, models.User{
		FullName: htmlsanitize.PlainText(req.FullName),
		Email:    req.Email,
		Phone:    htmlsanitize.PlainText(req.Phone),
		Role:     req.Role,
	}, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, userstore.ErrDuplicateEmail):
			httpjson.FieldError(w, err.Error(), "email")
		case errors.Is(err, userstore.ErrBadRole):
			httpjson.FieldError(w, err.Error(), "role")
		default:
			h.Log.Error("user create failed", zap.Error(err))
			httpjson.ServerError(w)
		}
		return
	}

	h.Log.Info("user created",
		zap.String("user_id", u.ID.Hex()),
		zap.String("role", u.Role))

	httpjson.Respond(w, http.StatusCreated, u)
}

// ServeList handles GET /users?role=... listing active users of one role.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	role := normalize.Role(r.URL.Query().Get("role"))
	if !authz.IsValidRole(role) {
		httpjson.FieldError(w, userstore.ErrBadRole.Error(), "role")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "user list")
	defer cancel()

	items, err := h.Users.ListByRole(ctx, role)
	if err != nil {
		h.Log.Error("user list failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	httpjson.OK(w, map[string]any{"users": items, "count": len(items)})
}

// ServeView handles GET /users/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	u, ok := h.loadUser(w, r)
	if !ok {
		return
	}
	httpjson.OK(w, u)
}

type updateUserRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

// HandleUpdate processes PUT /users/{id}: a full profile replace by a
// bishop. All fields are required.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	u, ok := h.loadUser(w, r)
	if !ok {
		return
	}

	var req updateUserRequest
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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "user update")
	defer cancel()

	err := h.Users.UpdateProfile(ctx, u.ID, userstore.Update{
		FullName: htmlsanitize.PlainText(req.FullName),
		Email:    req.Email,
		Phone:    htmlsanitize.PlainText(req.Phone),
		Role:     req.Role,
		Status:   req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, userstore.ErrDuplicateEmail):
			httpjson.FieldError(w, err.Error(), "email")
		case errors.Is(err, userstore.ErrBadRole):
			httpjson.FieldError(w, err.Error(), "role")
		case errors.Is(err, userstore.ErrBadStatus):
			httpjson.FieldError(w, err.Error(), "status")
		default:
			h.Log.Error("user update failed", zap.Error(err))
			httpjson.ServerError(w)
		}
		return
	}
	httpjson.OK(w, map[string]string{"status": "updated"})
}

// HandleDisable processes POST /users/{id}/disable: the soft delete.
// Disabled users keep their history but can no longer sign in.
func (h *Handler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	u, ok := h.loadUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "user disable")
	defer cancel()

	if err := h.Users.SetStatus(ctx, u.ID, status.Disabled); err != nil {
		h.Log.Error("user disable failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	h.Log.Info("user disabled", zap.String("user_id", u.ID.Hex()))
	httpjson.OK(w, map[string]string{"status": "disabled"})
}
