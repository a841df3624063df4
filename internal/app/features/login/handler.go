// internal/app/features/login/handler.go
package login

import (
	"errors"
	"net/http"

	userstore "github.com/dalemusser/parishhub/internal/app/store/users"
	"github.com/dalemusser/parishhub/internal/app/system/auth"
	"github.com/dalemusser/parishhub/internal/app/system/httpjson"
	"github.com/dalemusser/parishhub/internal/app/system/timeouts"
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

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// HandleLogin processes POST /login. On success it sets the session cookie
// and returns the signed-in user. Credential failures always return the
// same 401 so callers cannot probe which emails exist.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Email == "" {
		httpjson.FieldError(w, "email is required", "email")
		return
	}
	if req.Password == "" {
		httpjson.FieldError(w, "password is required", "password")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "login lookup")
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.Log.Error("login: user lookup failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	if u.Status == "disabled" {
		httpjson.Error(w, http.StatusUnauthorized, "account is disabled")
		return
	}
	if !userstore.VerifyPassword(u, req.Password) {
		httpjson.Error(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	su := &auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.FullName,
		Email: u.Email,
		Role:  u.Role,
	}
	if err := auth.SignIn(w, r, su); err != nil {
		h.Log.Error("login: session save failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	h.Log.Info("user signed in",
		zap.String("user_id", su.ID),
		zap.String("role", su.Role))

	httpjson.OK(w, loginResponse{
		ID:    su.ID,
		Name:  su.Name,
		Email: su.Email,
		Role:  su.Role,
	})
}
