// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/parishhub/internal/app/system/auth"
	"github.com/dalemusser/parishhub/internal/app/system/httpjson"
	"go.uber.org/zap"
)

type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

// HandleLogout clears the session. Always succeeds, even if no session
// was present.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := auth.SignOut(w, r); err != nil {
		h.Log.Error("logout: session clear failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	httpjson.OK(w, map[string]string{"status": "signed out"})
}
