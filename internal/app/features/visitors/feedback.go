// internal/app/features/visitors/feedback.go
package visitors

import (
	"net/http"
	"time"

	"github.com/dalemusser/parishhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/parishhub/internal/app/system/httpjson"
	"github.com/dalemusser/parishhub/internal/app/system/timeouts"
	"github.com/dalemusser/parishhub/internal/domain/models"
	"go.uber.org/zap"
)

type suggestionRequest struct {
	Text string `json:"text"`
}

type experienceRequest struct {
	Text   string `json:"text"`
	Rating int    `json:"rating"`
}

// HandleSuggestion processes POST /visitors/{id}/suggestions. Feedback is
// append-only; there is no edit or delete.
func (h *Handler) HandleSuggestion(w http.ResponseWriter, r *http.Request) {
	v, ok := h.loadVisitor(w, r)
	if !ok {
		return
	}

	var req suggestionRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	text := htmlsanitize.PlainText(req.Text)
	if text == "" {
		httpjson.FieldError(w, "text is required", "text")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "visitor suggestion")
	defer cancel()

	s := models.Suggestion{Text: text, SubmittedAt: time.Now().UTC()}
	if err := h.Visitors.AppendSuggestion(ctx, v.ID, s); err != nil {
		h.Log.Error("suggestion append failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	httpjson.Respond(w, http.StatusCreated, s)
}

// HandleExperience processes POST /visitors/{id}/experiences. The rating
// must be 1 through 5.
func (h *Handler) HandleExperience(w http.ResponseWriter, r *http.Request) {
	v, ok := h.loadVisitor(w, r)
	if !ok {
		return
	}

	var req experienceRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	text := htmlsanitize.PlainText(req.Text)
	if text == "" {
		httpjson.FieldError(w, "text is required", "text")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		httpjson.FieldError(w, "rating must be between 1 and 5", "rating")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "visitor experience")
	defer cancel()

	e := models.Experience{Text: text, Rating: req.Rating, SubmittedAt: time.Now().UTC()}
	if err := h.Visitors.AppendExperience(ctx, v.ID, e); err != nil {
		h.Log.Error("experience append failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	httpjson.Respond(w, http.StatusCreated, e)
}
