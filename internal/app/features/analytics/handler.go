// internal/app/features/analytics/handler.go

// Package analytics serves the reporting endpoints: per-team caseload
// stats, the conversion funnel, and monthly trend series. The aggregations
// run over the whole visitors collection, so results are served through a
// short-lived TTL cache instead of hitting Mongo on every request.
package analytics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	statsstore "github.com/dalemusser/parishhub/internal/app/store/stats"
	"github.com/dalemusser/parishhub/internal/app/system/cache"
	"github.com/dalemusser/parishhub/internal/app/system/gates"
	"github.com/dalemusser/parishhub/internal/app/system/httpjson"
	"github.com/dalemusser/parishhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	defaultTrendMonths = 6
	maxTrendMonths     = 36
)

type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger

	teams      *cache.TTL[[]statsstore.TeamStats]
	conversion *cache.TTL[statsstore.ConversionStats]
	trends     *cache.TTL[[]statsstore.MonthBucket]
}

// NewHandler constructs the analytics handler with one cache per report.
// ttl is the report expiry from app config; a few seconds is typical.
func NewHandler(db *mongo.Database, ttl time.Duration, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Log:        logger,
		teams:      cache.NewTTL[[]statsstore.TeamStats](ttl),
		conversion: cache.NewTTL[statsstore.ConversionStats](ttl),
		trends:     cache.NewTTL[[]statsstore.MonthBucket](ttl),
	}
}

// parseWindow reads the optional from/to query parameters (RFC 3339). The
// second return is a cache key component; the bool reports whether parsing
// succeeded (the error response is already written when it did not).
func parseWindow(w http.ResponseWriter, r *http.Request) (statsstore.Window, string, bool) {
	var win statsstore.Window
	for _, p := range []struct {
		name string
		dst  **time.Time
	}{
		{"from", &win.From},
		{"to", &win.To},
	} {
		s := r.URL.Query().Get(p.name)
		if s == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			httpjson.FieldError(w, p.name+" must be RFC 3339", p.name)
			return statsstore.Window{}, "", false
		}
		*p.dst = &t
	}
	key := "all"
	if win.From != nil || win.To != nil {
		key = fmt.Sprintf("%v..%v", win.From, win.To)
	}
	return win, key, true
}

// ServeTeamStats handles GET /analytics/teams?from=...&to=...
func (h *Handler) ServeTeamStats(w http.ResponseWriter, r *http.Request) {
	win, key, ok := parseWindow(w, r)
	if !ok {
		return
	}
	if stats, ok := h.teams.Get(key); ok {
		httpjson.OK(w, map[string]any{"teams": stats})
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "team stats")
	defer cancel()

	stats, err := statsstore.FetchTeamStats(ctx, h.DB, win)
	if err != nil {
		h.Log.Error("team stats failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	h.teams.Set(key, stats)

	httpjson.OK(w, map[string]any{"teams": stats})
}

// ServeConversion handles GET /analytics/conversion?from=...&to=...
func (h *Handler) ServeConversion(w http.ResponseWriter, r *http.Request) {
	win, key, ok := parseWindow(w, r)
	if !ok {
		return
	}
	if stats, ok := h.conversion.Get(key); ok {
		httpjson.OK(w, stats)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "conversion stats")
	defer cancel()

	stats, err := statsstore.FetchConversionStats(ctx, h.DB, win)
	if err != nil {
		h.Log.Error("conversion stats failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	h.conversion.Set(key, stats)

	httpjson.OK(w, stats)
}

// ServeTrends handles GET /analytics/trends?months=N. N defaults to 6 and
// is capped at 36.
func (h *Handler) ServeTrends(w http.ResponseWriter, r *http.Request) {
	months := defaultTrendMonths
	if s := r.URL.Query().Get("months"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxTrendMonths {
			httpjson.FieldError(w, fmt.Sprintf("months must be between 1 and %d", maxTrendMonths), "months")
			return
		}
		months = n
	}

	key := strconv.Itoa(months)
	if buckets, ok := h.trends.Get(key); ok {
		httpjson.OK(w, map[string]any{"months": buckets})
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "monthly trends")
	defer cancel()

	buckets, err := statsstore.FetchMonthlyTrends(ctx, h.DB, months, time.Now().UTC())
	if err != nil {
		h.Log.Error("monthly trends failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	h.trends.Set(key, buckets)

	httpjson.OK(w, map[string]any{"months": buckets})
}

// HandleRefresh processes POST /analytics/refresh: it drops all cached
// reports so the next request recomputes from Mongo. The route group admits
// all staff, so the bishop requirement is enforced here.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireBishop(w, r)
	if !res.OK {
		return
	}

	h.teams.Clear()
	h.conversion.Clear()
	h.trends.Clear()

	h.Log.Info("analytics caches refreshed", zap.String("by", res.Name))
	httpjson.OK(w, map[string]string{"status": "refreshed"})
}
