package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aryan0dhankhar/rentalregistry/internal/service"
	"github.com/aryan0dhankhar/rentalregistry/pkg/cache"
)

const dashboardCacheKey = "dashboard:summary"

// DashboardHandler serves the cached portfolio summary
type DashboardHandler struct {
	registry *service.Registry
	cache    *cache.Cache[*service.DashboardSummary]
	logger   *slog.Logger
}

// NewDashboardHandler creates a dashboard handler whose summary is cached for ttl.
// A zero ttl disables caching.
func NewDashboardHandler(registry *service.Registry, ttl time.Duration, logger *slog.Logger) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &DashboardHandler{registry: registry, logger: logger}
	if ttl > 0 {
		h.cache = cache.New[*service.DashboardSummary](ttl, 0)
	}
	return h
}

func (h *DashboardHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/dashboard", h.Summary)
}

// Summary handles GET /api/dashboard
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if h.cache != nil {
		if summary, ok := h.cache.Get(dashboardCacheKey); ok {
			w.Header().Set("X-Cache", "HIT")
			writeJSON(w, http.StatusOK, summary, h.logger)
			return
		}
	}

	summary, err := h.registry.Dashboard(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	if h.cache != nil {
		h.cache.Set(dashboardCacheKey, summary)
		w.Header().Set("X-Cache", "MISS")
	}
	writeJSON(w, http.StatusOK, summary, h.logger)
}

// Invalidate drops the cached summary
func (h *DashboardHandler) Invalidate() {
	if h.cache != nil {
		h.cache.Invalidate("dashboard:")
	}
}

// InvalidateOnWrite drops the cached summary after every successful mutating request
func (h *DashboardHandler) InvalidateOnWrite(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			next.ServeHTTP(w, r)
			return
		}
		sw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		if sw.status < http.StatusBadRequest {
			h.Invalidate()
		}
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
