package handlers

import (
	"net/http"
	"time"

	"finitefield.org/hanko-menu/internal/platform/httpx"
)

// ReadinessFunc reports whether the service can serve traffic.
type ReadinessFunc func() bool

// HealthHandlers serves liveness and readiness probes.
type HealthHandlers struct {
	clock     func() time.Time
	startedAt time.Time
	ready     ReadinessFunc
	loadedAt  func() time.Time
}

// HealthOption customises HealthHandlers.
type HealthOption func(*HealthHandlers)

// NewHealthHandlers constructs probe handlers. Without a readiness func the service
// always reports ready.
func NewHealthHandlers(opts ...HealthOption) *HealthHandlers {
	h := &HealthHandlers{
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.startedAt.IsZero() {
		h.startedAt = h.clock()
	}
	return h
}

// WithHealthClock overrides the clock used for uptime and timestamps.
func WithHealthClock(clock func() time.Time) HealthOption {
	return func(h *HealthHandlers) {
		if clock != nil {
			h.clock = clock
		}
	}
}

// WithHealthStartedAt sets the process start time used for uptime.
func WithHealthStartedAt(ts time.Time) HealthOption {
	return func(h *HealthHandlers) {
		h.startedAt = ts
	}
}

// WithReadiness sets the readiness check.
func WithReadiness(ready ReadinessFunc) HealthOption {
	return func(h *HealthHandlers) {
		h.ready = ready
	}
}

// WithCatalogLoadedAt reports when the catalog snapshot was stored.
func WithCatalogLoadedAt(fn func() time.Time) HealthOption {
	return func(h *HealthHandlers) {
		h.loadedAt = fn
	}
}

// Healthz responds with a simple liveness payload.
func (h *HealthHandlers) Healthz(w http.ResponseWriter, r *http.Request) {
	now := h.clock()
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"uptime":    now.Sub(h.startedAt).Round(time.Second).String(),
		"timestamp": now.UTC().Format(time.RFC3339),
	})
}

// Readyz reports 200 once the catalog has loaded and 503 before that.
func (h *HealthHandlers) Readyz(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil && !h.ready() {
		httpx.WriteError(r.Context(), w, httpx.NewError("catalog_not_loaded", "catalog snapshot is not available", http.StatusServiceUnavailable))
		return
	}
	payload := map[string]any{
		"status":    "ok",
		"timestamp": h.clock().UTC().Format(time.RFC3339),
	}
	if h.loadedAt != nil {
		if ts := h.loadedAt(); !ts.IsZero() {
			payload["catalogLoadedAt"] = ts.UTC().Format(time.RFC3339)
		}
	}
	httpx.WriteJSON(w, http.StatusOK, payload)
}
