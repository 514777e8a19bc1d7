package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHealthHandlersHealthz(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start.Add(30 * time.Second)
	handlers := NewHealthHandlers(
		WithHealthStartedAt(start),
		WithHealthClock(func() time.Time { return now }),
	)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()

	handlers.Healthz(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("expected status ok, got %v", body["status"])
	}
	if body["uptime"] != "30s" {
		t.Fatalf("expected uptime 30s, got %v", body["uptime"])
	}
	if body["timestamp"] != "2024-01-01T00:00:30Z" {
		t.Fatalf("unexpected timestamp %v", body["timestamp"])
	}
}

func TestHealthHandlersReadyzNotLoaded(t *testing.T) {
	handlers := NewHealthHandlers(WithReadiness(func() bool { return false }))

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rr := httptest.NewRecorder()

	handlers.Readyz(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rr.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body["error"] != "catalog_not_loaded" {
		t.Fatalf("expected catalog_not_loaded, got %v", body["error"])
	}
}

func TestHealthHandlersReadyzLoaded(t *testing.T) {
	loaded := time.Date(2024, 1, 1, 0, 1, 0, 0, time.UTC)
	handlers := NewHealthHandlers(
		WithReadiness(func() bool { return true }),
		WithCatalogLoadedAt(func() time.Time { return loaded }),
	)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rr := httptest.NewRecorder()

	handlers.Readyz(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body["catalogLoadedAt"] != "2024-01-01T00:01:00Z" {
		t.Fatalf("unexpected catalogLoadedAt %v", body["catalogLoadedAt"])
	}
}

func TestNewRouterDefaults(t *testing.T) {
	router := NewRouter()

	t.Run("healthz", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
	})

	t.Run("not found", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/missing", nil))
		if rr.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rr.Code)
		}
		var body map[string]any
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
		if body["error"] != errorNotFoundCode {
			t.Fatalf("expected %s, got %v", errorNotFoundCode, body["error"])
		}
		if body["request_id"] == nil {
			t.Fatalf("expected request_id in error payload")
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/healthz", nil))
		if rr.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected status 405, got %d", rr.Code)
		}
	})
}
