package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
)

func TestAssetsSetsCacheHeadersAndETag(t *testing.T) {
	handler := Assets(fstest.MapFS{"menu.css": {Data: []byte("body{}")}})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/menu.css", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr.Body.String() != "body{}" {
		t.Fatalf("unexpected body %q", rr.Body.String())
	}
	if got := rr.Header().Get("Cache-Control"); got != assetCacheControl {
		t.Fatalf("unexpected cache-control %q", got)
	}
	etag := rr.Header().Get("ETag")
	if !strings.HasPrefix(etag, `W/"`) {
		t.Fatalf("expected weak etag, got %q", etag)
	}

	req := httptest.NewRequest(http.MethodGet, "/menu.css", nil)
	req.Header.Set("If-None-Match", etag)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", rr.Code)
	}
	if rr.Body.Len() != 0 {
		t.Fatalf("expected empty body on 304")
	}
}

func TestAssetsUnknownFile(t *testing.T) {
	handler := Assets(fstest.MapFS{"menu.css": {Data: []byte("body{}")}})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/missing.js", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if rr.Header().Get("ETag") != "" {
		t.Fatalf("expected no etag for missing file")
	}
}
