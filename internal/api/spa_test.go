package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeWebFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestWithSPA_ServesStaticAndIndex(t *testing.T) {
	webDir := t.TempDir()
	writeWebFile(t, webDir, "index.html", "INDEX")
	writeWebFile(t, webDir, "manifest.json", "MANIFEST")
	writeWebFile(t, webDir, "assets/app-3f2a.js", "APP")

	apiHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("API"))
	})
	h := WithSPA(apiHandler, webDir)

	tests := []struct {
		name         string
		path         string
		wantStatus   int
		wantBody     string
		wantCacheCtl string
	}{
		{name: "api passthrough", path: "/api/health", wantStatus: http.StatusOK, wantBody: "API"},
		{name: "metrics passthrough", path: "/metrics", wantStatus: http.StatusOK, wantBody: "API"},
		{name: "root index", path: "/", wantStatus: http.StatusOK, wantBody: "INDEX", wantCacheCtl: noStoreCacheControl},
		{name: "plain file", path: "/manifest.json", wantStatus: http.StatusOK, wantBody: "MANIFEST", wantCacheCtl: noStoreCacheControl},
		{name: "hashed asset", path: "/assets/app-3f2a.js", wantStatus: http.StatusOK, wantBody: "APP", wantCacheCtl: immutableCacheControl},
		{name: "client route", path: "/news/EURUSD", wantStatus: http.StatusOK, wantBody: "INDEX", wantCacheCtl: noStoreCacheControl},
		{name: "directory", path: "/assets", wantStatus: http.StatusOK, wantBody: "INDEX", wantCacheCtl: noStoreCacheControl},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rr.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rr.Code)
			}
			if rr.Body.String() != tt.wantBody {
				t.Fatalf("expected body %q, got %q", tt.wantBody, rr.Body.String())
			}
			if got := rr.Header().Get("Cache-Control"); got != tt.wantCacheCtl {
				t.Fatalf("expected Cache-Control %q, got %q", tt.wantCacheCtl, got)
			}
		})
	}
}

func TestWithSPA_IndexMissing(t *testing.T) {
	webDir := t.TempDir()
	apiHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("API"))
	})

	h := WithSPA(apiHandler, webDir)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if rr.Body.String() != "index.html not found" {
		t.Fatalf("unexpected body: %q", rr.Body.String())
	}
}
