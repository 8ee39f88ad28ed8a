package api

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const (
	noStoreCacheControl   = "no-store"
	immutableCacheControl = "public, max-age=31536000, immutable"
)

// WithSPA serves the web front-end from webDir around the API handler.
// Unknown paths fall back to index.html so client-side routes resolve.
// Files under assets/ carry content hashes and are cached forever.
func WithSPA(apiHandler http.Handler, webDir string) http.Handler {
	fileServer := http.FileServer(http.Dir(webDir))
	indexPath := filepath.Join(webDir, "index.html")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isAPIPath(r.URL.Path) {
			apiHandler.ServeHTTP(w, r)
			return
		}

		cleanPath := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
		if cleanPath == "." || cleanPath == "" {
			serveIndex(w, r, indexPath)
			return
		}

		info, err := os.Stat(filepath.Join(webDir, filepath.FromSlash(cleanPath)))
		if err != nil || info.IsDir() {
			serveIndex(w, r, indexPath)
			return
		}
		if strings.HasPrefix(cleanPath, "assets/") {
			w.Header().Set("Cache-Control", immutableCacheControl)
		} else {
			w.Header().Set("Cache-Control", noStoreCacheControl)
		}
		fileServer.ServeHTTP(w, r)
	})
}

func isAPIPath(p string) bool {
	return strings.HasPrefix(p, "/api/") || p == "/metrics"
}

func serveIndex(w http.ResponseWriter, r *http.Request, indexPath string) {
	if _, err := os.Stat(indexPath); err == nil {
		w.Header().Set("Cache-Control", noStoreCacheControl)
		http.ServeFile(w, r, indexPath)
		return
	}
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte("index.html not found"))
}
