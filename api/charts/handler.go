package charts

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// NewHandler serves generated chart artifacts from dir. prefix is the mount
// path including the trailing slash, e.g. "/static/".
func NewHandler(dir, prefix string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		name := strings.TrimPrefix(r.URL.Path, prefix)
		// Only flat file names are served; anything path-like is rejected.
		if name == "" || strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
			writeError(w, http.StatusNotFound, "chart not found")
			return
		}
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			writeError(w, http.StatusNotFound, "chart not found")
			return
		}
		http.ServeFile(w, r, path)
	})
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "message": msg})
}
