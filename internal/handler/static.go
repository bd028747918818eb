package handler

import (
	"net/http"
	"os"
	"path/filepath"
)

const fallbackIndex = "<html><body><h3>Chat frontend not found</h3></body></html>"

// StaticHandler serves the front-end entry point.
type StaticHandler struct {
	staticDir string
}

// NewStaticHandler creates a static handler rooted at staticDir.
func NewStaticHandler(staticDir string) *StaticHandler {
	return &StaticHandler{staticDir: staticDir}
}

// Index handles GET /. It serves static/index.html when present and a
// minimal inline page otherwise, so a misdeployed front-end fails visibly
// instead of with a 404 inside the survey iframe.
func (h *StaticHandler) Index(w http.ResponseWriter, r *http.Request) {
	index := filepath.Join(h.staticDir, "index.html")
	if _, err := os.Stat(index); err == nil {
		http.ServeFile(w, r, index)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(fallbackIndex))
}

// HasAssets reports whether the static asset directory exists.
func (h *StaticHandler) HasAssets() bool {
	info, err := os.Stat(h.staticDir)
	return err == nil && info.IsDir()
}

// Assets returns a file server for the static asset directory.
func (h *StaticHandler) Assets() http.Handler {
	return http.StripPrefix("/static/", http.FileServer(http.Dir(h.staticDir)))
}
