package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
)

func (h *Handler) HandleBlob(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := url.PathUnescape(strings.TrimPrefix(r.URL.EscapedPath(), "/blobs/"))
	if err != nil {
		h.writeError(w, "Invalid blob id", http.StatusBadRequest)
		return
	}

	blob, ok := h.blobs.Get(id)
	if !ok {
		h.writeError(w, "Blob not found", http.StatusNotFound)
		return
	}

	if blob.ContentType != "" {
		w.Header().Set("Content-Type", blob.ContentType)
	}
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(blob.Data); err != nil {
		slog.Error("Unable to write blob", "id", id, "err", err)
	}
}

func (h *Handler) HandleStatic(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/")
	if path == "" {
		path = "index.html"
	}

	// Prevent directory traversal attacks
	if strings.Contains(path, "..") {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}

	// Set appropriate content type based on file extension
	switch {
	case strings.HasSuffix(path, ".css"):
		w.Header().Set("Content-Type", "text/css")
	case strings.HasSuffix(path, ".js"):
		w.Header().Set("Content-Type", "application/javascript")
	case strings.HasSuffix(path, ".json"):
		w.Header().Set("Content-Type", "application/json")
	case strings.HasSuffix(path, ".html"):
		w.Header().Set("Content-Type", "text/html")
	}

	http.ServeFile(w, r, filepath.Join(h.staticDir, path))
}
