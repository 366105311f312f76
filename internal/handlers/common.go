package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/lehigh-university-libraries/photosphere/internal/explorer"
	"github.com/lehigh-university-libraries/photosphere/internal/storage"
)

// Handler serves the explorer API, uploaded blobs and static files
type Handler struct {
	explorer  *explorer.Explorer
	blobs     *storage.BlobStore
	staticDir string
}

// New creates a handler over the explorer and its blob store
func New(exp *explorer.Explorer, blobs *storage.BlobStore, staticDir string) *Handler {
	return &Handler{
		explorer:  exp,
		blobs:     blobs,
		staticDir: staticDir,
	}
}

// Routes registers every endpoint on a new mux
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/state", h.HandleState)
	mux.HandleFunc("/api/query", h.HandleQuery)
	mux.HandleFunc("/api/upload", h.HandleUpload)
	mux.HandleFunc("/api/layout", h.HandleLayout)
	mux.HandleFunc("/api/layout/sphere", h.HandleSphereLayout)
	mux.HandleFunc("/api/select", h.HandleSelect)
	mux.HandleFunc("/api/sidebar", h.HandleSidebar)
	mux.HandleFunc("/api/sidebar/toggle", h.HandleSidebarToggle)
	mux.HandleFunc("/api/xray", h.HandleXRay)
	mux.HandleFunc("/blobs/", h.HandleBlob)
	mux.HandleFunc("/", h.HandleStatic)
	mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
	return mux
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

func (h *Handler) writeState(w http.ResponseWriter) {
	h.writeJSON(w, h.explorer.Snapshot())
}

func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}
