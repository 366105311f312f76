package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/lehigh-university-libraries/photosphere/internal/explorer"
	"github.com/lehigh-university-libraries/photosphere/internal/layout"
	"github.com/lehigh-university-libraries/photosphere/internal/models"
)

func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		h.writeState(w)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "POST":
		var request struct {
			Query string `json:"query"`
		}
		if !h.decodeJSON(w, r, &request) {
			return
		}
		if strings.TrimSpace(request.Query) == "" {
			h.writeError(w, "query is required", http.StatusBadRequest)
			return
		}

		err := h.explorer.SendQuery(r.Context(), request.Query)
		switch {
		case errors.Is(err, explorer.ErrCatalogNotLoaded):
			h.writeError(w, err.Error(), http.StatusConflict)
			return
		case err != nil:
			h.writeError(w, "Query failed: "+err.Error(), http.StatusBadGateway)
			return
		}
		h.writeState(w)
	case "DELETE":
		h.explorer.ClearQuery()
		h.writeState(w)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) HandleLayout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "PUT" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request struct {
		Layout string `json:"layout"`
	}
	if !h.decodeJSON(w, r, &request) {
		return
	}

	name, err := models.ParseLayoutName(request.Layout)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.explorer.SetLayout(name); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, layout.ErrUnknownLayout) {
			code = http.StatusConflict
		}
		h.writeError(w, err.Error(), code)
		return
	}
	h.writeState(w)
}

func (h *Handler) HandleSphereLayout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "PUT" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var positions models.Positions
	if !h.decodeJSON(w, r, &positions) {
		return
	}
	h.explorer.SetSphereLayout(positions)
	h.writeState(w)
}

func (h *Handler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request struct {
		ID string `json:"id"`
	}
	if !h.decodeJSON(w, r, &request) {
		return
	}
	if err := h.explorer.SelectImage(request.ID); err != nil {
		h.writeError(w, err.Error(), http.StatusNotFound)
		return
	}
	h.writeState(w)
}

func (h *Handler) HandleSidebar(w http.ResponseWriter, r *http.Request) {
	if r.Method != "PUT" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request struct {
		Open bool `json:"open"`
	}
	if !h.decodeJSON(w, r, &request) {
		return
	}
	h.explorer.SetSidebarOpen(request.Open)
	h.writeState(w)
}

func (h *Handler) HandleSidebarToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.explorer.ToggleSidebar()
	h.writeState(w)
}

func (h *Handler) HandleXRay(w http.ResponseWriter, r *http.Request) {
	if r.Method != "PUT" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request struct {
		Enabled bool `json:"enabled"`
	}
	if !h.decodeJSON(w, r, &request) {
		return
	}
	h.explorer.SetXRayMode(request.Enabled)
	h.writeState(w)
}
