package handlers

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/lehigh-university-libraries/photosphere/internal/models"
)

const maxUploadSize = 10 * 1024 * 1024

func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.writeError(w, "Failed to parse upload: "+err.Error(), http.StatusBadRequest)
		return
	}

	headers := append(r.MultipartForm.File["files"], r.MultipartForm.File["file"]...)
	if len(headers) == 0 {
		h.writeError(w, "No files uploaded", http.StatusBadRequest)
		return
	}

	uploads := make([]models.Upload, 0, len(headers))
	for _, header := range headers {
		upload, err := readUpload(header)
		if err != nil {
			h.writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		uploads = append(uploads, upload)
	}

	// Descriptions are kept even if the client goes away mid-batch.
	h.explorer.UploadImages(context.WithoutCancel(r.Context()), uploads)

	response := map[string]any{
		"message": fmt.Sprintf("Successfully uploaded %d image(s)", len(uploads)),
		"images":  len(uploads),
		"state":   h.explorer.Snapshot(),
	}
	h.writeJSON(w, response)
}

func readUpload(header *multipart.FileHeader) (models.Upload, error) {
	file, err := header.Open()
	if err != nil {
		return models.Upload{}, fmt.Errorf("failed to read file %s: %w", header.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		return models.Upload{}, fmt.Errorf("failed to read file contents %s: %w", header.Filename, err)
	}
	if len(data) > maxUploadSize {
		return models.Upload{}, fmt.Errorf("file %s too large (max 10MB)", header.Filename)
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return models.Upload{}, fmt.Errorf("file %s is not an image (%s)", header.Filename, contentType)
	}

	return models.Upload{
		Name:        header.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}
