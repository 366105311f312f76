package explorer

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/photosphere/internal/layout"
	"github.com/lehigh-university-libraries/photosphere/internal/models"
	"github.com/lehigh-university-libraries/photosphere/internal/storage"
	"github.com/lehigh-university-libraries/photosphere/internal/store"
)

// UploadImages adds files to the catalog and describes each one concurrently.
//
// Every file gets a placeholder record at the front of the catalog right away;
// its description is then filled in by the backend or marked failed. A failing
// file never affects its siblings. UploadImages returns once every file has
// settled. An empty batch is a no-op.
func (e *Explorer) UploadImages(ctx context.Context, files []models.Upload) {
	n := len(files)
	if n == 0 {
		return
	}

	e.store.Update(func(s *store.State) {
		s.IsFetching = true
		s.Caption = fmt.Sprintf("Uploading %d image%s...", n, plural(n))
	})

	limit := e.opts.UploadConcurrency
	if limit <= 0 || limit > n {
		limit = n
	}
	sem := make(chan struct{}, limit)

	var wg sync.WaitGroup
	for _, file := range files {
		wg.Add(1)
		go func(file models.Upload) {
			defer wg.Done()
			e.uploadOne(ctx, file, sem)
		}(file)
	}
	wg.Wait()

	e.store.Update(func(s *store.State) {
		s.IsFetching = false
		s.Caption = fmt.Sprintf("Successfully added %d new image%s.", n, plural(n))
	})
	slog.Info("Upload batch settled", "files", n)
}

func (e *Explorer) uploadOne(ctx context.Context, file models.Upload, sem chan struct{}) {
	id := newUploadID(file.Name)
	pos := layout.RandomPosition()
	e.store.Update(func(s *store.State) {
		for s.HasImage(id) {
			id = newUploadID(file.Name)
		}
		url := e.blobs.Put(id, storage.Blob{ContentType: file.ContentType, Data: file.Data})
		placeholder := models.ImageRecord{
			ID:          id,
			Description: models.PendingDescription(),
			URL:         url,
		}
		s.Images = append([]models.ImageRecord{placeholder}, s.Images...)
		layout.Place(s, id, pos)
	})

	description, err := e.describe(ctx, file, sem)

	e.store.Update(func(s *store.State) {
		i := s.ImageIndex(id)
		if i < 0 || s.Images[i].Description.State != models.DescriptionPending {
			return
		}
		if err != nil {
			s.Images[i].Description = models.FailedDescriptionFor(err.Error())
			return
		}
		s.Images[i].Description = models.ReadyDescription(description)
	})

	if err != nil {
		slog.Error("Failed to generate description", "id", id, "file", file.Name, "err", err)
		return
	}
	slog.Debug("Upload described", "id", id, "file", file.Name)
}

func (e *Explorer) describe(ctx context.Context, file models.Upload, sem chan struct{}) (string, error) {
	select {
	case sem <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	defer func() { <-sem }()

	callCtx, cancel := e.backendContext(ctx)
	defer cancel()
	return e.backend.GenerateDescription(callCtx, file)
}

func newUploadID(name string) string {
	base := strings.TrimSpace(filepath.Base(name))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "image"
	}
	return "local-" + uuid.NewString() + "-" + base
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
