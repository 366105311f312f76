package explorer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/photosphere/internal/datasets"
	"github.com/lehigh-university-libraries/photosphere/internal/layout"
	"github.com/lehigh-university-libraries/photosphere/internal/models"
	"github.com/lehigh-university-libraries/photosphere/internal/store"
	"golang.org/x/sync/errgroup"
)

// Init loads the base datasets and establishes the initial catalog and layouts.
// Only the first call does any work; later calls return nil immediately, even
// when the first one failed.
func (e *Explorer) Init(ctx context.Context) error {
	first := false
	e.store.Update(func(s *store.State) {
		if s.DidInit {
			return
		}
		s.DidInit = true
		s.IsFetching = true
		first = true
	})
	if !first {
		slog.Debug("Bootstrap already ran, skipping")
		return nil
	}
	defer e.store.Update(func(s *store.State) {
		s.IsFetching = false
	})

	var (
		meta   []datasets.MetaEntry
		sphere map[string][]float64
		grid   map[string][]float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return e.datasets.FetchDataset(gctx, datasets.Meta, &meta) })
	g.Go(func() error { return e.datasets.FetchDataset(gctx, datasets.Sphere, &sphere) })
	g.Go(func() error { return e.datasets.FetchDataset(gctx, datasets.UMAPGrid, &grid) })
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to fetch bootstrap datasets: %w", err)
	}

	spherePositions, err := toVec3(sphere)
	if err != nil {
		return fmt.Errorf("invalid %s dataset: %w", datasets.Sphere, err)
	}
	flat, err := toVec2(grid)
	if err != nil {
		return fmt.Errorf("invalid %s dataset: %w", datasets.UMAPGrid, err)
	}

	images := make([]models.ImageRecord, 0, len(meta))
	seen := make(map[string]bool, len(meta))
	for _, entry := range meta {
		if entry.ID == "" || seen[entry.ID] {
			slog.Warn("Skipping metadata entry", "id", entry.ID, "reason", "empty or duplicate id")
			continue
		}
		seen[entry.ID] = true
		images = append(images, models.ImageRecord{
			ID:          entry.ID,
			Description: models.ReadyDescription(entry.Description),
			URL:         e.opts.StorageRoot + entry.ID,
		})
	}

	e.store.Update(func(s *store.State) {
		s.Images = images
		s.Layouts = models.LayoutTable{
			models.LayoutSphere: spherePositions,
			models.LayoutGrid:   layout.ResolveGrid(flat),
		}
		s.NodePositions = make(models.Positions, len(images))
		for _, img := range images {
			s.NodePositions[img.ID] = layout.Midpoint
		}
	})

	if err := e.SetLayout(models.LayoutSphere); err != nil {
		return err
	}

	slog.Info("Catalog loaded", "images", len(images), "sphere", len(spherePositions), "grid", len(flat))
	return nil
}

func toVec3(raw map[string][]float64) (models.Positions, error) {
	positions := make(models.Positions, len(raw))
	for id, coords := range raw {
		if len(coords) != 3 {
			return nil, fmt.Errorf("%s: expected 3 coordinates, got %d", id, len(coords))
		}
		positions[id] = models.Vec3{coords[0], coords[1], coords[2]}
	}
	return positions, nil
}

func toVec2(raw map[string][]float64) (map[string][2]float64, error) {
	flat := make(map[string][2]float64, len(raw))
	for id, coords := range raw {
		if len(coords) != 2 {
			return nil, fmt.Errorf("%s: expected 2 coordinates, got %d", id, len(coords))
		}
		flat[id] = [2]float64{coords[0], coords[1]}
	}
	return flat, nil
}
