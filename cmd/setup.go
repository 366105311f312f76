package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/photosphere/internal/config"
	"github.com/lehigh-university-libraries/photosphere/internal/datasets"
	"github.com/lehigh-university-libraries/photosphere/internal/explorer"
	"github.com/lehigh-university-libraries/photosphere/internal/llm"
	"github.com/lehigh-university-libraries/photosphere/internal/offline"
	"github.com/lehigh-university-libraries/photosphere/internal/storage"
	"github.com/lehigh-university-libraries/photosphere/internal/store"
)

// app bundles the collaborators every command needs
type app struct {
	cfg      config.Config
	explorer *explorer.Explorer
	blobs    *storage.BlobStore
}

func newApp(opts *rootOptions) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.provider != "" {
		cfg.Provider = opts.provider
	}
	if opts.model != "" {
		cfg.Model = opts.model
	}
	if opts.dataURL != "" {
		cfg.DataURL = opts.dataURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	service, err := llm.NewService(cfg.Provider, cfg.Model, cfg.Temperature)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM service: %w", err)
	}

	transport, err := offline.Install(cfg.CacheDir, cfg.CacheGeneration, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to install offline cache: %w", err)
	}

	blobs := storage.New("/blobs/")
	exp := explorer.New(
		store.New(),
		service,
		datasets.NewFetcher(cfg.DataURL, transport),
		blobs,
		cfg.ExplorerOptions(),
	)

	slog.Debug("Explorer configured", "provider", service.Provider(), "model", service.Model(), "data", cfg.DataURL)
	return &app{cfg: cfg, explorer: exp, blobs: blobs}, nil
}

// boot creates the app and loads the catalog
func boot(ctx context.Context, opts *rootOptions) (*app, error) {
	a, err := newApp(opts)
	if err != nil {
		return nil, err
	}
	if err := a.explorer.Init(ctx); err != nil {
		return nil, err
	}
	return a, nil
}
