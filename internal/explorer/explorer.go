// Package explorer implements the actions that drive the image explorer: the
// one-time bootstrap, natural-language queries, concurrent uploads, layout
// switches and the selection/sidebar state machine.
//
// Every action reads and mutates the shared store.Store only through
// Snapshot and Update. Actions may be in flight concurrently; each one keeps
// its own mutations self-consistent and never holds the store across a
// backend call.
package explorer

import (
	"context"
	"errors"
	"time"

	"github.com/lehigh-university-libraries/photosphere/internal/models"
	"github.com/lehigh-university-libraries/photosphere/internal/prompts"
	"github.com/lehigh-university-libraries/photosphere/internal/storage"
	"github.com/lehigh-university-libraries/photosphere/internal/store"
)

// DefaultStorageRoot is prepended to dataset image ids to form their public URL.
const DefaultStorageRoot = "https://www.gstatic.com/aistudio/starter-apps/photosphere/"

var (
	ErrCatalogNotLoaded  = errors.New("catalog not loaded")
	ErrUnknownImage      = errors.New("unknown image")
	ErrMalformedResponse = errors.New("malformed query response")
)

// Backend is the natural-language service behind queries and uploads.
type Backend interface {
	QueryLLM(ctx context.Context, prompt string) (string, error)
	GenerateDescription(ctx context.Context, file models.Upload) (string, error)
}

// DatasetSource fetches a named bootstrap dataset and decodes it into v.
type DatasetSource interface {
	FetchDataset(ctx context.Context, name string, v any) error
}

// BlobSink keeps uploaded bytes and returns a local reference URL for them.
type BlobSink interface {
	Put(id string, blob storage.Blob) string
}

// PromptBuilder renders the query prompt from the catalog.
type PromptBuilder func(images []models.ImageRecord, query string) string

// Options tune an Explorer. The zero value is usable.
type Options struct {
	StorageRoot string
	Prompt      PromptBuilder

	// BackendTimeout bounds each backend call; zero means no bound.
	BackendTimeout time.Duration

	// UploadConcurrency caps concurrent description requests; zero means one per file.
	UploadConcurrency int

	// SurfaceParseErrors makes SendQuery return ErrMalformedResponse instead of
	// only logging it.
	SurfaceParseErrors bool
}

// Explorer owns the store and the collaborators every action needs.
type Explorer struct {
	store    *store.Store
	backend  Backend
	datasets DatasetSource
	blobs    BlobSink
	opts     Options
}

// New wires an Explorer. A nil blobs uses an in-memory storage.BlobStore
// serving under "/blobs/".
func New(s *store.Store, backend Backend, datasets DatasetSource, blobs BlobSink, opts Options) *Explorer {
	if opts.StorageRoot == "" {
		opts.StorageRoot = DefaultStorageRoot
	}
	if opts.Prompt == nil {
		opts.Prompt = prompts.QueryPrompt
	}
	if blobs == nil {
		blobs = storage.New("/blobs/")
	}
	return &Explorer{
		store:    s,
		backend:  backend,
		datasets: datasets,
		blobs:    blobs,
		opts:     opts,
	}
}

// Store returns the store the explorer mutates.
func (e *Explorer) Store() *store.Store {
	return e.store
}

// Snapshot is shorthand for e.Store().Snapshot().
func (e *Explorer) Snapshot() store.State {
	return e.store.Snapshot()
}

func (e *Explorer) backendContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.opts.BackendTimeout > 0 {
		return context.WithTimeout(ctx, e.opts.BackendTimeout)
	}
	return context.WithCancel(ctx)
}
