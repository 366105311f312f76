package datasets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Names of the bootstrap datasets.
const (
	Meta     = "meta"
	Sphere   = "sphere"
	UMAPGrid = "umap-grid"
)

// MetaEntry is one entry of the image metadata dataset
type MetaEntry struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// Fetcher retrieves named JSON datasets from a base URL or a local directory
type Fetcher struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewFetcher creates a fetcher. A nil transport uses http.DefaultTransport.
func NewFetcher(baseURL string, transport http.RoundTripper) *Fetcher {
	return &Fetcher{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

// FetchDataset decodes the dataset <name>.json into v
func (f *Fetcher) FetchDataset(ctx context.Context, name string, v any) error {
	body, err := f.open(ctx, name+".json")
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode dataset %s: %w", name, err)
	}

	slog.Debug("Fetched dataset", "name", name, "base", f.BaseURL)
	return nil
}

func (f *Fetcher) open(ctx context.Context, file string) (io.ReadCloser, error) {
	if !isRemote(f.BaseURL) {
		fh, err := os.Open(filepath.Join(f.BaseURL, file))
		if err != nil {
			return nil, fmt.Errorf("failed to open dataset: %w", err)
		}
		return fh, nil
	}

	url := strings.TrimSuffix(f.BaseURL, "/") + "/" + file
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dataset: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("dataset %s returned status %d", url, resp.StatusCode)
	}

	return resp.Body, nil
}

func isRemote(base string) bool {
	return strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://")
}
