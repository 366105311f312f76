package images

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/photosphere/internal/models"
)

// MaxSize is the largest image accepted from a local path or URL.
const MaxSize = 10 * 1024 * 1024

// Fetcher turns local paths and image URLs into uploads
type Fetcher struct {
	HTTPClient *http.Client
}

// NewFetcher creates a new image fetcher
func NewFetcher() *Fetcher {
	return &Fetcher{
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Load reads source, either a file path or an http(s) URL, into an upload.
// The content must sniff as an image.
func (f *Fetcher) Load(ctx context.Context, source string) (models.Upload, error) {
	var (
		name string
		data []byte
		err  error
	)
	if IsURL(source) {
		name, data, err = f.download(ctx, source)
	} else {
		name = filepath.Base(source)
		data, err = readFile(source)
	}
	if err != nil {
		return models.Upload{}, err
	}

	if len(data) == 0 {
		return models.Upload{}, fmt.Errorf("image %s is empty", source)
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return models.Upload{}, fmt.Errorf("%s is not an image (%s)", source, contentType)
	}

	return models.Upload{Name: name, ContentType: contentType, Data: data}, nil
}

// LoadAll loads every source, stopping at the first failure
func (f *Fetcher) LoadAll(ctx context.Context, sources []string) ([]models.Upload, error) {
	uploads := make([]models.Upload, 0, len(sources))
	for _, source := range sources {
		upload, err := f.Load(ctx, source)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, upload)
	}
	return uploads, nil
}

func (f *Fetcher) download(ctx context.Context, rawURL string) (string, []byte, error) {
	slog.Info("Downloading image", "url", rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("image URL returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxSize+1))
	if err != nil {
		return "", nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if len(data) > MaxSize {
		return "", nil, fmt.Errorf("image %s too large (max 10MB)", rawURL)
	}

	return nameFromURL(rawURL), data, nil
}

func readFile(p string) ([]byte, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if info.Size() > MaxSize {
		return nil, fmt.Errorf("image %s too large (max 10MB)", p)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return data, nil
}

// IsURL reports whether source should be downloaded rather than read from disk
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func nameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "image"
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return "image"
	}
	return name
}
