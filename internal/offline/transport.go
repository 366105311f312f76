// Package offline implements a cache-first HTTP intermediary. Successful GET
// responses are stored on disk under a named cache generation and replayed
// for every later GET of the same URL; other methods pass straight through.
package offline

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
)

// DefaultGeneration names the current cache generation.
const DefaultGeneration = "photo-sphere-cache-v1"

// Transport is an http.RoundTripper serving GETs from the cache when possible.
type Transport struct {
	dir  string
	next http.RoundTripper
}

// Install prepares the cache under dir for generation, discarding every other
// generation found there, and returns the transport. A nil next uses
// http.DefaultTransport.
func Install(dir, generation string, next http.RoundTripper) (*Transport, error) {
	if generation == "" {
		generation = DefaultGeneration
	}
	if next == nil {
		next = http.DefaultTransport
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list cache directory: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == generation {
			continue
		}
		slog.Info("Clearing old cache", "generation", entry.Name())
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return nil, fmt.Errorf("failed to clear cache %s: %w", entry.Name(), err)
		}
	}

	genDir := filepath.Join(dir, generation)
	if err := os.MkdirAll(genDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache generation: %w", err)
	}

	return &Transport{dir: genDir, next: next}, nil
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return t.next.RoundTrip(req)
	}

	path := t.entryPath(req)
	if resp, ok := t.load(path, req); ok {
		slog.Debug("Serving from cache", "url", req.URL.String())
		return resp, nil
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusOK {
		if err := t.store(path, resp); err != nil {
			slog.Warn("Unable to cache response", "url", req.URL.String(), "err", err)
		}
	}

	return resp, nil
}

func (t *Transport) entryPath(req *http.Request) string {
	sum := sha256.Sum256([]byte(req.URL.String()))
	return filepath.Join(t.dir, hex.EncodeToString(sum[:]))
}

func (t *Transport) load(path string, req *http.Request) (*http.Response, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	resp, err := http.ReadResponse(bufio.NewReader(bytes.NewReader(data)), req)
	if err != nil {
		slog.Warn("Discarding unreadable cache entry", "path", path, "err", err)
		_ = os.Remove(path)
		return nil, false
	}
	return resp, true
}

// store writes the full response and leaves resp.Body readable for the caller.
func (t *Transport) store(path string, resp *http.Response) error {
	dump, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return fmt.Errorf("failed to dump response: %w", err)
	}

	tmp, err := os.CreateTemp(t.dir, ".entry-*")
	if err != nil {
		return fmt.Errorf("failed to create cache entry: %w", err)
	}
	if _, err := tmp.Write(dump); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close cache entry: %w", err)
	}

	return os.Rename(tmp.Name(), path)
}
