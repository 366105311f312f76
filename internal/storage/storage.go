package storage

import (
	"net/url"
	"sync"
)

// Blob is an uploaded file kept in memory for the lifetime of the process
type Blob struct {
	ContentType string
	Data        []byte
}

// BlobStore hands out local reference URLs for uploaded files. Nothing it
// holds survives a restart.
type BlobStore struct {
	blobs  map[string]Blob
	prefix string
	mu     sync.RWMutex
}

// New creates a blob store whose URLs start with prefix (for example "/blobs/")
func New(prefix string) *BlobStore {
	return &BlobStore{
		blobs:  make(map[string]Blob),
		prefix: prefix,
	}
}

// Put stores the blob under id and returns its reference URL
func (s *BlobStore) Put(id string, blob Blob) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[id] = blob
	return s.prefix + url.PathEscape(id)
}

func (s *BlobStore) Get(id string) (Blob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blob, exists := s.blobs[id]
	return blob, exists
}

func (s *BlobStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, id)
}

// Len returns the number of stored blobs
func (s *BlobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
