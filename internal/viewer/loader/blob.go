package loader

import (
	"errors"
	"fmt"
	"sync"
)

// MimeGLB is the media type of binary glTF payloads.
const MimeGLB = "model/gltf-binary"

// ErrBlobNotFound is returned when a URL is unknown or already revoked.
var ErrBlobNotFound = errors.New("blob not found")

// Blob is an in-memory binary object addressed by a temporary URL.
type Blob struct {
	Data     []byte
	MimeType string
}

// BlobStore hands out temporary blob: URLs for in-memory data.
// It is safe for concurrent use; the asset loader reads from a worker goroutine.
type BlobStore struct {
	mu    sync.Mutex
	seq   uint64
	blobs map[string]Blob
}

// NewBlobStore creates an empty store.
func NewBlobStore() *BlobStore {
	return &BlobStore{blobs: make(map[string]Blob)}
}

// CreateURL registers data and returns a URL that resolves to it until revoked.
func (s *BlobStore) CreateURL(data []byte, mimeType string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	url := fmt.Sprintf("blob:glbview/%d", s.seq)
	s.blobs[url] = Blob{Data: data, MimeType: mimeType}
	return url
}

// Open returns the blob registered for url.
func (s *BlobStore) Open(url string) (Blob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.blobs[url]
	if !ok {
		return Blob{}, fmt.Errorf("%w: %s", ErrBlobNotFound, url)
	}
	return b, nil
}

// Revoke releases url. It reports whether the URL was live.
func (s *BlobStore) Revoke(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blobs[url]; !ok {
		return false
	}
	delete(s.blobs, url)
	return true
}

// Len returns the number of live URLs.
func (s *BlobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}
