// SPDX-License-Identifier: EPL-2.0

// Package blob keeps encoded outputs addressable by URL until they are
// revoked, the way object URLs work in a browser.
package blob

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// URLPrefix starts every URL handed out by MemoryStore.
const URLPrefix = "blob:audconv/"

var (
	ErrNotFound = errors.New("blob not found or revoked")
	ErrEmpty    = errors.New("blob has no MIME type")
)

// Blob is an immutable encoded file.
type Blob struct {
	MIME string `msgpack:"mime"`
	Data []byte `msgpack:"data"`
}

// Size in bytes.
func (b Blob) Size() int { return len(b.Data) }

// Store maps URLs to blobs.
type Store interface {
	Create(b Blob) (string, error)
	Open(url string) (Blob, error)
	Revoke(url string)
}

// MemoryStore is a Store held in memory. The zero value is not usable, use
// NewMemoryStore.
type MemoryStore struct {
	mtx   sync.RWMutex
	blobs map[string]Blob
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string]Blob)}
}

// Create registers b under a fresh URL.
func (s *MemoryStore) Create(b Blob) (string, error) {
	if b.MIME == "" {
		return "", ErrEmpty
	}

	url := URLPrefix + uuid.NewString()

	s.mtx.Lock()
	s.blobs[url] = b
	s.mtx.Unlock()

	return url, nil
}

func (s *MemoryStore) Open(url string) (Blob, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	b, ok := s.blobs[url]
	if !ok {
		return Blob{}, ErrNotFound
	}

	return b, nil
}

// Revoke forgets url. Unknown URLs are ignored.
func (s *MemoryStore) Revoke(url string) {
	s.mtx.Lock()
	delete(s.blobs, url)
	s.mtx.Unlock()
}

// Len is the number of live URLs.
func (s *MemoryStore) Len() int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return len(s.blobs)
}

// IsURL reports whether url has the shape of a MemoryStore URL.
func IsURL(url string) bool {
	id, ok := strings.CutPrefix(url, URLPrefix)
	if !ok {
		return false
	}

	_, err := uuid.Parse(id)

	return err == nil
}
