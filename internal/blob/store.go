// Package blob maps generated object references to local files so that dropped
// files can be handed to decoders by reference.
package blob

import (
	"errors"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Scheme prefixes every reference created by a Store.
const Scheme = "blob:"

var ErrRevoked = errors.New("blob reference revoked or unknown")

type Store struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewStore() *Store {
	return &Store{entries: make(map[string]string)}
}

// CreateObjectURL registers path and returns a fresh reference to it.
func (s *Store) CreateObjectURL(path string) string {
	ref := Scheme + uuid.NewString()
	s.mu.Lock()
	s.entries[ref] = path
	s.mu.Unlock()
	return ref
}

// Revoke forgets ref. Unknown references are ignored.
func (s *Store) Revoke(ref string) {
	s.mu.Lock()
	delete(s.entries, ref)
	s.mu.Unlock()
}

// IsRef reports whether name uses the blob scheme.
func IsRef(name string) bool {
	return strings.HasPrefix(name, Scheme)
}

// Resolve returns the filesystem path behind name. Names that are not blob
// references are returned unchanged.
func (s *Store) Resolve(name string) (string, error) {
	if !IsRef(name) {
		return name, nil
	}
	s.mu.RLock()
	path, ok := s.entries[name]
	s.mu.RUnlock()
	if !ok {
		return "", ErrRevoked
	}
	return path, nil
}

// Open resolves name and opens the underlying file.
func (s *Store) Open(name string) (io.ReadCloser, error) {
	path, err := s.Resolve(name)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}
