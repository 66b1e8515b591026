package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrKeyNotFound is returned by Get for missing objects.
var ErrKeyNotFound = errors.New("object key not found")

// -----------------------------------------------------------------------------
// FSObjectStore keeps objects as files under a root directory, one file per
// key, with the slash-separated key mapped to the directory layout. It is a
// local stand-in for a bucket store with the same key scheme.
// -----------------------------------------------------------------------------

type FSObjectStore struct {
	Root string
}

func NewFSObjectStore(root string) *FSObjectStore {
	return &FSObjectStore{Root: root}
}

// -----------------------------------------------------------------------------

func (s *FSObjectStore) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
		}
		return nil, err
	}
	return data, nil
}

// -----------------------------------------------------------------------------

func (s *FSObjectStore) Put(key string, data []byte, contentType string) error {
	// contentType is kept for interface parity with bucket stores; the
	// filesystem has nowhere to record it.
	path := s.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// -----------------------------------------------------------------------------

func (s *FSObjectStore) path(key string) string {
	return filepath.Join(s.Root, filepath.FromSlash(key))
}
