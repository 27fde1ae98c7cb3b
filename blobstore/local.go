package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

// LocalStore implements Store on the local file system.
type LocalStore struct {
	root string
}

// NewLocalStore creates a LocalStore rooted at the given directory.
// An empty root resolves names relative to the working directory.
func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

func (s *LocalStore) path(name string) string {
	if s.root == "" {
		return name
	}
	return filepath.Join(s.root, name)
}

// Open opens a file for reading.
func (s *LocalStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	return os.Open(s.path(name)) //nolint:gosec // G304: Path is configurable
}

// Create creates or truncates a file for writing, creating parent
// directories as needed.
func (s *LocalStore) Create(_ context.Context, name string) (io.WriteCloser, error) {
	path := s.path(name)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, err
		}
	}
	return os.Create(path) //nolint:gosec // G304: Path is configurable
}
