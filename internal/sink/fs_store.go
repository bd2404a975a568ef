package sink

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FSStore writes files below a root directory.
type FSStore struct {
	root string
}

// NewFSStore returns a store rooted at dir. The directory is created on first write.
func NewFSStore(dir string) *FSStore {
	if dir == "" {
		dir = "."
	}
	return &FSStore{root: dir}
}

// Root returns the output directory.
func (s *FSStore) Root() string {
	return s.root
}

// Read returns the file at path, or ErrNotFound.
func (s *FSStore) Read(_ context.Context, path string) ([]byte, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full) //nolint:gosec // resolved below root
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

// Write creates parent directories and replaces the file at path.
func (s *FSStore) Write(_ context.Context, path string, content []byte) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(full, content, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (s *FSStore) resolve(path string) (string, error) {
	p, err := cleanPath(path)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(p)), nil
}
