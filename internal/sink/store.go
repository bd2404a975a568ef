// Package sink renders route results and writes them to a Store.
package sink

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
)

// ErrNotFound is returned by Store.Read when no file exists at the path.
var ErrNotFound = errors.New("file not found")

// Store persists rendered files under slash-separated relative paths.
type Store interface {
	Read(ctx context.Context, path string) ([]byte, error)
	Write(ctx context.Context, path string, content []byte) error
}

// MemoryStore keeps files in memory. It backs dry runs and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Read returns a copy of the file at path.
func (s *MemoryStore) Read(_ context.Context, path string) ([]byte, error) {
	key, err := cleanPath(path)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), raw...), nil
}

// Write stores a copy of content at path.
func (s *MemoryStore) Write(_ context.Context, path string, content []byte) error {
	key, err := cleanPath(path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), content...)
	return nil
}

// Paths returns the stored paths in sorted order.
func (s *MemoryStore) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.data))
	for key := range s.data {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// cleanPath normalizes a route path and rejects paths that leave the output root.
func cleanPath(p string) (string, error) {
	trimmed := strings.TrimLeft(strings.TrimSpace(p), "/")
	if trimmed == "" {
		return "", fmt.Errorf("path is required")
	}
	clean := path.Clean(trimmed)
	if clean == "." {
		return "", fmt.Errorf("path %q names the output directory itself", p)
	}
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("path %q escapes the output directory", p)
	}
	return clean, nil
}
