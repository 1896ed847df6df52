// Package store persists swapped images. Artifacts are addressed by a
// deterministic name chosen by the caller; writing the same name twice is
// allowed and idempotent.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Store is a write-once-per-name byte store for transform artifacts.
// Save returns an opaque reference under which the artifact can be served
// (a relative path for disk, a URL for object storage).
type Store interface {
	Save(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

// DiskStore writes artifacts into a local directory, the default backend.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create artifact directory %s: %w", dir, err)
	}
	return &DiskStore{dir: dir}, nil
}

// Save writes the artifact atomically (temp file + rename) and returns its
// path relative to the process working directory.
func (s *DiskStore) Save(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	target := filepath.Join(s.dir, name)

	// Already written under this name: the store is write-once, reuse it.
	if _, err := os.Stat(target); err == nil {
		return target, nil
	}

	tmp := filepath.Join(s.dir, ".tmp-"+uuid.NewString())
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("could not write artifact: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("could not finalize artifact %s: %w", name, err)
	}
	return target, nil
}
