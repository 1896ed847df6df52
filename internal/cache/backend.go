package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Backend persists snapshots between process restarts. Implementations
// must be safe for concurrent use.
type Backend interface {
	// Load returns the stored snapshot, or nil when none exists.
	Load() (*Snapshot, error)
	Store(s *Snapshot) error
	Clear() error
}

// MemoryBackend keeps the snapshot in process memory only.
type MemoryBackend struct {
	mu       sync.RWMutex
	snapshot *Snapshot
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (m *MemoryBackend) Load() (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot, nil
}

func (m *MemoryBackend) Store(s *Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = s
	return nil
}

func (m *MemoryBackend) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = nil
	return nil
}

// FileBackend stores the snapshot as JSON on disk so a restart can serve
// the previous batch immediately. Writes go through a temp file and
// rename so readers never see a torn snapshot.
type FileBackend struct {
	mu   sync.Mutex
	path string
}

func NewFileBackend(path string) (*FileBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("could not create cache directory: %w", err)
	}
	return &FileBackend{path: path}, nil
}

func (f *FileBackend) Load() (*Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not read cache file: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("could not parse cache file: %w", err)
	}
	return &snapshot, nil
}

func (f *FileBackend) Store(s *Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("could not serialize snapshot: %w", err)
	}

	tmp := filepath.Join(filepath.Dir(f.path), ".tmp-"+uuid.NewString())
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("could not write cache file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("could not replace cache file: %w", err)
	}
	return nil
}

func (f *FileBackend) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not remove cache file: %w", err)
	}
	return nil
}
