package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestDiskStore_SaveAndReuse(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDiskStore(dir)
	if err != nil {
		t.Fatalf("NewDiskStore failed: %v", err)
	}

	ref, err := s.Save(context.Background(), "swapped_abc.jpg", []byte("image data"), "image/jpeg")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		t.Fatalf("reading artifact back: %v", err)
	}
	if string(data) != "image data" {
		t.Errorf("artifact content mismatch: %q", data)
	}

	// Second save under the same name keeps the original bytes.
	ref2, err := s.Save(context.Background(), "swapped_abc.jpg", []byte("other data"), "image/jpeg")
	if err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	if ref2 != ref {
		t.Errorf("expected same reference for same name, got %s and %s", ref, ref2)
	}
	data, _ = os.ReadFile(ref2)
	if string(data) != "image data" {
		t.Errorf("write-once violated, content replaced: %q", data)
	}
}

func TestDiskStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "artifacts")

	if _, err := NewDiskStore(dir); err != nil {
		t.Fatalf("NewDiskStore failed: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("expected directory to be created: %v", err)
	}
}

func TestDiskStore_NoTempLeftovers(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDiskStore(dir)
	if err != nil {
		t.Fatalf("NewDiskStore failed: %v", err)
	}

	if _, err := s.Save(context.Background(), "a.jpg", []byte("x"), "image/jpeg"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading dir: %v", err)
	}
	for _, e := range entries {
		if e.Name() != "a.jpg" {
			t.Errorf("unexpected leftover file: %s", e.Name())
		}
	}
}
