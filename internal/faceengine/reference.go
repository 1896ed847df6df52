package faceengine

import (
	"context"
	"fmt"
	"os"
	"sync"
)

// ReferenceLoader prepares the process-wide reference face: the image is
// read from disk and run through detection exactly once, then reused by
// every transform. Initialization is single-flight — concurrent callers
// wait for the first load instead of duplicating work — and a failed load
// is retried on the next call rather than cached.
type ReferenceLoader struct {
	path   string
	engine Engine

	mu     sync.Mutex
	loaded *ReferenceFace
}

func NewReferenceLoader(path string, engine Engine) *ReferenceLoader {
	return &ReferenceLoader{path: path, engine: engine}
}

// Get returns the shared reference face, loading it on first use.
func (l *ReferenceLoader) Get(ctx context.Context) (*ReferenceFace, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.loaded != nil {
		return l.loaded, nil
	}

	image, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("could not read reference face %s: %w", l.path, err)
	}

	faces, err := l.engine.DetectFaces(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("could not detect reference face: %w", err)
	}
	if len(faces) == 0 {
		return nil, fmt.Errorf("no face detected in reference image %s", l.path)
	}

	l.loaded = &ReferenceFace{Image: image, Face: faces[0]}
	return l.loaded, nil
}
