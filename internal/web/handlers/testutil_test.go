package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/memeforge/memeforge/internal/cache"
	"github.com/memeforge/memeforge/internal/faceengine"
	"github.com/memeforge/memeforge/internal/store"
	"github.com/memeforge/memeforge/internal/swap"
)

// decodeBody decodes a JSON response body into target.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(target); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
}

// newTestCache builds an in-memory cache backed by a canned regeneration.
func newTestCache(t *testing.T, regenerate cache.RegenerateFunc) *cache.Cache {
	t.Helper()
	if regenerate == nil {
		regenerate = func(ctx context.Context) ([]cache.Meme, error) {
			return []cache.Meme{{Artifact: "swapped_test.jpg", Title: "test meme"}}, nil
		}
	}
	return cache.New(cache.NewMemoryBackend(), regenerate, cache.Options{
		TTL:         time.Hour,
		Wait:        true,
		WaitTimeout: 5 * time.Second,
	})
}

// fixtureJPEG renders a solid white JPEG.
func fixtureJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	return buf.Bytes()
}

// stubEngine finds one centered qualifying face in any decodable image.
type stubEngine struct{}

func (stubEngine) DetectFaces(ctx context.Context, img []byte) ([]faceengine.Detection, error) {
	decoded, _, err := image.Decode(bytes.NewReader(img))
	if err != nil {
		// Reference fixture bytes.
		return []faceengine.Detection{{Confidence: 0.99}}, nil
	}
	bounds := decoded.Bounds()
	side := min(bounds.Dx(), bounds.Dy()) / 2
	return []faceengine.Detection{{
		BBox:       faceengine.BoundingBox{X2: side, Y2: side},
		Confidence: 0.9,
	}}, nil
}

func (stubEngine) SwapFace(ctx context.Context, target []byte, face faceengine.Detection, source *faceengine.ReferenceFace) ([]byte, error) {
	return target, nil
}

// newTestTransformer wires a transformer with the stub engine and a temp
// disk store.
func newTestTransformer(t *testing.T) *swap.Transformer {
	t.Helper()

	refPath := filepath.Join(t.TempDir(), "reference.bin")
	if err := os.WriteFile(refPath, []byte("reference fixture"), 0o644); err != nil {
		t.Fatalf("writing reference fixture: %v", err)
	}

	artifacts, err := store.NewDiskStore(filepath.Join(t.TempDir(), "artifacts"))
	if err != nil {
		t.Fatalf("creating artifact store: %v", err)
	}

	engine := stubEngine{}
	return swap.NewTransformer(engine, faceengine.NewReferenceLoader(refPath, engine), artifacts, swap.TransformerOptions{})
}

// newImageServer serves the given bytes for every request.
func newImageServer(t *testing.T, img []byte) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(img)
	}))
	t.Cleanup(server.Close)
	return server
}
