package swap

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/memeforge/memeforge/internal/faceengine"
	"github.com/memeforge/memeforge/internal/guidance"
	"github.com/memeforge/memeforge/internal/store"
	"github.com/memeforge/memeforge/internal/trends"
)

const (
	// Detection is resolution-sensitive in both directions: very large
	// images and very small crops both hurt recall. When nothing is found
	// at native resolution the image is downscaled and detection retried,
	// first to the large tier, then to the small one.
	detectRetryLargePx = 1920
	detectRetrySmallPx = 800

	downloadTimeout  = 15 * time.Second
	maxDownloadBytes = 20 << 20 // 20MB
)

// FaceGuide narrows the set of faces to swap, typically backed by a
// vision LLM. A nil guide (or a guide error) means swap every
// qualifying face.
type FaceGuide interface {
	GuideSwap(ctx context.Context, imageData []byte, faceCount int) (*guidance.Guidance, error)
}

// TransformerOptions configures a Transformer.
type TransformerOptions struct {
	UserAgent string
	Dedup     *DupFilter // optional perceptual duplicate rejection
	Guide     FaceGuide  // optional LLM face selection
}

// Transformer runs one candidate through the quality-gated face swap:
// acquire, detect (with resolution-retry), gate, swap, persist. A failure
// for one candidate never aborts processing of others; every exit path is
// a typed Result.
type Transformer struct {
	engine    faceengine.Engine
	reference *faceengine.ReferenceLoader
	artifacts store.Store
	client    *http.Client
	opts      TransformerOptions
}

func NewTransformer(engine faceengine.Engine, reference *faceengine.ReferenceLoader, artifacts store.Store, opts TransformerOptions) *Transformer {
	if opts.UserAgent == "" {
		opts.UserAgent = "memeforge/1.0"
	}
	return &Transformer{
		engine:    engine,
		reference: reference,
		artifacts: artifacts,
		client:    &http.Client{Timeout: downloadTimeout},
		opts:      opts,
	}
}

// Transform processes a single candidate and returns a typed result.
// Unexpected panics are caught and mapped to OutcomeTransformError so a
// bad candidate cannot take down a batch.
func (t *Transformer) Transform(ctx context.Context, cand trends.Candidate) (result Result) {
	result = Result{Candidate: cand}
	defer func() {
		if r := recover(); r != nil {
			result.Outcome = OutcomeTransformError
			result.Err = fmt.Errorf("panic during transform: %v", r)
		}
	}()

	reference, err := t.reference.Get(ctx)
	if err != nil {
		result.Outcome = OutcomeTransformError
		result.Err = fmt.Errorf("reference face unavailable: %w", err)
		return result
	}

	// Acquire.
	imgData, err := t.download(ctx, cand.URL)
	if err != nil {
		result.Outcome = OutcomeSourceUnavailable
		result.Err = err
		return result
	}

	decoded, width, height, err := decodeImage(imgData)
	if err != nil {
		result.Outcome = OutcomeSourceUnavailable
		result.Err = err
		return result
	}

	if t.opts.Dedup != nil && t.opts.Dedup.IsDuplicate(decoded) {
		result.Outcome = OutcomeDuplicateImage
		return result
	}

	// Detect, retrying at lower resolutions when nothing is found.
	imgData, width, height, faces, err := t.detectWithRetry(ctx, imgData, width, height)
	if err != nil {
		result.Outcome = OutcomeTransformError
		result.Err = err
		return result
	}
	if len(faces) == 0 {
		result.Outcome = OutcomeNoFaceDetected
		return result
	}

	// Gate.
	qualifying := FilterQualifying(faces, width, height)
	if len(qualifying) == 0 {
		result.Outcome = OutcomeNoQualifyingFace
		return result
	}

	qualifying = t.guideSelection(ctx, imgData, qualifying)

	// Swap each qualifying face, compositing onto the previous output so
	// multiple faces in one image each receive the swap cumulatively.
	output := imgData
	for _, face := range qualifying {
		output, err = t.engine.SwapFace(ctx, output, face, reference)
		if err != nil {
			result.Outcome = OutcomeTransformError
			result.Err = fmt.Errorf("swap failed: %w", err)
			return result
		}
	}

	// Persist.
	artifact, err := t.artifacts.Save(ctx, ArtifactName(cand.ID, cand.URL), output, "image/jpeg")
	if err != nil {
		result.Outcome = OutcomeTransformError
		result.Err = fmt.Errorf("could not persist artifact: %w", err)
		return result
	}

	result.Outcome = OutcomeSuccess
	result.Artifact = artifact
	return result
}

// TransformURL transforms an arbitrary image URL outside the trend flow
// (custom swaps). The candidate identity is derived from the URL so the
// artifact name stays deterministic.
func (t *Transformer) TransformURL(ctx context.Context, url string) Result {
	sum := sha256.Sum256([]byte(url))
	return t.Transform(ctx, trends.Candidate{
		ID:        hex.EncodeToString(sum[:8]),
		URL:       url,
		FetchedAt: time.Now().UTC(),
	})
}

// guideSelection asks the configured guide which faces to swap. Guide
// failures never fail the transform; the full set is kept.
func (t *Transformer) guideSelection(ctx context.Context, imgData []byte, faces []faceengine.Detection) []faceengine.Detection {
	if t.opts.Guide == nil || len(faces) < 2 {
		return faces
	}

	guide, err := t.opts.Guide.GuideSwap(ctx, imgData, len(faces))
	if err != nil {
		log.Printf("swap: face guidance unavailable, swapping all faces: %v", err)
		return faces
	}

	selected := make([]faceengine.Detection, 0, len(guide.FaceIndexes))
	for _, idx := range guide.FaceIndexes {
		selected = append(selected, faces[idx])
	}
	return selected
}

// detectWithRetry runs detection at native resolution, then at the large
// and small tiers when nothing is found and the image is big enough for
// downscaling to plausibly help. When a retry tier finds faces, the scaled
// image replaces the original for the rest of the pipeline so bounding
// boxes stay in the right coordinate space.
func (t *Transformer) detectWithRetry(ctx context.Context, imgData []byte, width, height int) ([]byte, int, int, []faceengine.Detection, error) {
	faces, err := t.engine.DetectFaces(ctx, imgData)
	if err != nil {
		return nil, 0, 0, nil, fmt.Errorf("detection failed: %w", err)
	}

	longest := max(width, height)
	for _, tier := range []int{detectRetryLargePx, detectRetrySmallPx} {
		if len(faces) > 0 || longest <= tier {
			continue
		}

		scaled, scaledW, scaledH, err := resizeToFit(imgData, tier)
		if err != nil {
			return nil, 0, 0, nil, fmt.Errorf("could not downscale for retry: %w", err)
		}

		faces, err = t.engine.DetectFaces(ctx, scaled)
		if err != nil {
			return nil, 0, 0, nil, fmt.Errorf("detection retry failed: %w", err)
		}
		if len(faces) > 0 {
			imgData, width, height = scaled, scaledW, scaledH
		}
	}

	return imgData, width, height, faces, nil
}

func (t *Transformer) download(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("User-Agent", t.opts.UserAgent)
	req.Header.Set("Accept", "image/webp,image/apng,image/*,*/*;q=0.8")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image download failed with status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes))
	if err != nil {
		return nil, fmt.Errorf("could not read image body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("image download returned empty body")
	}
	return data, nil
}

// ArtifactName derives a deterministic, collision-resistant artifact name
// from the candidate identity and source URL.
func ArtifactName(id, rawURL string) string {
	base := rawURL
	if idx := strings.IndexByte(base, '?'); idx >= 0 {
		base = base[:idx]
	}
	base = sanitizeName(path.Base(base))

	name := "swapped_" + id
	if base != "" && base != "." && base != "/" {
		name += "_" + base
	}

	lower := strings.ToLower(name)
	if !strings.HasSuffix(lower, ".jpg") && !strings.HasSuffix(lower, ".jpeg") && !strings.HasSuffix(lower, ".png") {
		name += ".jpg"
	}
	return name
}

func sanitizeName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}
