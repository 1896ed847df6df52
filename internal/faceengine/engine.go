// Package faceengine defines the contract for the external face detection
// and swap capability and a client for the HTTP sidecar that provides it.
package faceengine

import "context"

// BoundingBox is a face region in pixel coordinates.
type BoundingBox struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

func (b BoundingBox) Width() int {
	return b.X2 - b.X1
}

func (b BoundingBox) Height() int {
	return b.Y2 - b.Y1
}

func (b BoundingBox) Area() int {
	return b.Width() * b.Height()
}

// Pose holds head orientation angles in degrees.
type Pose struct {
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
	Roll  float64 `json:"roll"`
}

// Detection is one located face with confidence and optional orientation.
type Detection struct {
	BBox       BoundingBox `json:"bbox"`
	Confidence float64     `json:"confidence"` // 0-1
	Pose       *Pose       `json:"pose,omitempty"`
}

// ReferenceFace is the fixed substitution source shared by all transforms.
// It is expensive to prepare (one detection round trip) and therefore loaded
// once per process, see ReferenceLoader.
type ReferenceFace struct {
	Image []byte
	Face  Detection
}

// Engine is the external face capability. Implementations must be safe for
// concurrent use; the transform pipeline calls them from a worker pool.
type Engine interface {
	// DetectFaces returns zero or more face detections in the image.
	// Zero detections is a normal result, not an error.
	DetectFaces(ctx context.Context, image []byte) ([]Detection, error)

	// SwapFace returns a new image with the target face region replaced by
	// the reference face. It is called once per qualifying detection,
	// compositing onto the previous output.
	SwapFace(ctx context.Context, target []byte, face Detection, source *ReferenceFace) ([]byte, error)
}
