package swap

import "github.com/memeforge/memeforge/internal/faceengine"

// Quality gate thresholds. A detection must pass all of them to receive a
// swap; tuned to reject tiny background faces, profile views, and extreme
// close-ups that produce visibly broken composites.
const (
	MinFaceAreaRatio = 0.08 // face bbox area relative to image area
	MinConfidence    = 0.6
	MaxYawDegrees    = 45.0
	MaxPitchDegrees  = 35.0
	MinFaceWidthPx   = 100
	MaxFaceWidthPx   = 2000
	MinAspectRatio   = 0.6 // width / height
	MaxAspectRatio   = 1.4
)

// Qualifies reports whether a detection is a good swap target within an
// image of the given dimensions. Orientation is only checked when the
// engine reported a pose.
func Qualifies(d faceengine.Detection, imgWidth, imgHeight int) bool {
	imgArea := imgWidth * imgHeight
	if imgArea <= 0 {
		return false
	}

	width := d.BBox.Width()
	height := d.BBox.Height()
	if height <= 0 {
		return false
	}

	if float64(d.BBox.Area())/float64(imgArea) < MinFaceAreaRatio {
		return false
	}
	if d.Confidence < MinConfidence {
		return false
	}
	if d.Pose != nil {
		if d.Pose.Yaw > MaxYawDegrees || d.Pose.Yaw < -MaxYawDegrees {
			return false
		}
		if d.Pose.Pitch > MaxPitchDegrees || d.Pose.Pitch < -MaxPitchDegrees {
			return false
		}
	}
	if width < MinFaceWidthPx || width > MaxFaceWidthPx {
		return false
	}

	aspect := float64(width) / float64(height)
	if aspect < MinAspectRatio || aspect > MaxAspectRatio {
		return false
	}
	return true
}

// FilterQualifying returns the detections that pass the quality gate.
func FilterQualifying(detections []faceengine.Detection, imgWidth, imgHeight int) []faceengine.Detection {
	var qualifying []faceengine.Detection
	for _, d := range detections {
		if Qualifies(d, imgWidth, imgHeight) {
			qualifying = append(qualifying, d)
		}
	}
	return qualifying
}
