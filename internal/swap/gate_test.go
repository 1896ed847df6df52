package swap

import (
	"testing"

	"github.com/memeforge/memeforge/internal/faceengine"
)

func detection(x1, y1, x2, y2 int, confidence float64) faceengine.Detection {
	return faceengine.Detection{
		BBox:       faceengine.BoundingBox{X1: x1, Y1: y1, X2: x2, Y2: y2},
		Confidence: confidence,
	}
}

func TestQualifies_AreaBoundary(t *testing.T) {
	// 1000x1000 image; 8% of area is 80000 px².
	// 320x250 = exactly 80000 — accepted (>= boundary).
	exact := detection(0, 0, 320, 250, 0.9)
	if !Qualifies(exact, 1000, 1000) {
		t.Error("expected face at exactly 8% of image area to qualify")
	}

	// 316x250 = 79000 = 7.9% — rejected.
	below := detection(0, 0, 316, 250, 0.9)
	if Qualifies(below, 1000, 1000) {
		t.Error("expected face at 7.9% of image area to be rejected")
	}
}

func TestQualifies_ConfidenceBoundary(t *testing.T) {
	d := detection(0, 0, 320, 250, 0.6)
	if !Qualifies(d, 1000, 1000) {
		t.Error("expected confidence exactly 0.6 to qualify")
	}

	d.Confidence = 0.59
	if Qualifies(d, 1000, 1000) {
		t.Error("expected confidence 0.59 to be rejected")
	}
}

func TestQualifies_Orientation(t *testing.T) {
	base := detection(0, 0, 320, 250, 0.9)

	frontal := base
	frontal.Pose = &faceengine.Pose{Yaw: 10, Pitch: -5}
	if !Qualifies(frontal, 1000, 1000) {
		t.Error("expected frontal face to qualify")
	}

	atYawLimit := base
	atYawLimit.Pose = &faceengine.Pose{Yaw: 45}
	if !Qualifies(atYawLimit, 1000, 1000) {
		t.Error("expected yaw at the 45° limit to qualify")
	}

	profile := base
	profile.Pose = &faceengine.Pose{Yaw: -46}
	if Qualifies(profile, 1000, 1000) {
		t.Error("expected profile view (|yaw| > 45°) to be rejected")
	}

	tilted := base
	tilted.Pose = &faceengine.Pose{Pitch: 36}
	if Qualifies(tilted, 1000, 1000) {
		t.Error("expected tilted face (|pitch| > 35°) to be rejected")
	}

	// No pose reported: orientation check is skipped.
	if !Qualifies(base, 1000, 1000) {
		t.Error("expected face without pose data to qualify")
	}
}

func TestQualifies_WidthLimits(t *testing.T) {
	narrow := detection(0, 0, 99, 120, 0.9)
	if Qualifies(narrow, 200, 200) {
		t.Error("expected face narrower than 100px to be rejected")
	}

	wide := detection(0, 0, 2001, 2000, 0.9)
	if Qualifies(wide, 3000, 3000) {
		t.Error("expected face wider than 2000px to be rejected")
	}
}

func TestQualifies_AspectRatio(t *testing.T) {
	// 400x600: aspect 0.667 — fine.
	ok := detection(0, 0, 400, 600, 0.9)
	if !Qualifies(ok, 1000, 1000) {
		t.Error("expected portrait-ish aspect ratio to qualify")
	}

	// 300x600: aspect 0.5 — too narrow.
	tall := detection(0, 0, 300, 600, 0.9)
	if Qualifies(tall, 800, 800) {
		t.Error("expected aspect ratio below 0.6 to be rejected")
	}

	// 600x400: aspect 1.5 — too wide.
	flat := detection(0, 0, 600, 400, 0.9)
	if Qualifies(flat, 900, 900) {
		t.Error("expected aspect ratio above 1.4 to be rejected")
	}
}

func TestQualifies_DegenerateInputs(t *testing.T) {
	d := detection(0, 0, 320, 250, 0.9)
	if Qualifies(d, 0, 0) {
		t.Error("expected zero-area image to disqualify everything")
	}

	zeroHeight := detection(10, 10, 200, 10, 0.9)
	if Qualifies(zeroHeight, 1000, 1000) {
		t.Error("expected zero-height bbox to be rejected")
	}
}

func TestFilterQualifying(t *testing.T) {
	detections := []faceengine.Detection{
		detection(0, 0, 320, 250, 0.9),  // qualifies
		detection(0, 0, 320, 250, 0.3),  // low confidence
		detection(0, 0, 50, 60, 0.9),    // too small
		detection(100, 100, 420, 350, 0.8), // qualifies
	}

	got := FilterQualifying(detections, 1000, 1000)
	if len(got) != 2 {
		t.Fatalf("expected 2 qualifying detections, got %d", len(got))
	}
}
