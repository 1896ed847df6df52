package swap

import "github.com/memeforge/memeforge/internal/trends"

// Outcome classifies what happened to a single candidate. Non-success
// outcomes are normal branches of the pipeline, not errors: a candidate
// with no usable face is skipped and the batch moves on.
type Outcome string

const (
	OutcomeSuccess           Outcome = "success"
	OutcomeNoFaceDetected    Outcome = "no_face_detected"
	OutcomeNoQualifyingFace  Outcome = "no_qualifying_face"
	OutcomeDuplicateImage    Outcome = "duplicate_image"
	OutcomeSourceUnavailable Outcome = "source_unavailable"
	OutcomeTransformError    Outcome = "transform_error"
)

// Result is the output of transforming one candidate.
type Result struct {
	Candidate trends.Candidate
	Outcome   Outcome
	Artifact  string // artifact reference, set when Outcome is success
	Err       error  // underlying cause for source_unavailable / transform_error
}

func (r Result) Success() bool {
	return r.Outcome == OutcomeSuccess
}
