package nlp

import "fmt"

// FeatureExtractionError reports that no usable feature set could be derived
// from a transcript. It is fatal to the run for that transcript.
type FeatureExtractionError struct {
	Reason string
	Err    error
}

func (e *FeatureExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("feature extraction: %s: %v", e.Reason, e.Err)
	}
	return "feature extraction: " + e.Reason
}

func (e *FeatureExtractionError) Unwrap() error { return e.Err }
