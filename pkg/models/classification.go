package models

// Intent is the classifier's reading of what the user is doing this turn.
type Intent string

const (
	IntentProvideInfo    Intent = "provide_info"
	IntentAcknowledgment Intent = "acknowledgment"
	IntentCorrection     Intent = "correction"
	IntentCompletion     Intent = "completion"
	IntentReview         Intent = "review"
	IntentQuestion       Intent = "question"
	IntentHintLinkedIn   Intent = "hint_linkedin"
)

// IsValid reports whether the intent is one of the known values.
func (i Intent) IsValid() bool {
	switch i {
	case IntentProvideInfo, IntentAcknowledgment, IntentCorrection,
		IntentCompletion, IntentReview, IntentQuestion, IntentHintLinkedIn:
		return true
	}
	return false
}

// RawUpdate is one proposed bucket update straight from the classifier.
// Value is untyped JSON (string, number, or array of strings); the bucket
// manager coerces it against the catalog before storing.
type RawUpdate struct {
	Value      any     `json:"value"`
	Confidence float64 `json:"confidence"`
}

// ClassificationResult is the structured interpretation of one user
// message: intent plus proposed bucket updates.
type ClassificationResult struct {
	BucketUpdates      map[BucketID]RawUpdate `json:"bucket_updates"`
	UserIntent         Intent                 `json:"user_intent"`
	IntentConfidence   float64                `json:"intent_confidence"`
	Ambiguous          bool                   `json:"ambiguous"`
	NeedsClarification bool                   `json:"needs_clarification"`
	Reasoning          string                 `json:"reasoning,omitempty"`

	// FromFallback is set when the LLM path failed and the result was
	// derived from regex entity extraction alone.
	FromFallback bool `json:"-"`
}

// HasUpdates reports whether any bucket update was proposed.
func (r *ClassificationResult) HasUpdates() bool {
	return len(r.BucketUpdates) > 0
}
