package classifier

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/guestwise/guestflow/pkg/models"
)

// ParseError reports an unparsable LLM response. The classifier converts
// it into the entity-only fallback; it never reaches the user.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("classification parse failure: %s", e.Reason)
}

// fencePattern matches a ```json ... ``` (or bare ```) markdown fence.
var fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// rawClassification mirrors the JSON contract the prompt asks for.
type rawClassification struct {
	BucketUpdates      map[string]models.RawUpdate `json:"bucket_updates"`
	UserIntent         string                      `json:"user_intent"`
	IntentConfidence   float64                     `json:"intent_confidence"`
	Ambiguous          bool                        `json:"ambiguous"`
	NeedsClarification bool                        `json:"needs_clarification"`
	Reasoning          string                      `json:"reasoning"`
}

// ParseResponse parses LLM text into a ClassificationResult. The parser is
// intentionally forgiving: it strips markdown fences and tolerates prose
// around the JSON object before extracting the outermost braces.
func ParseResponse(text string) (*models.ClassificationResult, error) {
	payload := extractJSON(text)
	if payload == "" {
		return nil, &ParseError{Reason: "no JSON object found in response"}
	}

	var raw rawClassification
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}

	intent := models.Intent(raw.UserIntent)
	if !intent.IsValid() {
		// An unknown intent is downgraded, not rejected: the updates may
		// still be usable.
		intent = models.IntentProvideInfo
	}

	result := &models.ClassificationResult{
		BucketUpdates:      make(map[models.BucketID]models.RawUpdate, len(raw.BucketUpdates)),
		UserIntent:         intent,
		IntentConfidence:   clamp01(raw.IntentConfidence),
		Ambiguous:          raw.Ambiguous,
		NeedsClarification: raw.NeedsClarification,
		Reasoning:          raw.Reasoning,
	}
	for id, update := range raw.BucketUpdates {
		update.Confidence = clamp01(update.Confidence)
		result.BucketUpdates[models.BucketID(id)] = update
	}
	return result, nil
}

// extractJSON pulls the JSON object out of the response text: first from a
// markdown fence, then by trimming to the outermost brace pair.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	if m := fencePattern.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}

	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
