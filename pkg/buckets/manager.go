// Package buckets applies a classification to conversation state: it
// coerces raw values, normalizes, deduplicates, validates, records
// corrections, and marks declined optionals.
package buckets

import (
	"log/slog"
	"strings"

	"github.com/guestwise/guestflow/pkg/catalog"
	"github.com/guestwise/guestflow/pkg/models"
	"github.com/guestwise/guestflow/pkg/state"
)

// ConfidenceFloor drops classifier updates below this confidence.
const ConfidenceFloor = 0.6

// softCorrectionPhrases mark an implicit correction even when the
// classifier labeled the intent differently.
var softCorrectionPhrases = []string{
	"it's actually", "its actually", "actually it's", "actually its",
	"i meant", "should be", "make that", "change it to", "change that to",
}

// negativeIndicators mark a declined optional ("I don't have a website").
var negativeIndicators = []string{
	"don't have", "dont have", "do not have", "none", "n/a", "no website",
	"skip", "rather not", "prefer not", "not applicable", "no thanks",
}

// Manager applies classification results to state. Stateless; safe to
// share across sessions.
type Manager struct {
	confidenceFloor float64
}

// NewManager creates a Manager with the default confidence floor.
func NewManager() *Manager {
	return &Manager{confidenceFloor: ConfidenceFloor}
}

// NewManagerWithFloor creates a Manager with a custom confidence floor.
func NewManagerWithFloor(floor float64) *Manager {
	return &Manager{confidenceFloor: floor}
}

// Apply runs every proposed update against the state. Updates apply in
// catalog order; dedup evaluates against state as it grows within the
// call. Rejections surface in the result, never as errors.
func (m *Manager) Apply(conv *state.Conversation, result *models.ClassificationResult, rawMessage string) *models.UpdateResult {
	out := &models.UpdateResult{Failed: make(map[models.BucketID]string)}

	for _, def := range catalog.All() {
		update, ok := result.BucketUpdates[def.ID]
		if !ok {
			continue
		}
		if update.Confidence < m.confidenceFloor {
			out.Failed[def.ID] = "confidence below floor"
			continue
		}
		m.applyOne(conv, def, update, result, rawMessage, out)
	}

	// Ids the catalog does not declare are rejected, not silently dropped.
	for id := range result.BucketUpdates {
		if _, ok := catalog.Get(id); !ok {
			out.Failed[id] = models.ErrUnknownBucket.Error()
			slog.Warn("Classifier proposed unknown bucket",
				"session_id", conv.SessionID, "bucket_id", id)
		}
	}

	m.markDeclinedOptionals(conv, result, rawMessage, out)

	if out.HasChanges() {
		slog.Debug("Bucket updates applied",
			"session_id", conv.SessionID,
			"updated", len(out.Updated),
			"duplicates", len(out.DuplicatesPrevented),
			"corrections", len(out.CorrectionsApplied))
	}
	return out
}

func (m *Manager) applyOne(
	conv *state.Conversation,
	def *catalog.Definition,
	update models.RawUpdate,
	result *models.ClassificationResult,
	rawMessage string,
	out *models.UpdateResult,
) {
	values, err := coerce(def, update.Value)
	if err != nil {
		out.Failed[def.ID] = err.Error()
		return
	}

	// An explicitly empty list with no values is an absence statement for
	// an optional bucket.
	if len(values) == 0 {
		if !def.Required && containsNegativeIndicator(rawMessage) {
			if conv.MarkOptionalSkipped(def.ID) {
				out.Skipped = append(out.Skipped, def.ID)
			}
		}
		return
	}

	isCorrection := m.isCorrection(conv, def, result, rawMessage)
	updated := false

	for _, v := range values {
		normalized := catalog.Normalize(def.ID, v)
		if isDuplicate(conv.Entries(def.ID), normalized) {
			out.DuplicatesPrevented = append(out.DuplicatesPrevented, normalized.String())
			continue
		}
		if !def.Validate(normalized) {
			out.Failed[def.ID] = "validation rejected value"
			continue
		}

		var previous models.Value
		hadPrevious := false
		if !def.AllowMultiple {
			previous, hadPrevious = conv.Value(def.ID)
		}

		if !conv.UpdateBucket(def.ID, normalized, update.Confidence, isCorrection && hadPrevious) {
			out.Failed[def.ID] = "store rejected value"
			continue
		}
		updated = true

		if isCorrection && hadPrevious && !previous.Equal(normalized) {
			conv.RecordCorrection(def.ID, previous, normalized, correctionReason(result))
			out.CorrectionsApplied = append(out.CorrectionsApplied, def.ID)
		}
	}

	if updated {
		out.Updated = append(out.Updated, def.ID)
		// Providing a value un-skips a previously declined optional.
		conv.UnskipOptional(def.ID)
		delete(out.Failed, def.ID)
	}
}

// isCorrection detects corrections three ways: the classifier's explicit
// intent, the last assistant message asking about this bucket by name,
// or a soft-correction phrase in the raw message.
func (m *Manager) isCorrection(conv *state.Conversation, def *catalog.Definition, result *models.ClassificationResult, rawMessage string) bool {
	if result.UserIntent == models.IntentCorrection {
		return true
	}

	lower := strings.ToLower(rawMessage)
	for _, phrase := range softCorrectionPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}

	if last, ok := conv.LastAssistantMessage(); ok && len(conv.Entries(def.ID)) > 0 {
		if strings.Contains(strings.ToLower(last.Content), strings.ToLower(def.Name)) {
			return true
		}
	}
	return false
}

// markDeclinedOptionals handles "I don't have one" replies: when the raw
// message carries a negative indicator, no value was extracted for the
// bucket the assistant just asked about, and that bucket is optional, it
// is marked skipped.
func (m *Manager) markDeclinedOptionals(conv *state.Conversation, result *models.ClassificationResult, rawMessage string, out *models.UpdateResult) {
	if !containsNegativeIndicator(rawMessage) {
		return
	}

	last, ok := conv.LastAssistantMessage()
	if !ok {
		return
	}
	lower := strings.ToLower(last.Content)

	for _, id := range catalog.OptionalIDs() {
		def, _ := catalog.Get(id)
		if _, proposed := result.BucketUpdates[id]; proposed && out.DidUpdate(id) {
			continue
		}
		if len(conv.Entries(id)) > 0 || conv.IsSkipped(id) {
			continue
		}
		if strings.Contains(lower, strings.ToLower(def.Name)) {
			if conv.MarkOptionalSkipped(id) {
				out.Skipped = append(out.Skipped, id)
			}
		}
	}
}

func containsNegativeIndicator(message string) bool {
	lower := strings.ToLower(message)
	for _, indicator := range negativeIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

func correctionReason(result *models.ClassificationResult) string {
	if result.UserIntent == models.IntentCorrection {
		return "explicit correction"
	}
	return "implicit correction"
}
