package engine

import (
	"github.com/guestwise/guestflow/pkg/catalog"
	"github.com/guestwise/guestflow/pkg/models"
	"github.com/guestwise/guestflow/pkg/state"
)

// Summarize computes the profile summary for a conversation. Completion
// percentage tracks the required buckets only, since they gate
// finalization; filled counts cover the whole catalog.
func Summarize(conv *state.Conversation) models.Summary {
	required := catalog.RequiredIDs()
	requiredFilled := 0
	for _, id := range required {
		if conv.IsFilled(id) {
			requiredFilled++
		}
	}

	percentage := 0.0
	if len(required) > 0 {
		percentage = 100 * float64(requiredFilled) / float64(len(required))
	}

	summary := models.Summary{
		CompletionPercentage: percentage,
		FilledCount:          len(conv.Filled()),
		Total:                len(catalog.IDs()),
		EmptyRequired:        conv.EmptyRequired(),
		QualityScores:        make(map[models.BucketID]float64),
		Completed:            conv.CompletionConfirmed,
		KeyFields: models.KeyFields{
			Name:    valueString(conv, models.BucketFullName),
			Email:   valueString(conv, models.BucketEmail),
			Role:    valueString(conv, models.BucketCurrentRole),
			Company: valueString(conv, models.BucketCompany),
		},
	}

	for _, id := range conv.Filled() {
		summary.QualityScores[id] = qualityScore(conv, id)
	}
	return summary
}

// qualityScore is the mean entry confidence scaled by how much of the
// bucket's minimum entry count is satisfied.
func qualityScore(conv *state.Conversation, id models.BucketID) float64 {
	entries := conv.Entries(id)
	if len(entries) == 0 {
		return 0
	}

	sum := 0.0
	for _, e := range entries {
		sum += e.Confidence
	}
	mean := sum / float64(len(entries))

	minEntries := 1
	if def, ok := catalog.Get(id); ok && def.MinEntries > 1 {
		minEntries = def.MinEntries
	}
	coverage := float64(len(entries)) / float64(minEntries)
	if coverage > 1 {
		coverage = 1
	}
	return mean * coverage
}

func valueString(conv *state.Conversation, id models.BucketID) string {
	v, ok := conv.Value(id)
	if !ok {
		return ""
	}
	return v.String()
}
