package buckets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guestwise/guestflow/pkg/catalog"
	"github.com/guestwise/guestflow/pkg/models"
	"github.com/guestwise/guestflow/pkg/state"
)

func newConv() *state.Conversation {
	return state.New("sess-1", "", "")
}

func classification(intent models.Intent, updates map[models.BucketID]models.RawUpdate) *models.ClassificationResult {
	return &models.ClassificationResult{
		BucketUpdates:    updates,
		UserIntent:       intent,
		IntentConfidence: 0.9,
	}
}

func TestApplyStoresSimpleValues(t *testing.T) {
	conv := newConv()
	conv.AddMessage(models.RoleUser, "I'm Jane Doe, jane@acme.io")
	m := NewManager()

	result := m.Apply(conv, classification(models.IntentProvideInfo, map[models.BucketID]models.RawUpdate{
		models.BucketFullName: {Value: "jane doe", Confidence: 0.95},
		models.BucketEmail:    {Value: "Jane@Acme.io", Confidence: 0.9},
	}), "I'm Jane Doe, jane@acme.io")

	assert.ElementsMatch(t, []models.BucketID{models.BucketFullName, models.BucketEmail}, result.Updated)
	name, _ := conv.Value(models.BucketFullName)
	assert.Equal(t, "Jane Doe", name.Text)
	email, _ := conv.Value(models.BucketEmail)
	assert.Equal(t, "jane@acme.io", email.Text)
}

func TestApplyDropsLowConfidence(t *testing.T) {
	conv := newConv()
	m := NewManager()

	result := m.Apply(conv, classification(models.IntentProvideInfo, map[models.BucketID]models.RawUpdate{
		models.BucketCompany: {Value: "Maybe Acme", Confidence: 0.4},
	}), "something vague")

	assert.Empty(t, result.Updated)
	assert.Contains(t, result.Failed, models.BucketCompany)
	assert.Empty(t, conv.Entries(models.BucketCompany))
}

func TestApplyValidationFailureIsLocal(t *testing.T) {
	conv := newConv()
	m := NewManager()

	// A bad email must not stop the name from storing.
	result := m.Apply(conv, classification(models.IntentProvideInfo, map[models.BucketID]models.RawUpdate{
		models.BucketFullName: {Value: "Jane Doe", Confidence: 0.9},
		models.BucketEmail:    {Value: "not an email", Confidence: 0.9},
	}), "I'm Jane Doe")

	assert.Equal(t, []models.BucketID{models.BucketFullName}, result.Updated)
	assert.Contains(t, result.Failed, models.BucketEmail)
}

func TestApplyMultiValueDedup(t *testing.T) {
	conv := newConv()
	m := NewManager()

	// First turn: AI and ML.
	m.Apply(conv, classification(models.IntentProvideInfo, map[models.BucketID]models.RawUpdate{
		models.BucketExpertiseKeywords: {Value: []any{"AI", "ML"}, Confidence: 0.9},
	}), "AI and ML")

	// Second turn repeats AI, differently cased.
	result := m.Apply(conv, classification(models.IntentProvideInfo, map[models.BucketID]models.RawUpdate{
		models.BucketExpertiseKeywords: {Value: []any{"ai", "data engineering"}, Confidence: 0.9},
	}), "ai, data engineering")

	entries := conv.Entries(models.BucketExpertiseKeywords)
	require.Len(t, entries, 3)
	assert.Equal(t, "AI", entries[0].Value.Text)
	assert.Equal(t, "ML", entries[1].Value.Text)
	assert.Equal(t, "data engineering", entries[2].Value.Text)
	assert.Equal(t, []string{"ai"}, result.DuplicatesPrevented)
}

func TestApplySameValueTwiceIsIdempotent(t *testing.T) {
	conv := newConv()
	m := NewManager()
	updates := map[models.BucketID]models.RawUpdate{
		models.BucketEmail: {Value: "jane@acme.io", Confidence: 0.9},
	}

	first := m.Apply(conv, classification(models.IntentProvideInfo, updates), "jane@acme.io")
	require.Equal(t, []models.BucketID{models.BucketEmail}, first.Updated)

	second := m.Apply(conv, classification(models.IntentProvideInfo, updates), "jane@acme.io")
	assert.Empty(t, second.Updated)
	assert.Equal(t, []string{"jane@acme.io"}, second.DuplicatesPrevented)
	assert.Len(t, conv.Entries(models.BucketEmail), 1)
}

func TestApplyExplicitCorrection(t *testing.T) {
	conv := newConv()
	m := NewManager()
	conv.AddMessage(models.RoleUser, "jane@acme.io")
	m.Apply(conv, classification(models.IntentProvideInfo, map[models.BucketID]models.RawUpdate{
		models.BucketEmail: {Value: "jane@acme.io", Confidence: 0.9},
	}), "jane@acme.io")

	conv.AddMessage(models.RoleUser, "actually it's jane@acme.com")
	result := m.Apply(conv, classification(models.IntentCorrection, map[models.BucketID]models.RawUpdate{
		models.BucketEmail: {Value: "jane@acme.com", Confidence: 0.9},
	}), "actually it's jane@acme.com")

	assert.Equal(t, []models.BucketID{models.BucketEmail}, result.CorrectionsApplied)
	email, _ := conv.Value(models.BucketEmail)
	assert.Equal(t, "jane@acme.com", email.Text)

	require.Len(t, conv.UserCorrections, 1)
	assert.Equal(t, "jane@acme.io", conv.UserCorrections[0].OldValue.Text)
	assert.Equal(t, "jane@acme.com", conv.UserCorrections[0].NewValue.Text)
}

func TestApplySoftCorrectionPhrase(t *testing.T) {
	conv := newConv()
	m := NewManager()
	m.Apply(conv, classification(models.IntentProvideInfo, map[models.BucketID]models.RawUpdate{
		models.BucketCompany: {Value: "Acme Corp", Confidence: 0.9},
	}), "I work at Acme Corp")

	// Classifier said provide_info, but the phrasing marks a correction.
	result := m.Apply(conv, classification(models.IntentProvideInfo, map[models.BucketID]models.RawUpdate{
		models.BucketCompany: {Value: "Acme Labs", Confidence: 0.9},
	}), "sorry, make that Acme Labs")

	assert.Equal(t, []models.BucketID{models.BucketCompany}, result.CorrectionsApplied)
	assert.Len(t, conv.UserCorrections, 1)
}

func TestApplyCorrectionAfterAssistantReference(t *testing.T) {
	conv := newConv()
	m := NewManager()
	m.Apply(conv, classification(models.IntentProvideInfo, map[models.BucketID]models.RawUpdate{
		models.BucketEmail: {Value: "jane@acme.io", Confidence: 0.9},
	}), "jane@acme.io")
	conv.AddMessage(models.RoleAssistant, "I have your email address as jane@acme.io — is that right?")
	conv.AddMessage(models.RoleUser, "jane@acme.com")

	result := m.Apply(conv, classification(models.IntentProvideInfo, map[models.BucketID]models.RawUpdate{
		models.BucketEmail: {Value: "jane@acme.com", Confidence: 0.9},
	}), "jane@acme.com")

	assert.Equal(t, []models.BucketID{models.BucketEmail}, result.CorrectionsApplied)
}

func TestApplySocialMediaExpansion(t *testing.T) {
	conv := newConv()
	m := NewManager()

	result := m.Apply(conv, classification(models.IntentProvideInfo, map[models.BucketID]models.RawUpdate{
		models.BucketSocialMedia: {Value: "@janedoe on Twitter, instagram.com/janedoe", Confidence: 0.9},
	}), "@janedoe on Twitter, instagram.com/janedoe")

	assert.Equal(t, []models.BucketID{models.BucketSocialMedia}, result.Updated)
	entries := conv.Entries(models.BucketSocialMedia)
	require.Len(t, entries, 2)
	assert.Equal(t, "twitter", entries[0].Value.Social.Platform)
	assert.Equal(t, "instagram", entries[1].Value.Social.Platform)
}

func TestApplyDeclinedOptional(t *testing.T) {
	conv := newConv()
	m := NewManager()
	conv.AddMessage(models.RoleAssistant, "Do you have a website you'd like to share?")
	conv.AddMessage(models.RoleUser, "I don't have one")

	result := m.Apply(conv, classification(models.IntentProvideInfo, nil), "I don't have one")

	assert.Equal(t, []models.BucketID{models.BucketWebsite}, result.Skipped)
	assert.True(t, conv.IsSkipped(models.BucketWebsite))
}

func TestApplyValueUnskipsOptional(t *testing.T) {
	conv := newConv()
	m := NewManager()
	conv.MarkOptionalSkipped(models.BucketWebsite)

	m.Apply(conv, classification(models.IntentProvideInfo, map[models.BucketID]models.RawUpdate{
		models.BucketWebsite: {Value: "janedoe.com", Confidence: 0.9},
	}), "actually my site is janedoe.com")

	assert.False(t, conv.IsSkipped(models.BucketWebsite))
	site, _ := conv.Value(models.BucketWebsite)
	assert.Equal(t, "https://janedoe.com", site.URL)
}

func TestApplyStructuredStory(t *testing.T) {
	conv := newConv()
	m := NewManager()

	result := m.Apply(conv, classification(models.IntentProvideInfo, map[models.BucketID]models.RawUpdate{
		models.BucketSuccessStories: {
			Value: map[string]any{
				"subject": "Rebuilt the data platform",
				"result":  "cut costs 60%",
				"metrics": []any{"60% cost reduction"},
			},
			Confidence: 0.9,
		},
	}), "we rebuilt the data platform and cut costs 60%")

	assert.Equal(t, []models.BucketID{models.BucketSuccessStories}, result.Updated)
	entries := conv.Entries(models.BucketSuccessStories)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].Value.Story)
	assert.Equal(t, "Rebuilt the data platform", entries[0].Value.Story.Subject)
	assert.Equal(t, []string{"60% cost reduction"}, entries[0].Value.Story.Metrics)
}

func TestApplyRejectsUnknownBucket(t *testing.T) {
	conv := newConv()
	m := NewManager()

	result := m.Apply(conv, classification(models.IntentProvideInfo, map[models.BucketID]models.RawUpdate{
		models.BucketID("favorite_color"): {Value: "blue", Confidence: 0.9},
		models.BucketFullName:             {Value: "Jane Doe", Confidence: 0.9},
	}), "I'm Jane Doe and I like blue")

	assert.Equal(t, []models.BucketID{models.BucketFullName}, result.Updated)
	require.Contains(t, result.Failed, models.BucketID("favorite_color"))
	assert.Equal(t, models.ErrUnknownBucket.Error(), result.Failed[models.BucketID("favorite_color")])
}

func TestCoerceUnsupportedTypeIsValidationError(t *testing.T) {
	def, ok := catalog.Get(models.BucketFullName)
	require.True(t, ok)

	_, err := coerce(def, true)
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, models.BucketFullName, verr.BucketID)
	assert.Contains(t, verr.Error(), "unsupported value type")
}

func TestApplyYearsFromString(t *testing.T) {
	conv := newConv()
	m := NewManager()

	m.Apply(conv, classification(models.IntentProvideInfo, map[models.BucketID]models.RawUpdate{
		models.BucketYearsExperience: {Value: "12 years", Confidence: 0.9},
	}), "I have 12 years of experience")

	years, ok := conv.Value(models.BucketYearsExperience)
	require.True(t, ok)
	assert.Equal(t, models.KindNumber, years.Kind)
	assert.Equal(t, 12, years.Number)
}
