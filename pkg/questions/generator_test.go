package questions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guestwise/guestflow/pkg/models"
	"github.com/guestwise/guestflow/pkg/state"
	"github.com/guestwise/guestflow/pkg/strategy"
)

func warmConv(t *testing.T) *state.Conversation {
	t.Helper()
	conv := state.New("sess-q", "", "")
	fillers := []string{
		"sure, happy to help with all of this",
		"here is some more background for you",
		"what else would be useful to know",
	}
	for _, f := range fillers {
		conv.AddMessage(models.RoleUser, f)
		conv.AddMessage(models.RoleAssistant, "thanks, noted")
	}
	require.True(t, conv.UpdateBucket(models.BucketFullName, models.TextValue("Jane Doe"), 0.9, false))
	require.True(t, conv.UpdateBucket(models.BucketEmail, models.TextValue("jane@acme.io"), 0.9, false))
	require.True(t, conv.UpdateBucket(models.BucketCurrentRole, models.TextValue("CTO"), 0.9, false))
	return conv
}

func TestQuestionStyledVariant(t *testing.T) {
	conv := warmConv(t)
	g := NewGenerator(1)

	q := g.Question(conv, []models.BucketID{models.BucketProfessionalBio}, strategy.StyleConcise)
	assert.Contains(t, strings.ToLower(q), "quick bio")
}

func TestQuestionDefaultFallback(t *testing.T) {
	conv := warmConv(t)
	g := NewGenerator(1)

	// No casual variant exists for phone, so the default is used.
	q := g.Question(conv, []models.BucketID{models.BucketPhone}, strategy.StyleCasual)
	assert.Contains(t, q, "phone number")
}

func TestQuestionCombinedSameGroup(t *testing.T) {
	conv := warmConv(t)
	g := NewGenerator(1)

	q := g.Question(conv, []models.BucketID{models.BucketPhone, models.BucketEmail}, strategy.StyleCasual)
	assert.Contains(t, q, "email and phone")
}

func TestQuestionThreeWayContact(t *testing.T) {
	conv := warmConv(t)
	g := NewGenerator(1)

	ids := []models.BucketID{models.BucketEmail, models.BucketPhone, models.BucketLinkedInURL}
	q := g.Question(conv, ids, strategy.StyleVerbose)
	assert.Contains(t, q, "contact basics")
}

func TestQuestionCrossGroupFallsBackToLead(t *testing.T) {
	conv := warmConv(t)
	g := NewGenerator(1)

	q := g.Question(conv, []models.BucketID{models.BucketPodcastTopics, models.BucketEmail}, strategy.StyleCasual)
	assert.Contains(t, q, "topics")
	assert.NotContains(t, q, "email")
}

func TestQuestionExamplesForUncertainStyle(t *testing.T) {
	conv := warmConv(t)
	g := NewGenerator(1)

	q := g.Question(conv, []models.BucketID{models.BucketExpertiseKeywords}, strategy.StyleUncertain)
	assert.Contains(t, q, "For example:")
}

func TestQuestionExamplesForSparseProfile(t *testing.T) {
	conv := state.New("sess-q2", "", "")
	conv.AddMessage(models.RoleUser, "hello")
	g := NewGenerator(1)

	q := g.Question(conv, []models.BucketID{models.BucketFullName}, strategy.StyleCasual)
	assert.Contains(t, q, "For example:")
}

func TestQuestionNoExamplesWhenWarmedUp(t *testing.T) {
	conv := warmConv(t)
	g := NewGenerator(1)

	q := g.Question(conv, []models.BucketID{models.BucketKeyMessage}, strategy.StyleCasual)
	assert.NotContains(t, q, "For example:")
}

func TestPersonalizationNeverFiresEarly(t *testing.T) {
	conv := state.New("sess-q3", "", "")
	conv.AddMessage(models.RoleUser, "hi")
	require.True(t, conv.UpdateBucket(models.BucketFullName, models.TextValue("Jane Doe"), 0.9, false))

	for seed := int64(0); seed < 20; seed++ {
		q := NewGenerator(seed).Question(conv, []models.BucketID{models.BucketEmail}, strategy.StyleCasual)
		assert.False(t, strings.HasPrefix(q, "Jane,"), "seed %d", seed)
	}
}

func TestPersonalizationSometimesFiresWhenWarm(t *testing.T) {
	conv := warmConv(t)

	hits := 0
	for seed := int64(0); seed < 100; seed++ {
		q := NewGenerator(seed).Question(conv, []models.BucketID{models.BucketKeyMessage}, strategy.StyleCasual)
		if strings.HasPrefix(q, "Jane,") {
			hits++
		}
	}
	assert.Greater(t, hits, 0)
	assert.Less(t, hits, 100)
}

func TestTransitionWithAcknowledgment(t *testing.T) {
	conv := warmConv(t)
	g := NewGenerator(7)

	out := g.Transition(conv, "What's your key message?", true)
	assert.Contains(t, out, "what's your key message?")
	assert.Greater(t, len(out), len("What's your key message?"))
}

func TestTransitionWithoutAcknowledgment(t *testing.T) {
	conv := warmConv(t)
	g := NewGenerator(7)

	out := g.Transition(conv, "What's your key message?", false)
	assert.Equal(t, "What's your key message?", out)
}
