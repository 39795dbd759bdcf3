package strategy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guestwise/guestflow/pkg/models"
	"github.com/guestwise/guestflow/pkg/state"
)

func newConv() *state.Conversation {
	return state.New("sess-1", "", "")
}

func provideInfo() *models.ClassificationResult {
	return &models.ClassificationResult{
		UserIntent:       models.IntentProvideInfo,
		IntentConfidence: 0.9,
	}
}

func TestDecideWarmWelcome(t *testing.T) {
	conv := newConv()
	conv.AddMessage(models.RoleUser, "hi there")

	d := NewEngine().Decide(conv, provideInfo(), nil)

	assert.Equal(t, WarmWelcome, d.Strategy)
	assert.Equal(t, []models.BucketID{models.BucketFullName}, d.PriorityBuckets)
}

func TestDecideWarmWelcomeSkipsFilledName(t *testing.T) {
	conv := newConv()
	conv.AddMessage(models.RoleUser, "Hi! I'm Jane Doe, happy to get started")
	require.True(t, conv.UpdateBucket(models.BucketFullName, models.TextValue("Jane Doe"), 0.9, false))

	updateResult := &models.UpdateResult{Updated: []models.BucketID{models.BucketFullName}}
	d := NewEngine().Decide(conv, provideInfo(), updateResult)

	assert.Equal(t, WarmWelcome, d.Strategy)
	assert.Equal(t, []models.BucketID{models.BucketEmail}, d.PriorityBuckets)
}

func TestDecideCompletionBlocked(t *testing.T) {
	conv := newConv()
	addTurns(conv, 3)
	require.True(t, conv.UpdateBucket(models.BucketFullName, models.TextValue("Jane Doe"), 0.9, false))

	classification := &models.ClassificationResult{UserIntent: models.IntentCompletion, IntentConfidence: 0.9}
	d := NewEngine().Decide(conv, classification, nil)

	assert.Equal(t, CompletionBlocked, d.Strategy)
	require.Len(t, d.PriorityBuckets, 2)
	assert.Equal(t, models.BucketEmail, d.PriorityBuckets[0])
}

func TestDecideCompletionReady(t *testing.T) {
	conv := newConv()
	addTurns(conv, 3)
	fillAllRequired(t, conv)

	classification := &models.ClassificationResult{UserIntent: models.IntentCompletion, IntentConfidence: 0.9}
	d := NewEngine().Decide(conv, classification, nil)

	assert.Equal(t, CompletionReady, d.Strategy)
	assert.Empty(t, d.PriorityBuckets)
}

func TestDecideClarifyAmbiguous(t *testing.T) {
	conv := newConv()
	addTurns(conv, 3)

	classification := provideInfo()
	classification.Ambiguous = true
	d := NewEngine().Decide(conv, classification, nil)

	assert.Equal(t, ClarifyAmbiguous, d.Strategy)
}

func TestDecideAcknowledgeProgress(t *testing.T) {
	conv := newConv()
	addTurns(conv, 3)
	require.True(t, conv.UpdateBucket(models.BucketEmail, models.TextValue("jane@acme.io"), 0.9, false))

	updateResult := &models.UpdateResult{Updated: []models.BucketID{models.BucketEmail}}
	d := NewEngine().Decide(conv, provideInfo(), updateResult)

	assert.Equal(t, AcknowledgeProgress, d.Strategy)
	assert.Equal(t, state.MomentumFlowing, conv.Momentum)
	// Adjacency: after email, ask linkedin.
	require.NotEmpty(t, d.PriorityBuckets)
	assert.Equal(t, models.BucketLinkedInURL, d.PriorityBuckets[0])
}

func TestDecideGatherRequired(t *testing.T) {
	conv := newConv()
	addTurns(conv, 3)

	d := NewEngine().Decide(conv, provideInfo(), &models.UpdateResult{})

	assert.Equal(t, GatherRequired, d.Strategy)
	require.NotEmpty(t, d.PriorityBuckets)
	assert.Equal(t, models.BucketFullName, d.PriorityBuckets[0])
}

func TestDecideGatherOptionalWhenRequiredDone(t *testing.T) {
	conv := newConv()
	addTurns(conv, 3)
	fillAllRequired(t, conv)

	d := NewEngine().Decide(conv, provideInfo(), &models.UpdateResult{})

	assert.Equal(t, GatherOptional, d.Strategy)
	require.NotEmpty(t, d.PriorityBuckets)
	assert.Equal(t, models.BucketLinkedInURL, d.PriorityBuckets[0])
}

func TestDecideSkippedOptionalNeverPrioritized(t *testing.T) {
	conv := newConv()
	addTurns(conv, 3)
	fillAllRequired(t, conv)
	conv.MarkOptionalSkipped(models.BucketLinkedInURL)
	conv.MarkOptionalSkipped(models.BucketPhone)

	d := NewEngine().Decide(conv, provideInfo(), &models.UpdateResult{})

	assert.Equal(t, GatherOptional, d.Strategy)
	assert.NotContains(t, d.PriorityBuckets, models.BucketLinkedInURL)
	assert.NotContains(t, d.PriorityBuckets, models.BucketPhone)
}

func TestDecideConversationRescue(t *testing.T) {
	conv := newConv()
	addTurns(conv, 3)
	for i := 0; i < 4; i++ {
		conv.AddFrustrationIndicator("impatience")
	}

	d := NewEngine().Decide(conv, provideInfo(), nil)

	assert.Equal(t, ConversationRescue, d.Strategy)
	assert.Equal(t, []models.BucketID{models.BucketFullName, models.BucketEmail, models.BucketProfessionalBio}, d.PriorityBuckets)
}

func TestFrustrationGrowsOnlyViaTriggers(t *testing.T) {
	conv := newConv()
	conv.AddMessage(models.RoleUser, "I already told you my name, again: Jane Doe")
	before := len(conv.FrustrationIndicators)

	triggers := DetectFrustration(conv, nil)
	assert.NotEmpty(t, triggers)
	assert.Greater(t, len(conv.FrustrationIndicators), before)

	// A calm message adds nothing.
	conv.AddMessage(models.RoleUser, "my email is jane@acme.io")
	count := len(conv.FrustrationIndicators)
	DetectFrustration(conv, nil)
	assert.Equal(t, count, len(conv.FrustrationIndicators))
}

func TestDetectFrustrationIgnoresCurrentMessage(t *testing.T) {
	conv := newConv()
	conv.AddMessage(models.RoleUser, "my name is Jane Doe")
	conv.AddMessage(models.RoleAssistant, "thanks, noted")

	// The last user message must not match itself even when an assistant
	// reply follows it in the log.
	triggers := DetectFrustration(conv, nil)
	assert.Empty(t, triggers)
	assert.Empty(t, conv.FrustrationIndicators)

	// A genuine repeat of an earlier message still registers.
	conv.AddMessage(models.RoleUser, "my name is Jane Doe")
	triggers = DetectFrustration(conv, nil)
	assert.Contains(t, triggers, "repeated message")
}

func TestDetectStyle(t *testing.T) {
	tests := []struct {
		name     string
		messages []string
		want     Style
	}{
		{
			name:     "verbose",
			messages: []string{strings.Repeat("I have a lot of context to share about my background. ", 4)},
			want:     StyleVerbose,
		},
		{
			name:     "concise",
			messages: []string{"Jane Doe", "jane@acme.io"},
			want:     StyleConcise,
		},
		{
			name: "technical",
			messages: []string{
				"I work on API infrastructure and ML pipeline tooling every day",
				"mostly latency optimization for our SaaS stack and the algorithm layer",
			},
			want: StyleTechnical,
		},
		{
			name: "formal",
			messages: []string{
				"Thank you for having me, I would be delighted to participate",
				"Certainly, please let me know what you need and I appreciate the help",
			},
			want: StyleFormal,
		},
		{
			name: "uncertain",
			messages: []string{
				"I think I'm maybe more of a product person, not sure though",
				"I guess my audience is probably founders, sort of early stage ones",
			},
			want: StyleUncertain,
		},
		{
			name:     "casual default",
			messages: []string{"hey! excited to do this, where do we start though"},
			want:     StyleCasual,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := newConv()
			for _, m := range tt.messages {
				conv.AddMessage(models.RoleUser, m)
			}
			assert.Equal(t, tt.want, DetectStyle(conv))
		})
	}
}

func TestSameGroup(t *testing.T) {
	assert.True(t, SameGroup([]models.BucketID{models.BucketEmail, models.BucketPhone, models.BucketLinkedInURL}))
	assert.False(t, SameGroup([]models.BucketID{models.BucketEmail, models.BucketPodcastTopics}))
	assert.True(t, SameGroup([]models.BucketID{models.BucketEmail}))
}

// addTurns pads the message log past the warm-welcome gate. Each user
// message is distinct so the repetition heuristic stays quiet.
func addTurns(conv *state.Conversation, n int) {
	fillers := []string{
		"happy to share whatever you need",
		"here is some background for you",
		"what else would be useful to know",
		"that covers most of my story",
	}
	for i := 0; i < n; i++ {
		conv.AddMessage(models.RoleUser, fillers[i%len(fillers)])
		conv.AddMessage(models.RoleAssistant, "thanks, noted")
	}
}

func fillAllRequired(t *testing.T, conv *state.Conversation) {
	t.Helper()
	fills := map[models.BucketID][]models.Value{
		models.BucketFullName:        {models.TextValue("Jane Doe")},
		models.BucketEmail:           {models.TextValue("jane@acme.io")},
		models.BucketCurrentRole:     {models.TextValue("CTO")},
		models.BucketProfessionalBio: {models.TextValue("I build data platforms for fintech startups.")},
		models.BucketExpertiseKeywords: {
			models.TextValue("AI"), models.TextValue("ML"), models.TextValue("data engineering"),
		},
		models.BucketSuccessStories:    {models.TextValue("Cut pipeline costs 60% in one quarter")},
		models.BucketUniquePerspective: {models.TextValue("Data quality beats model sophistication.")},
		models.BucketPodcastTopics: {
			models.TextValue("scaling teams"), models.TextValue("AI in production"),
		},
		models.BucketTargetAudience: {models.TextValue("early-stage founders")},
		models.BucketKeyMessage:     {models.TextValue("Hire for judgment, not keywords.")},
	}
	for id, vals := range fills {
		for _, v := range vals {
			require.True(t, conv.UpdateBucket(id, v, 0.9, false), "fill %s", id)
		}
	}
	require.Empty(t, conv.EmptyRequired())
}
