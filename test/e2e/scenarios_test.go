package e2e

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guestwise/guestflow/pkg/enrich"
	"github.com/guestwise/guestflow/pkg/events"
	"github.com/guestwise/guestflow/pkg/models"
)

// drainEvents collects bus envelopes until the channel stays quiet.
func drainEvents(ch <-chan events.Envelope) []events.Envelope {
	var out []events.Envelope
	for {
		select {
		case env := <-ch:
			out = append(out, env)
		case <-time.After(100 * time.Millisecond):
			return out
		}
	}
}

func eventTypes(envs []events.Envelope) []string {
	types := make([]string, 0, len(envs))
	for _, env := range envs {
		types = append(types, env.Type)
	}
	return types
}

func TestE2E_HappyPathToCompletion(t *testing.T) {
	app := NewTestApp(t)
	ch, cancel := app.Bus.Subscribe("sess-happy")
	defer cancel()

	app.LLM.AddClassification("provide_info", 0.9, map[string]any{
		"full_name":    "jane doe",
		"email":        "jane@acme.io",
		"current_role": "CTO",
	})
	app.LLM.AddClassification("provide_info", 0.9, map[string]any{
		"professional_bio": "Engineering leader who grew Acme from 5 to 200 people.",
		"years_experience": 12,
	})
	app.LLM.AddClassification("provide_info", 0.9, map[string]any{
		"expertise_keywords": []string{"Go", "distributed systems", "platform engineering"},
		"success_stories":    "Scaled Acme's platform to ten million users.",
		"unique_perspective": "Believes platform teams should ship product features.",
	})
	app.LLM.AddClassification("provide_info", 0.9, map[string]any{
		"podcast_topics":  []string{"engineering leadership", "scaling platform teams"},
		"target_audience": "founding engineers at early startups",
		"key_message":     "Hire for curiosity, not pedigree.",
	})
	app.LLM.AddClassification("completion", 0.95, nil)
	app.LLM.AddClassification("acknowledgment", 0.95, nil)

	app.PostMessage(t, "sess-happy", "Hi! I'm Jane Doe, jane@acme.io, CTO at Acme.")
	app.PostMessage(t, "sess-happy", "I've led engineering for 12 years, grew Acme from 5 to 200 people.")
	app.PostMessage(t, "sess-happy", "I know Go, distributed systems, and platform engineering; I scaled our platform to 10M users.")
	res := app.PostMessage(t, "sess-happy", "I'd talk engineering leadership and scaling platform teams for founding engineers. Key message: hire for curiosity.")

	require.Empty(t, res.Summary.EmptyRequired)
	assert.False(t, res.Summary.Completed)

	// All required buckets filled, so "I'm done" triggers the review summary.
	res = app.PostMessage(t, "sess-happy", "I think that's everything, I'm done.")
	assert.Contains(t, res.Reply, "Here's what I have so far")
	assert.False(t, res.Summary.Completed)

	res = app.PostMessage(t, "sess-happy", "Yes, that all looks right!")
	assert.Contains(t, res.Reply, "confirmed")
	assert.True(t, res.Summary.Completed)
	assert.Equal(t, 100.0, res.Summary.CompletionPercentage)

	types := eventTypes(drainEvents(ch))
	assert.Contains(t, types, events.EventTypeSessionCompleted)
	assert.Contains(t, types, events.EventTypeBucketUpdated)
}

func TestE2E_Correction(t *testing.T) {
	app := NewTestApp(t)
	ch, cancel := app.Bus.Subscribe("sess-correct")
	defer cancel()

	app.LLM.AddClassification("provide_info", 0.9, map[string]any{
		"full_name": "jane doe",
		"email":     "jane@old.io",
	})
	app.LLM.AddClassification("correction", 0.9, map[string]any{
		"email": "jane@acme.io",
	})

	app.PostMessage(t, "sess-correct", "I'm Jane Doe, jane@old.io.")
	app.PostMessage(t, "sess-correct", "Sorry, it's actually jane@acme.io.")

	conv := app.State(t, "sess-correct")
	value, ok := conv.Value(models.BucketEmail)
	require.True(t, ok)
	assert.Equal(t, "jane@acme.io", value.String())
	assert.Len(t, conv.Entries(models.BucketEmail), 1)

	var sawCorrection bool
	for _, env := range drainEvents(ch) {
		if env.Type != events.EventTypeBucketUpdated {
			continue
		}
		var payload events.BucketUpdatedPayload
		require.NoError(t, json.Unmarshal(env.Payload, &payload))
		if payload.BucketID == models.BucketEmail && payload.IsCorrected {
			sawCorrection = true
		}
	}
	assert.True(t, sawCorrection, "expected a corrected bucket.updated event for email")
}

func TestE2E_DeclinedOptional(t *testing.T) {
	app := NewTestApp(t)

	app.LLM.AddClassification("provide_info", 0.9, map[string]any{
		"website": []string{},
	})

	res := app.PostMessage(t, "sess-skip", "I don't have a website.")
	assert.NotEmpty(t, res.Reply)

	conv := app.State(t, "sess-skip")
	assert.True(t, conv.IsSkipped(models.BucketWebsite))
	assert.Empty(t, conv.Entries(models.BucketWebsite))
}

func TestE2E_MultiValueDedup(t *testing.T) {
	app := NewTestApp(t)

	app.LLM.AddClassification("provide_info", 0.9, map[string]any{
		"expertise_keywords": []string{"Go", "Kubernetes"},
	})
	app.LLM.AddClassification("provide_info", 0.9, map[string]any{
		"expertise_keywords": []string{"Kubernetes", "DevOps"},
	})

	app.PostMessage(t, "sess-dedup", "My expertise is Go and Kubernetes.")
	app.PostMessage(t, "sess-dedup", "Also Kubernetes and DevOps.")

	conv := app.State(t, "sess-dedup")
	assert.Len(t, conv.Entries(models.BucketExpertiseKeywords), 3)
}

func TestE2E_BlockedCompletion(t *testing.T) {
	app := NewTestApp(t)

	app.LLM.AddClassification("provide_info", 0.9, map[string]any{
		"full_name": "jane doe",
	})
	app.LLM.AddClassification("completion", 0.95, nil)

	app.PostMessage(t, "sess-blocked", "I'm Jane Doe.")
	res := app.PostMessage(t, "sess-blocked", "That's all, I'm done.")

	assert.Contains(t, res.Reply, "still need")
	assert.False(t, res.Summary.Completed)
	assert.NotEmpty(t, res.Summary.EmptyRequired)
}

type staticAnalyzer struct {
	profile *enrich.Profile
	calls   int
}

func (a *staticAnalyzer) Analyze(_ context.Context, _ string) (*enrich.Profile, error) {
	a.calls++
	return a.profile, nil
}

func TestE2E_LinkedInEnrichment(t *testing.T) {
	analyzer := &staticAnalyzer{profile: &enrich.Profile{
		ProfessionalBio:   "CTO with a decade of platform engineering.",
		ExpertiseKeywords: []string{"Go", "Kubernetes"},
		YearsExperience:   10,
	}}
	app := NewTestApp(t, WithAnalyzer(analyzer))

	app.LLM.AddClassification("provide_info", 0.9, map[string]any{
		"linkedin_url": "https://linkedin.com/in/janedoe",
	})

	res := app.PostMessage(t, "sess-enrich", "Here's my LinkedIn: https://linkedin.com/in/janedoe")
	assert.Equal(t, 1, analyzer.calls)
	assert.Contains(t, res.Reply, "LinkedIn")

	conv := app.State(t, "sess-enrich")
	bio, ok := conv.Value(models.BucketProfessionalBio)
	require.True(t, ok)
	assert.Equal(t, "CTO with a decade of platform engineering.", bio.String())
	assert.Len(t, conv.Entries(models.BucketExpertiseKeywords), 2)
	assert.True(t, conv.LinkedInAnalyzed)
}

func TestE2E_ReviewThenConfirmBlocked(t *testing.T) {
	app := NewTestApp(t)

	app.LLM.AddClassification("provide_info", 0.9, map[string]any{
		"full_name": "jane doe",
		"email":     "jane@acme.io",
	})
	app.LLM.AddClassification("review", 0.9, nil)
	app.LLM.AddClassification("acknowledgment", 0.9, nil)

	app.PostMessage(t, "sess-review", "I'm Jane Doe, jane@acme.io.")

	res := app.PostMessage(t, "sess-review", "What do you have so far?")
	assert.Contains(t, res.Reply, "Here's what I have so far")

	// Confirming with required buckets still empty is refused.
	res = app.PostMessage(t, "sess-review", "Looks good to me.")
	assert.Contains(t, res.Reply, "still need")
	assert.False(t, res.Summary.Completed)
}
