package graph

import (
	"context"
	"log/slog"

	"github.com/guestwise/guestflow/pkg/enrich"
	"github.com/guestwise/guestflow/pkg/models"
	"github.com/guestwise/guestflow/pkg/responder"
	"github.com/guestwise/guestflow/pkg/state"
)

// turn is the state threaded through the nodes of one message's run.
type turn struct {
	conv           *state.Conversation
	message        string
	classification *models.ClassificationResult
	updateResult   *models.UpdateResult
	reply          string
	aborted        error
}

func isCompletionIntent(c *models.ClassificationResult) bool {
	return c.UserIntent == models.IntentCompletion
}

func isReviewIntent(c *models.ClassificationResult) bool {
	return c.UserIntent == models.IntentReview
}

// classifyNode runs the message classifier. Cancellation aborts the
// turn; any other failure routes to the error node.
func (o *Orchestrator) classifyNode(ctx context.Context, t *turn) nodeID {
	result, err := o.classifier.Classify(ctx, t.conv, t.message)
	if err != nil {
		if ctx.Err() != nil {
			t.aborted = err
			return nodeEnd
		}
		o.recordFailure(t.conv, "classify", err)
		return nodeError
	}
	if result == nil {
		o.recordFailure(t.conv, "classify", errNilClassification)
		return nodeError
	}
	t.classification = result
	if isCompletionIntent(result) {
		if last, ok := t.conv.LastUserMessage(); ok {
			t.conv.AddCompletionSignal(last.Content)
		}
	}
	return routeFromClassify(t)
}

// verifyNode asks for clarification and ends the turn.
func (o *Orchestrator) verifyNode(_ context.Context, t *turn) nodeID {
	t.reply = o.builder.Build(responder.Input{
		Conversation:   t.conv,
		Decision:       o.strategist.Decide(t.conv, t.classification, t.updateResult),
		Classification: t.classification,
		UpdateResult:   t.updateResult,
	})
	return nodeEnd
}

// checkCompletionNode re-asserts the completion invariant for an
// already-confirmed profile: required buckets may have been corrected
// away since confirmation.
func (o *Orchestrator) checkCompletionNode(_ context.Context, t *turn) nodeID {
	if missing := t.conv.EmptyRequired(); len(missing) > 0 {
		t.conv.CompletionConfirmed = false
		slog.Info("Confirmed profile no longer complete",
			"session_id", t.conv.SessionID, "missing", missing)
	}
	t.reply = o.builder.Build(responder.Input{
		Conversation:   t.conv,
		Decision:       o.strategist.Decide(t.conv, t.classification, t.updateResult),
		Classification: t.classification,
		UpdateResult:   t.updateResult,
	})
	return nodeEnd
}

// updateBucketsNode applies classified updates, then runs the LinkedIn
// enrichment side effect on a first-time linkedin_url store.
func (o *Orchestrator) updateBucketsNode(ctx context.Context, t *turn) nodeID {
	t.updateResult = o.manager.Apply(t.conv, t.classification, t.message)

	if t.updateResult.Any() {
		for _, id := range t.updateResult.Updated {
			if id == models.BucketLinkedInURL {
				o.enrichFromLinkedIn(ctx, t.conv)
				break
			}
		}
	}
	return nodeRespond
}

// respondNode builds the assistant reply from the strategy decision.
func (o *Orchestrator) respondNode(_ context.Context, t *turn) nodeID {
	decision := o.strategist.Decide(t.conv, t.classification, t.updateResult)
	t.reply = o.builder.Build(responder.Input{
		Conversation:   t.conv,
		Decision:       decision,
		Classification: t.classification,
		UpdateResult:   t.updateResult,
	})
	return nodeEnd
}

// errorNode emits recovery copy. Session state stays consistent; after
// repeated failures momentum is marked stalled and the copy closes out.
func (o *Orchestrator) errorNode(_ context.Context, t *turn) nodeID {
	if t.conv.ErrorCount > 3 {
		t.conv.Momentum = state.MomentumStalled
	}
	t.reply = o.builder.ErrorReply(t.conv)
	return nodeEnd
}

// enrichFromLinkedIn runs at most once per session. Failures are logged
// and swallowed; the turn continues without prefill.
func (o *Orchestrator) enrichFromLinkedIn(ctx context.Context, conv *state.Conversation) {
	if conv.LinkedInAnalyzed {
		return
	}
	stored, ok := conv.Value(models.BucketLinkedInURL)
	if !ok {
		return
	}
	conv.LinkedInAnalyzed = true

	profile, err := o.analyzer.Analyze(ctx, stored.String())
	if err != nil {
		slog.Warn("LinkedIn enrichment failed",
			"session_id", conv.SessionID, "error", err)
		return
	}
	if profile == nil {
		slog.Debug("LinkedIn enrichment yielded no profile",
			"session_id", conv.SessionID)
		return
	}

	prefilled := prefillFromProfile(conv, profile)
	conv.PrefilledBuckets = append(conv.PrefilledBuckets, prefilled...)
	slog.Info("LinkedIn enrichment applied",
		"session_id", conv.SessionID, "prefilled", prefilled)
}

// prefillConfidence marks enrichment-sourced entries below direct user
// statements, so later corrections read as corrections.
const prefillConfidence = 0.8

// prefillFromProfile fills empty buckets from the enrichment result and
// returns the bucket ids that received at least one value.
func prefillFromProfile(conv *state.Conversation, profile *enrich.Profile) []models.BucketID {
	var prefilled []models.BucketID
	store := func(id models.BucketID, values ...models.Value) {
		if len(conv.Entries(id)) > 0 {
			return
		}
		storedAny := false
		for _, v := range values {
			if conv.UpdateBucket(id, v, prefillConfidence, false) {
				storedAny = true
			}
		}
		if storedAny {
			prefilled = append(prefilled, id)
		}
	}

	if profile.ProfessionalBio != "" {
		store(models.BucketProfessionalBio, models.TextValue(profile.ProfessionalBio))
	}
	store(models.BucketExpertiseKeywords, textValues(profile.ExpertiseKeywords)...)
	if profile.YearsExperience > 0 {
		store(models.BucketYearsExperience, models.NumberValue(profile.YearsExperience))
	}
	store(models.BucketSuccessStories, textValues(profile.SuccessStories)...)
	store(models.BucketPodcastTopics, textValues(profile.PodcastTopics)...)
	if profile.UniquePerspective != "" {
		store(models.BucketUniquePerspective, models.TextValue(profile.UniquePerspective))
	}
	if profile.TargetAudience != "" {
		store(models.BucketTargetAudience, models.TextValue(profile.TargetAudience))
	}
	store(models.BucketAchievements, textValues(profile.KeyAchievements)...)
	return prefilled
}

func textValues(items []string) []models.Value {
	out := make([]models.Value, 0, len(items))
	for _, item := range items {
		if item == "" {
			continue
		}
		out = append(out, models.TextValue(item))
	}
	return out
}
