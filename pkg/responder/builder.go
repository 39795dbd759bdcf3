// Package responder composes the assistant's reply for a turn from the
// strategy decision, the conversation state, and the question templates.
package responder

import (
	"log/slog"
	"strings"

	"github.com/guestwise/guestflow/pkg/catalog"
	"github.com/guestwise/guestflow/pkg/models"
	"github.com/guestwise/guestflow/pkg/questions"
	"github.com/guestwise/guestflow/pkg/state"
	"github.com/guestwise/guestflow/pkg/strategy"
)

// Input carries everything a reply is built from.
type Input struct {
	Conversation   *state.Conversation
	Decision       strategy.Decision
	Classification *models.ClassificationResult
	UpdateResult   *models.UpdateResult
}

// Builder renders replies. Safe for reuse across turns of one session;
// the generator's rand source makes it per-engine, not global.
type Builder struct {
	gen *questions.Generator
}

// NewBuilder creates a Builder around the given question generator.
func NewBuilder(gen *questions.Generator) *Builder {
	return &Builder{gen: gen}
}

// Build produces the assistant utterance for the turn. It may flip
// review and confirmation flags on the conversation as a side effect.
func (b *Builder) Build(in Input) string {
	conv := in.Conversation

	if conv.AwaitingConfirmation == state.AwaitingProfileReview {
		if reply, handled := b.handleConfirmation(in); handled {
			return polish(reply, true)
		}
		// Fall through: the guest kept talking instead of confirming.
	}

	if in.Classification != nil {
		switch in.Classification.UserIntent {
		case models.IntentReview:
			return polish(b.reviewReply(conv), true)
		case models.IntentHintLinkedIn:
			return polish("Happy to save you some typing — paste your LinkedIn profile URL and I'll pull your background from there. What's the link?", false)
		}
	}

	isSummary := false
	var reply string
	switch in.Decision.Strategy {
	case strategy.WarmWelcome:
		reply = b.welcomeReply(in)
	case strategy.ConversationRescue:
		reply = b.rescueReply(in)
	case strategy.CompletionBlocked:
		reply = b.blockedReply(conv)
	case strategy.CompletionReady:
		reply = b.completionReadyReply(conv)
		isSummary = true
	case strategy.ClarifyAmbiguous:
		reply = b.gen.Clarification()
	case strategy.AcknowledgeProgress, strategy.GatherRequired, strategy.GatherOptional:
		reply = b.gatherReply(in)
	default:
		slog.Warn("Unknown strategy, falling back to gather",
			"session_id", conv.SessionID, "strategy", in.Decision.Strategy)
		reply = b.gatherReply(in)
	}

	return polish(reply, isSummary)
}

// ErrorReply is the error node's copy. After repeated failures it closes
// out the turn loop instead of asking again.
func (b *Builder) ErrorReply(conv *state.Conversation) string {
	if conv.ErrorCount > 3 {
		return polish("I'm running into technical difficulties on my end. Your progress is saved, so please check back in a little while and we'll pick up right where we left off.", false)
	}
	return polish("Sorry, I didn't quite catch that. Could you say it once more?", false)
}

// handleConfirmation routes a turn that arrived while the profile-review
// gate was open. Returns handled=false when the guest provided new data
// instead, in which case normal routing proceeds with the gate cleared.
func (b *Builder) handleConfirmation(in Input) (string, bool) {
	conv := in.Conversation

	intent := models.IntentProvideInfo
	if in.Classification != nil {
		intent = in.Classification.UserIntent
	}

	switch {
	case intent == models.IntentCompletion || intent == models.IntentAcknowledgment:
		if !conv.ConfirmCompletion() {
			return b.blockedReply(conv), true
		}
		return "Perfect, your guest profile is confirmed and complete! Podcast hosts will now see the full picture. Thanks for taking the time, and good luck with the bookings.", true
	case intent == models.IntentCorrection || (in.UpdateResult != nil && in.UpdateResult.Any()):
		conv.SetAwaitingConfirmation("")
		return "", false
	default:
		return "Just to confirm before we wrap up: does everything in the summary look right? Say \"yes\" to finalize, or tell me what to change.", true
	}
}

func (b *Builder) reviewReply(conv *state.Conversation) string {
	conv.SetAwaitingConfirmation(state.AwaitingProfileReview)
	summary := CategorizedSummary(conv)
	if missing := conv.EmptyRequired(); len(missing) > 0 {
		return summary + "\n\nStill missing: " + missingSummary(missing, 3) + ". Want to fill those in, or change anything above?"
	}
	return summary + "\n\nDoes everything look right? Say \"yes\" to finalize, or tell me what to change."
}

func (b *Builder) completionReadyReply(conv *state.Conversation) string {
	conv.SetAwaitingConfirmation(state.AwaitingProfileReview)
	return CategorizedSummary(conv) + "\n\nThat's everything I need! Does it all look right? Say \"yes\" to finalize, or tell me what to change."
}

func (b *Builder) blockedReply(conv *state.Conversation) string {
	missing := conv.EmptyRequired()
	return "Almost there! Before I can finalize your profile I still need: " + missingSummary(missing, 3) + ". " +
		b.question(conv, topPriority(missing, 1), strategy.StyleCasual)
}

func (b *Builder) welcomeReply(in Input) string {
	conv := in.Conversation
	parts := []string{"Welcome! I'm here to build your podcast guest profile, so hosts can see who you are and what you bring to a show. It only takes a short chat."}
	if note := b.linkedInNote(conv, in.UpdateResult); note != "" {
		parts = append(parts, note)
	}
	if q := b.question(conv, in.Decision.PriorityBuckets, in.Decision.Style); q != "" {
		parts = append(parts, q)
	}
	return strings.Join(parts, " ")
}

func (b *Builder) rescueReply(in Input) string {
	conv := in.Conversation
	opener := b.gen.RescueOpener()
	q := b.question(conv, in.Decision.PriorityBuckets, in.Decision.Style)
	if q == "" {
		// Essentials are covered; offer the review path instead.
		return opener + " The essentials are already covered. Want me to show you what I have so far?"
	}
	return opener + " " + q
}

// gatherReply handles the acknowledge and gather strategies: optional
// LinkedIn enrichment note, optional transition, and a question.
func (b *Builder) gatherReply(in Input) string {
	conv := in.Conversation
	var parts []string

	if note := b.linkedInNote(conv, in.UpdateResult); note != "" {
		parts = append(parts, note)
	}

	q := b.question(conv, in.Decision.PriorityBuckets, in.Decision.Style)
	if q == "" {
		parts = append(parts, "That's everything on my list! Say \"review\" to see your profile, or \"done\" to finalize it.")
		return strings.Join(parts, " ")
	}

	acknowledged := in.UpdateResult != nil && in.UpdateResult.Any() && len(parts) == 0
	parts = append(parts, b.gen.Transition(conv, q, acknowledged))
	return strings.Join(parts, " ")
}

// linkedInNote acknowledges an enrichment that just ran: the guest
// should know what was prefilled so they can correct it.
func (b *Builder) linkedInNote(conv *state.Conversation, updateResult *models.UpdateResult) string {
	if updateResult == nil || !conv.LinkedInAnalyzed || len(conv.PrefilledBuckets) == 0 {
		return ""
	}
	stored := false
	for _, id := range updateResult.Updated {
		if id == models.BucketLinkedInURL {
			stored = true
			break
		}
	}
	if !stored {
		return ""
	}

	names := make([]string, 0, len(conv.PrefilledBuckets))
	for _, id := range conv.PrefilledBuckets {
		names = append(names, strings.ToLower(catalog.HumanName(id)))
	}
	listed := names
	suffix := ""
	if len(listed) > 3 {
		suffix = " and more"
		listed = listed[:3]
	}
	return "I took a look at your LinkedIn profile and prefilled your " + strings.Join(listed, ", ") + suffix + ". Feel free to correct anything that's off."
}

// question renders the ask and guarantees an interrogative when buckets
// are being gathered.
func (b *Builder) question(conv *state.Conversation, ids []models.BucketID, style strategy.Style) string {
	if len(ids) == 0 {
		return ""
	}
	q := b.gen.Question(conv, ids, style)
	if !strings.Contains(q, "?") {
		q += " What should I note down?"
	}
	return q
}

func topPriority(ids []models.BucketID, n int) []models.BucketID {
	if len(ids) <= n {
		return ids
	}
	return ids[:n]
}
