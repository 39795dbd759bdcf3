// Package strategy decides what the assistant should do next: it reads
// conversation state plus the latest classification and update result,
// detects communication style and frustration, and picks a response
// strategy with priority buckets.
package strategy

import (
	"log/slog"

	"github.com/guestwise/guestflow/pkg/models"
	"github.com/guestwise/guestflow/pkg/state"
)

// ResponseStrategy is the coarse category of the next reply.
type ResponseStrategy string

const (
	WarmWelcome         ResponseStrategy = "warm_welcome"
	ConversationRescue  ResponseStrategy = "conversation_rescue"
	CompletionBlocked   ResponseStrategy = "completion_blocked"
	CompletionReady     ResponseStrategy = "completion_ready"
	ClarifyAmbiguous    ResponseStrategy = "clarify_ambiguous"
	AcknowledgeProgress ResponseStrategy = "acknowledge_progress"
	GatherRequired      ResponseStrategy = "gather_required"
	GatherOptional      ResponseStrategy = "gather_optional"
)

// frustrationThreshold triggers the rescue path.
const frustrationThreshold = 3

// Decision is the strategy engine's output for one turn.
type Decision struct {
	Strategy        ResponseStrategy
	PriorityBuckets []models.BucketID
	Style           Style
	Reason          string
}

// Engine selects response strategies. Stateless; safe to share.
type Engine struct{}

// NewEngine creates an Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Decide inspects state and the turn's classification/update outcome,
// updates style, momentum, and frustration on the state, and returns the
// strategy decision. First matching rule wins.
func (e *Engine) Decide(conv *state.Conversation, classification *models.ClassificationResult, updateResult *models.UpdateResult) Decision {
	style := DetectStyle(conv)
	conv.Style = CommunicationStyle(style)

	triggers := DetectFrustration(conv, updateResult)
	e.updateMomentum(conv, updateResult, len(triggers) > 0)

	completionRequested := classification != nil && classification.UserIntent == models.IntentCompletion
	emptyRequired := prioritizedEmpty(conv, requiredPriority, true)
	emptyOptional := prioritizedEmpty(conv, optionalPriority, false)
	justUpdated := updateResult != nil && len(updateResult.Updated) > 0

	d := Decision{Style: style}
	switch {
	case len(conv.Messages) <= 2:
		d.Strategy = WarmWelcome
		d.PriorityBuckets = []models.BucketID{models.BucketFullName}
		if conv.IsFilled(models.BucketFullName) {
			// The opener already carried the name (or an enrichment
			// prefilled it); greet and ask the next gap instead.
			d.PriorityBuckets = topN(emptyRequired, 1)
		}
		d.Reason = "conversation just started"

	case len(conv.FrustrationIndicators) > frustrationThreshold || conv.Momentum == state.MomentumStalled:
		d.Strategy = ConversationRescue
		d.PriorityBuckets = emptyOf(conv, rescueBuckets)
		d.Reason = "frustration or stalled momentum"

	case completionRequested && len(emptyRequired) > 0:
		d.Strategy = CompletionBlocked
		d.PriorityBuckets = topN(emptyRequired, 2)
		d.Reason = "completion requested with required buckets empty"

	case completionRequested:
		d.Strategy = CompletionReady
		d.Reason = "completion requested and profile complete"

	case classification != nil && (classification.Ambiguous || classification.NeedsClarification):
		d.Strategy = ClarifyAmbiguous
		d.Reason = "classification ambiguous"

	case justUpdated && conv.Momentum == state.MomentumFlowing:
		d.Strategy = AcknowledgeProgress
		d.PriorityBuckets = nextLogical(conv, updateResult.Updated, style)
		d.Reason = "progress made, conversation flowing"

	case len(emptyRequired) > 0:
		d.Strategy = GatherRequired
		d.PriorityBuckets = groupedPick(conv, emptyRequired[0], groupCap(style))
		d.Reason = "required buckets remain"

	case len(emptyOptional) > 0:
		d.Strategy = GatherOptional
		d.PriorityBuckets = groupedPick(conv, emptyOptional[0], groupCap(style))
		d.Reason = "only optional buckets remain"

	default:
		d.Strategy = CompletionReady
		d.Reason = "everything is filled"
	}

	slog.Debug("Strategy decided",
		"session_id", conv.SessionID,
		"strategy", d.Strategy,
		"style", d.Style,
		"priority_buckets", d.PriorityBuckets,
		"reason", d.Reason)
	return d
}

// updateMomentum reads the turn outcome into the momentum flag.
func (e *Engine) updateMomentum(conv *state.Conversation, updateResult *models.UpdateResult, frustratedNow bool) {
	switch {
	case frustratedNow || conv.ErrorCount > 3:
		conv.Momentum = state.MomentumStalled
	case updateResult != nil && len(updateResult.Updated) > 0:
		conv.Momentum = state.MomentumFlowing
	default:
		if conv.Momentum != state.MomentumStalled {
			conv.Momentum = state.MomentumSteady
		}
	}
}

func emptyOf(conv *state.Conversation, ids []models.BucketID) []models.BucketID {
	var out []models.BucketID
	for _, id := range ids {
		if !conv.IsFilled(id) {
			out = append(out, id)
		}
	}
	return out
}

func topN(ids []models.BucketID, n int) []models.BucketID {
	if len(ids) <= n {
		return ids
	}
	return ids[:n]
}
