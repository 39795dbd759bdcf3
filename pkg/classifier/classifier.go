// Package classifier turns one free-text user message into a structured
// ClassificationResult: intent plus proposed bucket updates. It combines a
// deterministic regex entity pass with an LLM call, and degrades to the
// entity pass alone when the LLM path fails.
package classifier

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/guestwise/guestflow/pkg/entities"
	"github.com/guestwise/guestflow/pkg/llm"
	"github.com/guestwise/guestflow/pkg/models"
	"github.com/guestwise/guestflow/pkg/state"
)

const (
	workflowTag    = "classify_message"
	defaultTimeout = 30 * time.Second

	// fallbackConfidence is assigned to entity-derived updates when the
	// LLM path fails; high enough to clear the bucket manager's floor.
	fallbackConfidence = 0.7
)

// Classifier classifies user messages. Safe for concurrent use across
// sessions; the LLM client is shared.
type Classifier struct {
	client  llm.Client
	prompts *PromptBuilder
	timeout time.Duration
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithTimeout overrides the per-call LLM timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Classifier) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// New creates a Classifier backed by the given LLM client.
func New(client llm.Client, opts ...Option) *Classifier {
	c := &Classifier{
		client:  client,
		prompts: NewPromptBuilder(),
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify interprets one user message against the conversation state.
// No error escapes: LLM transport failures and unparsable responses both
// degrade to the deterministic entity-only fallback. Context cancellation
// is the one exception: the caller's turn is being abandoned, so the
// (fallback) result is returned alongside ctx.Err().
func (c *Classifier) Classify(ctx context.Context, conv *state.Conversation, message string) (*models.ClassificationResult, error) {
	ents := entities.Extract(message)

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	response, err := c.client.CreateMessage(callCtx, llm.Request{
		System:      c.prompts.System(),
		Prompt:      c.prompts.Build(conv, message, ents),
		WorkflowTag: workflowTag,
		Temperature: -1,
	})
	if err != nil {
		if ctx.Err() != nil {
			return c.fallback(ents), ctx.Err()
		}
		slog.Warn("LLM classification call failed, using entity fallback",
			"session_id", conv.SessionID, "error", err)
		return c.fallback(ents), nil
	}

	result, err := ParseResponse(response)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			slog.Warn("LLM classification unparsable, using entity fallback",
				"session_id", conv.SessionID, "reason", parseErr.Reason)
		}
		return c.fallback(ents), nil
	}

	// The regex pass is more reliable than the LLM for wire-format fields;
	// backfill anything the LLM missed.
	mergeEntities(result, ents)
	return result, nil
}

// fallback builds the deterministic entity-only result.
func (c *Classifier) fallback(ents entities.Entities) *models.ClassificationResult {
	result := &models.ClassificationResult{
		BucketUpdates:    make(map[models.BucketID]models.RawUpdate),
		UserIntent:       models.IntentProvideInfo,
		IntentConfidence: 0.3,
		Ambiguous:        true,
		Reasoning:        "llm unavailable; regex entities only",
		FromFallback:     true,
	}
	mergeEntities(result, ents)
	return result
}

// mergeEntities adds regex-extracted entities for buckets the result does
// not already propose.
func mergeEntities(result *models.ClassificationResult, ents entities.Entities) {
	add := func(id models.BucketID, value any) {
		if _, exists := result.BucketUpdates[id]; exists {
			return
		}
		result.BucketUpdates[id] = models.RawUpdate{Value: value, Confidence: fallbackConfidence}
	}
	if ents.Email != "" {
		add(models.BucketEmail, ents.Email)
	}
	if ents.Phone != "" {
		add(models.BucketPhone, ents.Phone)
	}
	if ents.LinkedIn != "" {
		add(models.BucketLinkedInURL, ents.LinkedIn)
	}
	if ents.Website != "" {
		add(models.BucketWebsite, ents.Website)
	}
	if ents.HasYears {
		add(models.BucketYearsExperience, ents.Years)
	}
}
