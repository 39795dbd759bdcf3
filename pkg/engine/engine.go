// Package engine is the public facade: one call per user message in,
// reply plus serialized state and summary out. All orchestration,
// locking, and event publishing happens behind ProcessMessage.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/guestwise/guestflow/pkg/events"
	"github.com/guestwise/guestflow/pkg/graph"
	"github.com/guestwise/guestflow/pkg/models"
	"github.com/guestwise/guestflow/pkg/session"
	"github.com/guestwise/guestflow/pkg/state"
)

// ProcessInput is one user message addressed to a session. PriorState
// restores a session the registry no longer holds live.
type ProcessInput struct {
	SessionID  string
	PersonID   string
	CampaignID string
	Message    string
	PriorState []byte
}

// ProcessResult is the outcome of one turn.
type ProcessResult struct {
	SessionID string
	Reply     string
	State     []byte
	Summary   models.Summary
}

// Engine ties the registry, the turn graph, and the event bus together.
type Engine struct {
	registry     *session.Registry
	orchestrator *graph.Orchestrator
	bus          *events.Bus
}

// New creates an Engine. A nil bus disables event publishing.
func New(orchestrator *graph.Orchestrator, registry *session.Registry, bus *events.Bus) *Engine {
	return &Engine{
		registry:     registry,
		orchestrator: orchestrator,
		bus:          bus,
	}
}

// Registry exposes the session registry for transports and cleanup.
func (e *Engine) Registry() *session.Registry {
	return e.registry
}

// ProcessMessage runs one turn. It errors only on empty input, an
// unusable prior blob, or context cancellation; every degraded path
// still returns a reply and a valid state blob. The turn runs on a
// clone, so a canceled call leaves the prior state untouched.
func (e *Engine) ProcessMessage(ctx context.Context, in ProcessInput) (ProcessResult, error) {
	if strings.TrimSpace(in.Message) == "" {
		return ProcessResult{}, models.ErrEmptyMessage
	}

	handle, err := e.registry.Acquire(in.SessionID, in.PersonID, in.CampaignID, in.PriorState)
	if err != nil {
		return ProcessResult{}, err
	}
	defer handle.Release()

	wasConfirmed := handle.Conversation.CompletionConfirmed

	clone := handle.Conversation.Clone()
	userIdx := clone.AddMessage(models.RoleUser, in.Message)

	reply, err := e.orchestrator.Run(ctx, clone, in.Message)
	if err != nil {
		// Cancellation mid-turn: discard the clone, prior state stands.
		return ProcessResult{}, err
	}
	clone.AddMessage(models.RoleAssistant, reply)
	handle.Commit(clone)

	blob, err := clone.Serialize()
	if err != nil {
		return ProcessResult{}, fmt.Errorf("serialize session %s: %w", handle.SessionID, err)
	}

	summary := Summarize(clone)
	updated := updatedThisTurn(clone, userIdx)
	e.publishTurnEvents(handle.SessionID, clone, summary, updated, userIdx, wasConfirmed)

	slog.Info("Turn processed",
		"session_id", handle.SessionID,
		"updated_buckets", len(updated),
		"completion_percentage", summary.CompletionPercentage)

	return ProcessResult{
		SessionID: handle.SessionID,
		Reply:     reply,
		State:     blob,
		Summary:   summary,
	}, nil
}

// GetSummary computes the summary for a serialized state blob without
// touching the registry.
func (e *Engine) GetSummary(blob []byte) (models.Summary, error) {
	conv, err := state.Deserialize(blob)
	if err != nil {
		return models.Summary{}, err
	}
	return Summarize(conv), nil
}

// SessionSummary returns the summary of a live session.
func (e *Engine) SessionSummary(sessionID string) (models.Summary, error) {
	conv, err := e.registry.Get(sessionID)
	if err != nil {
		return models.Summary{}, err
	}
	return Summarize(conv), nil
}

// updatedThisTurn finds buckets that gained or replaced an entry during
// the turn, identified by the user message index stamped on entries.
func updatedThisTurn(conv *state.Conversation, userIdx int) []models.BucketID {
	var updated []models.BucketID
	for _, id := range conv.Filled() {
		for _, entry := range conv.Entries(id) {
			if entry.SourceMessageIndex == userIdx {
				updated = append(updated, id)
				break
			}
		}
	}
	return updated
}

func (e *Engine) publishTurnEvents(sessionID string, conv *state.Conversation, summary models.Summary, updated []models.BucketID, userIdx int, wasConfirmed bool) {
	if e.bus == nil {
		return
	}

	for _, id := range updated {
		corrected := false
		for _, c := range conv.UserCorrections {
			if c.BucketID == id && c.MessageIndex == userIdx {
				corrected = true
				break
			}
		}
		e.bus.Publish(events.EventTypeBucketUpdated, sessionID, events.BucketUpdatedPayload{
			Type:        events.EventTypeBucketUpdated,
			EventID:     events.NewEventID(),
			SessionID:   sessionID,
			BucketID:    id,
			IsCorrected: corrected,
			Timestamp:   events.Now(),
		})
	}

	names := make([]string, 0, len(updated))
	for _, id := range updated {
		names = append(names, string(id))
	}
	e.bus.Publish(events.EventTypeTurnCompleted, sessionID, events.TurnCompletedPayload{
		Type:                 events.EventTypeTurnCompleted,
		EventID:              events.NewEventID(),
		SessionID:            sessionID,
		UpdatedBuckets:       names,
		CompletionPercentage: summary.CompletionPercentage,
		Timestamp:            events.Now(),
	})

	if conv.CompletionConfirmed && !wasConfirmed {
		e.bus.Publish(events.EventTypeSessionCompleted, sessionID, events.SessionCompletedPayload{
			Type:        events.EventTypeSessionCompleted,
			EventID:     events.NewEventID(),
			SessionID:   sessionID,
			FilledCount: summary.FilledCount,
			Percentage:  summary.CompletionPercentage,
			Timestamp:   events.Now(),
		})
	}
}
