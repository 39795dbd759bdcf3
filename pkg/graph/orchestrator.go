// Package graph runs one conversation turn through an explicit state
// machine: classify, optionally update buckets, then respond. Node
// failures degrade to recovery copy instead of failing the turn.
package graph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/guestwise/guestflow/pkg/buckets"
	"github.com/guestwise/guestflow/pkg/enrich"
	"github.com/guestwise/guestflow/pkg/models"
	"github.com/guestwise/guestflow/pkg/responder"
	"github.com/guestwise/guestflow/pkg/state"
	"github.com/guestwise/guestflow/pkg/strategy"
)

var errNilClassification = errors.New("classifier returned no result")

// maxSteps bounds a turn's node transitions. The graph is acyclic, so
// hitting the bound means a routing bug, not a long conversation.
const maxSteps = 8

// Classifier is the message classification dependency.
type Classifier interface {
	Classify(ctx context.Context, conv *state.Conversation, message string) (*models.ClassificationResult, error)
}

// Orchestrator wires the turn pipeline together. Stateless between
// turns; all conversation state lives on the Conversation it is given.
type Orchestrator struct {
	classifier Classifier
	manager    *buckets.Manager
	strategist *strategy.Engine
	builder    *responder.Builder
	analyzer   enrich.Analyzer
}

// NewOrchestrator creates an Orchestrator. A nil analyzer disables
// LinkedIn enrichment.
func NewOrchestrator(classifier Classifier, manager *buckets.Manager, strategist *strategy.Engine, builder *responder.Builder, analyzer enrich.Analyzer) *Orchestrator {
	if analyzer == nil {
		analyzer = enrich.NopAnalyzer{}
	}
	return &Orchestrator{
		classifier: classifier,
		manager:    manager,
		strategist: strategist,
		builder:    builder,
		analyzer:   analyzer,
	}
}

// Run processes one user message against the conversation and returns
// the assistant reply. The user message must already be appended to the
// log. The only error returned is context cancellation; every other
// failure produces recovery copy.
func (o *Orchestrator) Run(ctx context.Context, conv *state.Conversation, message string) (string, error) {
	t := &turn{conv: conv, message: message}

	current := nodeClassify
	for steps := 0; current != nodeEnd; steps++ {
		if steps >= maxSteps {
			o.recordFailure(conv, string(current), fmt.Errorf("step bound exceeded at node %s", current))
			current = nodeError
			continue
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		current = o.step(ctx, t, current)
	}

	if t.aborted != nil {
		return "", t.aborted
	}
	if t.reply == "" {
		t.reply = o.builder.ErrorReply(conv)
	}
	return t.reply, nil
}

func (o *Orchestrator) step(ctx context.Context, t *turn, current nodeID) nodeID {
	switch current {
	case nodeClassify:
		return o.classifyNode(ctx, t)
	case nodeVerify:
		return o.verifyNode(ctx, t)
	case nodeCheckCompletion:
		return o.checkCompletionNode(ctx, t)
	case nodeUpdateBuckets:
		return o.updateBucketsNode(ctx, t)
	case nodeRespond:
		return o.respondNode(ctx, t)
	case nodeError:
		return o.errorNode(ctx, t)
	default:
		o.recordFailure(t.conv, string(current), fmt.Errorf("unknown node %s", current))
		return nodeError
	}
}

// recordFailure increments the error count and keeps the last error on
// the state for diagnostics.
func (o *Orchestrator) recordFailure(conv *state.Conversation, node string, err error) {
	conv.ErrorCount++
	conv.LastError = fmt.Sprintf("%s: %v", node, err)
	slog.Error("Turn node failed",
		"session_id", conv.SessionID,
		"node", node,
		"error_count", conv.ErrorCount,
		"error", err)
}
