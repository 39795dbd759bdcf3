package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/guestwise/guestflow/pkg/llm"
)

// LLMScriptEntry is one scripted classifier response.
type LLMScriptEntry struct {
	Text  string // raw response text, usually classification JSON
	Error error  // returned instead of text when set
}

// ScriptedLLMClient implements llm.Client with a fixed sequence of
// responses, consumed one per CreateMessage call.
type ScriptedLLMClient struct {
	mu              sync.Mutex
	entries         []LLMScriptEntry
	index           int
	capturedPrompts []string
}

// NewScriptedLLMClient creates an empty script.
func NewScriptedLLMClient() *ScriptedLLMClient {
	return &ScriptedLLMClient{}
}

// Add appends an entry to the script.
func (c *ScriptedLLMClient) Add(entry LLMScriptEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, entry)
}

// AddClassification appends a classification JSON entry. updates maps
// bucket id to raw value; every update carries the given confidence.
func (c *ScriptedLLMClient) AddClassification(intent string, confidence float64, updates map[string]any) {
	raw := map[string]any{
		"bucket_updates":    wrapUpdates(updates, confidence),
		"user_intent":       intent,
		"intent_confidence": confidence,
	}
	payload, _ := json.Marshal(raw)
	c.Add(LLMScriptEntry{Text: "```json\n" + string(payload) + "\n```"})
}

// AddClarificationNeeded appends an ambiguous classification.
func (c *ScriptedLLMClient) AddClarificationNeeded() {
	c.Add(LLMScriptEntry{Text: `{"bucket_updates":{},"user_intent":"provide_info","intent_confidence":0.3,"ambiguous":true,"needs_clarification":true}`})
}

// CreateMessage implements llm.Client.
func (c *ScriptedLLMClient) CreateMessage(_ context.Context, req llm.Request) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.capturedPrompts = append(c.capturedPrompts, req.Prompt)
	if c.index >= len(c.entries) {
		return "", fmt.Errorf("llm script exhausted after %d calls", c.index)
	}
	entry := c.entries[c.index]
	c.index++

	if entry.Error != nil {
		return "", entry.Error
	}
	return entry.Text, nil
}

// Calls reports how many responses were consumed.
func (c *ScriptedLLMClient) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// CapturedPrompts returns the prompts sent so far.
func (c *ScriptedLLMClient) CapturedPrompts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.capturedPrompts...)
}

func wrapUpdates(updates map[string]any, confidence float64) map[string]any {
	wrapped := make(map[string]any, len(updates))
	for id, value := range updates {
		wrapped[id] = map[string]any{"value": value, "confidence": confidence}
	}
	return wrapped
}
