// Package llm provides the text-in/text-out LLM provider boundary:
// a narrow Client interface plus Anthropic and OpenAI implementations.
// The classifier is the only core consumer; it expects a JSON response
// matching its schema, possibly wrapped in a markdown fence.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrTransport wraps vendor transport failures (timeouts, network, 5xx).
// The classifier converts these into its entity-only fallback.
var ErrTransport = errors.New("llm transport failure")

// Request is one prompt sent to the provider.
type Request struct {
	System      string  // system prompt (may be empty)
	Prompt      string  // user message content
	Model       string  // overrides the configured model when set
	WorkflowTag string  // caller label for logging ("classify_message")
	MaxTokens   int     // 0 means provider default
	Temperature float64 // <0 means provider default
}

// Client is the narrow provider interface the engine consumes.
type Client interface {
	// CreateMessage sends one prompt and returns the raw response text.
	CreateMessage(ctx context.Context, req Request) (string, error)
}

// Provider selects the backing vendor.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// IsValid reports whether the provider is a known value.
func (p Provider) IsValid() bool {
	return p == ProviderAnthropic || p == ProviderOpenAI
}

// Config holds provider settings. cmd maps the YAML config onto this.
type Config struct {
	Provider    Provider
	Model       string
	APIKey      string
	BaseURL     string // optional override for proxies/testing
	MaxTokens   int
	Temperature float64
}

// NewClient builds the configured provider.
func NewClient(cfg Config) (Client, error) {
	switch cfg.Provider {
	case ProviderAnthropic:
		return NewAnthropicClient(cfg), nil
	case ProviderOpenAI:
		return NewOpenAIClient(cfg), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %q", cfg.Provider)
	}
}
