package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicModel = "claude-sonnet-4-20250514"

// AnthropicClient implements Client against the Anthropic Messages API.
// Safe for concurrent use; the SDK client is shared across sessions.
type AnthropicClient struct {
	client      anthropic.Client
	model       string
	maxTokens   int
	temperature float64
}

// NewAnthropicClient creates an Anthropic-backed client.
func NewAnthropicClient(cfg Config) *AnthropicClient {
	options := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		options = append(options, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2048
	}

	return &AnthropicClient{
		client:      anthropic.NewClient(options...),
		model:       model,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
	}
}

// CreateMessage implements Client.
func (c *AnthropicClient) CreateMessage(ctx context.Context, req Request) (string, error) {
	start := time.Now()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.modelFor(req)),
		MaxTokens: int64(c.maxTokensFor(req)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Type: "text", Text: req.System}}
	}
	if temp := c.temperatureFor(req); temp >= 0 {
		params.Temperature = anthropic.Float(temp)
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: anthropic: %v", ErrTransport, err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	slog.Debug("Anthropic call completed",
		"workflow", req.WorkflowTag,
		"model", params.Model,
		"duration", time.Since(start),
		"response_chars", sb.Len())
	return sb.String(), nil
}

func (c *AnthropicClient) modelFor(req Request) string {
	if req.Model != "" {
		return req.Model
	}
	return c.model
}

func (c *AnthropicClient) maxTokensFor(req Request) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	return c.maxTokens
}

func (c *AnthropicClient) temperatureFor(req Request) float64 {
	if req.Temperature >= 0 {
		return req.Temperature
	}
	return c.temperature
}
