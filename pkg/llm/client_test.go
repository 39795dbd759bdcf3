package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderIsValid(t *testing.T) {
	assert.True(t, ProviderAnthropic.IsValid())
	assert.True(t, ProviderOpenAI.IsValid())
	assert.False(t, Provider("ollama").IsValid())
	assert.False(t, Provider("").IsValid())
}

func TestNewClientDispatch(t *testing.T) {
	client, err := NewClient(Config{Provider: ProviderAnthropic})
	require.NoError(t, err)
	assert.IsType(t, &AnthropicClient{}, client)

	client, err = NewClient(Config{Provider: ProviderOpenAI})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, client)

	_, err = NewClient(Config{Provider: "ollama"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown llm provider")
}

// newOpenAIStub returns a completion endpoint that captures the raw
// request body, so assertions can check what reached the wire.
func newOpenAIStub(t *testing.T, captured *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"choices": [{
				"index": 0,
				"message": {"role": "assistant", "content": "{\"user_intent\":\"provide_info\"}"},
				"finish_reason": "stop"
			}]
		}`))
	}))
}

func TestOpenAIClientCreateMessage(t *testing.T) {
	var captured map[string]any
	srv := newOpenAIStub(t, &captured)
	defer srv.Close()

	client := NewOpenAIClient(Config{
		Provider: ProviderOpenAI,
		APIKey:   "test-key",
		Model:    "gpt-4o",
		BaseURL:  srv.URL + "/v1",
	})

	text, err := client.CreateMessage(context.Background(), Request{
		System:      "You classify messages.",
		Prompt:      "my name is Jane",
		WorkflowTag: "classify_message",
		Temperature: -1,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"user_intent":"provide_info"}`, text)

	assert.Equal(t, "gpt-4o", captured["model"])
	messages, ok := captured["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	system, _ := messages[0].(map[string]any)
	user, _ := messages[1].(map[string]any)
	assert.Equal(t, "system", system["role"])
	assert.Equal(t, "user", user["role"])
	assert.Equal(t, "my name is Jane", user["content"])

	// Temperature -1 means unset and must never reach the wire: the API
	// rejects out-of-range values.
	assert.NotContains(t, captured, "temperature")
}

func TestOpenAIClientSendsConfiguredTemperature(t *testing.T) {
	var captured map[string]any
	srv := newOpenAIStub(t, &captured)
	defer srv.Close()

	client := NewOpenAIClient(Config{
		Provider:    ProviderOpenAI,
		APIKey:      "test-key",
		Model:       "gpt-4o",
		BaseURL:     srv.URL + "/v1",
		Temperature: 0.7,
	})

	_, err := client.CreateMessage(context.Background(), Request{Prompt: "hi", Temperature: -1})
	require.NoError(t, err)

	require.Contains(t, captured, "temperature")
	temp, ok := captured["temperature"].(float64)
	require.True(t, ok)
	assert.InDelta(t, 0.7, temp, 0.001)
}

func TestOpenAIClientTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewOpenAIClient(Config{
		Provider: ProviderOpenAI,
		APIKey:   "test-key",
		BaseURL:  srv.URL + "/v1",
	})

	_, err := client.CreateMessage(context.Background(), Request{Prompt: "hi", Temperature: -1})
	require.ErrorIs(t, err, ErrTransport)
}

func TestAnthropicClientCreateMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg-1",
			"type": "message",
			"role": "assistant",
			"model": "claude-sonnet-4-20250514",
			"content": [{"type": "text", "text": "fenced json here"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 5}
		}`))
	}))
	defer srv.Close()

	client := NewAnthropicClient(Config{
		Provider: ProviderAnthropic,
		APIKey:   "test-key",
		BaseURL:  srv.URL,
	})

	text, err := client.CreateMessage(context.Background(), Request{
		Prompt:      "my name is Jane",
		Temperature: -1,
	})
	require.NoError(t, err)
	assert.Equal(t, "fenced json here", text)
}
