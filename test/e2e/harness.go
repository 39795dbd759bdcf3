package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/guestwise/guestflow/pkg/api"
	"github.com/guestwise/guestflow/pkg/buckets"
	"github.com/guestwise/guestflow/pkg/classifier"
	"github.com/guestwise/guestflow/pkg/engine"
	"github.com/guestwise/guestflow/pkg/enrich"
	"github.com/guestwise/guestflow/pkg/events"
	"github.com/guestwise/guestflow/pkg/graph"
	"github.com/guestwise/guestflow/pkg/questions"
	"github.com/guestwise/guestflow/pkg/responder"
	"github.com/guestwise/guestflow/pkg/session"
	"github.com/guestwise/guestflow/pkg/state"
	"github.com/guestwise/guestflow/pkg/strategy"
)

// TestApp is a fully wired stack behind the real HTTP router, with the
// LLM replaced by a script.
type TestApp struct {
	Router http.Handler
	LLM    *ScriptedLLMClient
	Bus    *events.Bus
}

// Option configures the TestApp.
type Option func(*appConfig)

type appConfig struct {
	analyzer enrich.Analyzer
}

// WithAnalyzer enables LinkedIn enrichment with the given analyzer.
func WithAnalyzer(a enrich.Analyzer) Option {
	return func(cfg *appConfig) {
		cfg.analyzer = a
	}
}

// NewTestApp assembles classifier, graph, engine, bus, and router.
func NewTestApp(t *testing.T, opts ...Option) *TestApp {
	t.Helper()

	var cfg appConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	llmClient := NewScriptedLLMClient()
	bus := events.NewBus()

	orchestrator := graph.NewOrchestrator(
		classifier.New(llmClient),
		buckets.NewManager(),
		strategy.NewEngine(),
		responder.NewBuilder(questions.NewGenerator(1)),
		cfg.analyzer,
	)
	eng := engine.New(orchestrator, session.NewRegistry(), bus)

	return &TestApp{
		Router: api.NewServer(eng, bus, nil).Router(),
		LLM:    llmClient,
		Bus:    bus,
	}
}

// PostMessage sends one turn and requires HTTP 200.
func (a *TestApp) PostMessage(t *testing.T, sessionID, message string) api.MessageResponse {
	t.Helper()

	body, err := json.Marshal(api.MessageRequest{Message: message, PersonID: "person-1"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+sessionID+"/messages", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	var res api.MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

// State fetches and deserializes the session's conversation.
func (a *TestApp) State(t *testing.T, sessionID string) *state.Conversation {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+sessionID+"/state", nil)
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	conv, err := state.Deserialize(rec.Body.Bytes())
	require.NoError(t, err)
	return conv
}
