package api

import "github.com/guestwise/guestflow/pkg/models"

// MessageResponse is the outcome of one processed turn.
type MessageResponse struct {
	SessionID string         `json:"session_id"`
	Reply     string         `json:"reply"`
	Summary   models.Summary `json:"summary"`
}

// ErrorResponse carries a client-safe error message.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthCheck is the status of a single dependency.
type HealthCheck struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status       string                 `json:"status"`
	Version      string                 `json:"version"`
	LiveSessions int                    `json:"live_sessions"`
	Checks       map[string]HealthCheck `json:"checks,omitempty"`
}
