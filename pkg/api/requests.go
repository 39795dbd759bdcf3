package api

import "encoding/json"

// MessageRequest is the body of POST /api/v1/sessions/:id/messages.
// PriorState restores a session the server no longer holds live; it is
// ignored when the session is still in memory.
type MessageRequest struct {
	Message    string          `json:"message"`
	PersonID   string          `json:"person_id"`
	CampaignID string          `json:"campaign_id"`
	PriorState json.RawMessage `json:"prior_state,omitempty"`
}
