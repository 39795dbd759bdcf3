package events

import "github.com/guestwise/guestflow/pkg/models"

// Event type discriminators carried in every payload's Type field.
const (
	EventTypeTurnCompleted    = "turn.completed"
	EventTypeBucketUpdated    = "bucket.updated"
	EventTypeSessionCompleted = "session.completed"
	EventTypeSessionEvicted   = "session.evicted"
)

// TurnCompletedPayload is published after every processed message.
type TurnCompletedPayload struct {
	Type                 string   `json:"type"` // always EventTypeTurnCompleted
	EventID              string   `json:"event_id"`
	SessionID            string   `json:"session_id"`
	Strategy             string   `json:"strategy,omitempty"` // response strategy for the turn
	UpdatedBuckets       []string `json:"updated_buckets,omitempty"`
	CompletionPercentage float64  `json:"completion_percentage"`
	Timestamp            string   `json:"timestamp"` // RFC3339Nano
}

// BucketUpdatedPayload is published once per bucket that stored a value.
type BucketUpdatedPayload struct {
	Type        string          `json:"type"` // always EventTypeBucketUpdated
	EventID     string          `json:"event_id"`
	SessionID   string          `json:"session_id"`
	BucketID    models.BucketID `json:"bucket_id"`
	IsCorrected bool            `json:"is_corrected"`
	Timestamp   string          `json:"timestamp"` // RFC3339Nano
}

// SessionCompletedPayload is published when the guest confirms the
// finished profile.
type SessionCompletedPayload struct {
	Type        string  `json:"type"` // always EventTypeSessionCompleted
	EventID     string  `json:"event_id"`
	SessionID   string  `json:"session_id"`
	FilledCount int     `json:"filled_count"`
	Percentage  float64 `json:"completion_percentage"`
	Timestamp   string  `json:"timestamp"` // RFC3339Nano
}

// SessionEvictedPayload is published when the cleanup scan removes an
// idle session from the registry.
type SessionEvictedPayload struct {
	Type      string `json:"type"` // always EventTypeSessionEvicted
	EventID   string `json:"event_id"`
	SessionID string `json:"session_id"`
	Reason    string `json:"reason"` // "idle_timeout" or "cleared"
	Timestamp string `json:"timestamp"` // RFC3339Nano
}
