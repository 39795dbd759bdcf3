package models

import "time"

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of the conversation log. The log is append-only;
// corrections mutate bucket entries, never messages.
type Message struct {
	Role      Role              `json:"role"`
	Content   string            `json:"content"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Entry is one timestamped value stored in a bucket.
type Entry struct {
	Value              Value     `json:"value"`
	Confidence         float64   `json:"confidence"`
	Timestamp          time.Time `json:"timestamp"`
	SourceMessageIndex int       `json:"source_message_index"`
	IsCorrected        bool      `json:"is_corrected,omitempty"`
	PreviousValue      *Value    `json:"previous_value,omitempty"`
}

// Clone returns a deep copy of the entry.
func (e Entry) Clone() Entry {
	out := e
	out.Value = e.Value.Clone()
	if e.PreviousValue != nil {
		prev := e.PreviousValue.Clone()
		out.PreviousValue = &prev
	}
	return out
}

// Correction records one user-initiated value replacement.
type Correction struct {
	BucketID     BucketID `json:"bucket_id"`
	OldValue     Value    `json:"old_value"`
	NewValue     Value    `json:"new_value"`
	MessageIndex int      `json:"message_index"`
	Reason       string   `json:"reason,omitempty"`
}
