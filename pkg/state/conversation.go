// Package state holds the typed conversation state owned by one session:
// bucket entries, the message log, corrections, review flags, and the
// detected communication style. The orchestrator mutates a clone per turn
// and commits it only when the turn finishes.
package state

import (
	"time"

	"github.com/guestwise/guestflow/pkg/catalog"
	"github.com/guestwise/guestflow/pkg/models"
)

// Momentum is the coarse reading of how the conversation is going.
type Momentum string

const (
	MomentumFlowing Momentum = "flowing"
	MomentumSteady  Momentum = "steady"
	MomentumStalled Momentum = "stalled"
)

// AwaitingProfileReview is the only confirmation gate the dialogue uses.
const AwaitingProfileReview = "profile_review"

// CommunicationStyle is the detected texture of the user's messages.
type CommunicationStyle struct {
	Formality   string `json:"formality"`    // formal | casual
	DetailLevel string `json:"detail_level"` // detailed | brief | moderate
	Pace        string `json:"pace"`         // quick | measured
}

// Conversation is the full dialogue state for one session.
type Conversation struct {
	SessionID  string `json:"session_id"`
	PersonID   string `json:"person_id,omitempty"`
	CampaignID string `json:"campaign_id,omitempty"`

	// Buckets maps every catalog bucket id to its ordered entries. An
	// empty slice means unfilled; the key is always present.
	Buckets map[models.BucketID][]models.Entry `json:"-"`

	Messages          []models.Message    `json:"messages"`
	UserCorrections   []models.Correction `json:"user_corrections,omitempty"`
	CompletionSignals []string            `json:"completion_signals,omitempty"`

	// SkippedOptional holds optional bucket ids the user declined, in the
	// order they were skipped.
	SkippedOptional []models.BucketID `json:"skipped_optional_buckets,omitempty"`

	IsReviewing          bool   `json:"is_reviewing"`
	AwaitingConfirmation string `json:"awaiting_confirmation,omitempty"`
	CompletionConfirmed  bool   `json:"completion_confirmed"`

	Style                 CommunicationStyle `json:"communication_style"`
	FrustrationIndicators []string           `json:"frustration_indicators,omitempty"`
	Momentum              Momentum           `json:"momentum"`

	// LinkedInAnalyzed gates enrichment to once per session.
	// PrefilledBuckets records what enrichment filled, for the
	// acknowledgment copy on the next reply.
	LinkedInAnalyzed bool              `json:"linkedin_analyzed"`
	PrefilledBuckets []models.BucketID `json:"prefilled_buckets,omitempty"`

	ErrorCount int    `json:"error_count"`
	LastError  string `json:"last_error,omitempty"`

	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`
}

// New creates a fresh conversation with every catalog bucket present.
func New(sessionID, personID, campaignID string) *Conversation {
	now := time.Now().UTC()
	buckets := make(map[models.BucketID][]models.Entry, len(catalog.IDs()))
	for _, id := range catalog.IDs() {
		buckets[id] = []models.Entry{}
	}
	return &Conversation{
		SessionID:   sessionID,
		PersonID:    personID,
		CampaignID:  campaignID,
		Buckets:     buckets,
		Messages:    []models.Message{},
		Momentum:    MomentumSteady,
		Style:       CommunicationStyle{Formality: "casual", DetailLevel: "moderate", Pace: "measured"},
		CreatedAt:   now,
		LastUpdated: now,
	}
}

// AddMessage appends one message to the log and returns its index.
func (c *Conversation) AddMessage(role models.Role, content string) int {
	c.Messages = append(c.Messages, models.Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
	c.LastUpdated = time.Now().UTC()
	return len(c.Messages) - 1
}

// LastUserMessage returns the most recent user message, if any.
func (c *Conversation) LastUserMessage() (models.Message, bool) {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == models.RoleUser {
			return c.Messages[i], true
		}
	}
	return models.Message{}, false
}

// LastAssistantMessage returns the most recent assistant message, if any.
func (c *Conversation) LastAssistantMessage() (models.Message, bool) {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == models.RoleAssistant {
			return c.Messages[i], true
		}
	}
	return models.Message{}, false
}

// UpdateBucket stores a value into a bucket. The value is normalized,
// validated, and appended (multi-value) or replaced (single-value).
// Returns false without mutating when validation rejects the normalized
// value or the bucket id is unknown.
func (c *Conversation) UpdateBucket(id models.BucketID, v models.Value, confidence float64, isCorrection bool) bool {
	def, ok := catalog.Get(id)
	if !ok {
		return false
	}
	normalized := catalog.Normalize(id, v)
	if !def.Validate(normalized) {
		return false
	}

	entry := models.Entry{
		Value:              normalized,
		Confidence:         confidence,
		Timestamp:          time.Now().UTC(),
		SourceMessageIndex: len(c.Messages) - 1,
		IsCorrected:        isCorrection,
	}

	entries := c.Buckets[id]
	if def.AllowMultiple {
		entries = append(entries, entry)
		// Oldest entries evict when the bucket overflows.
		if len(entries) > def.MaxEntries {
			entries = entries[len(entries)-def.MaxEntries:]
		}
	} else {
		if len(entries) > 0 {
			prev := entries[len(entries)-1].Value.Clone()
			entry.PreviousValue = &prev
		}
		entries = []models.Entry{entry}
	}
	c.Buckets[id] = entries
	c.LastUpdated = time.Now().UTC()
	return true
}

// Value returns the primary (latest) value of a bucket.
func (c *Conversation) Value(id models.BucketID) (models.Value, bool) {
	entries := c.Buckets[id]
	if len(entries) == 0 {
		return models.Value{}, false
	}
	return entries[len(entries)-1].Value, true
}

// Entries returns the stored entries for a bucket.
func (c *Conversation) Entries(id models.BucketID) []models.Entry {
	return c.Buckets[id]
}

// IsFilled reports whether the bucket satisfies its minimum entry count.
func (c *Conversation) IsFilled(id models.BucketID) bool {
	def, ok := catalog.Get(id)
	if !ok {
		return false
	}
	minEntries := def.MinEntries
	if minEntries < 1 {
		minEntries = 1
	}
	return len(c.Buckets[id]) >= minEntries
}

// Filled returns the ids of buckets with at least one entry, in catalog
// order.
func (c *Conversation) Filled() []models.BucketID {
	var ids []models.BucketID
	for _, id := range catalog.IDs() {
		if len(c.Buckets[id]) > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// EmptyRequired returns required buckets that do not yet satisfy their
// minimum entry count, in catalog order. This is the completion gate.
func (c *Conversation) EmptyRequired() []models.BucketID {
	var ids []models.BucketID
	for _, id := range catalog.RequiredIDs() {
		if !c.IsFilled(id) {
			ids = append(ids, id)
		}
	}
	return ids
}

// EmptyOptional returns unfilled optional buckets the user has not
// skipped, in catalog order.
func (c *Conversation) EmptyOptional() []models.BucketID {
	var ids []models.BucketID
	for _, id := range catalog.OptionalIDs() {
		if c.IsSkipped(id) {
			continue
		}
		if len(c.Buckets[id]) == 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// MarkOptionalSkipped records that the user declined an optional bucket.
// Required buckets can never be skipped.
func (c *Conversation) MarkOptionalSkipped(id models.BucketID) bool {
	def, ok := catalog.Get(id)
	if !ok || def.Required {
		return false
	}
	if c.IsSkipped(id) {
		return true
	}
	c.SkippedOptional = append(c.SkippedOptional, id)
	c.LastUpdated = time.Now().UTC()
	return true
}

// UnskipOptional removes a bucket from the skipped set (the user changed
// their mind and provided a value after all).
func (c *Conversation) UnskipOptional(id models.BucketID) {
	for i, s := range c.SkippedOptional {
		if s == id {
			c.SkippedOptional = append(c.SkippedOptional[:i], c.SkippedOptional[i+1:]...)
			return
		}
	}
}

// IsSkipped reports whether the user declined this optional bucket.
func (c *Conversation) IsSkipped(id models.BucketID) bool {
	for _, s := range c.SkippedOptional {
		if s == id {
			return true
		}
	}
	return false
}

// SetAwaitingConfirmation sets or clears the confirmation gate. Setting
// the profile-review gate implies the reviewing flag; clearing the gate
// clears it.
func (c *Conversation) SetAwaitingConfirmation(gate string) {
	c.AwaitingConfirmation = gate
	c.IsReviewing = gate == AwaitingProfileReview
	c.LastUpdated = time.Now().UTC()
}

// ConfirmCompletion marks the profile confirmed. Refused when required
// buckets are still empty, preserving the completion invariant.
func (c *Conversation) ConfirmCompletion() bool {
	if len(c.EmptyRequired()) > 0 {
		return false
	}
	c.CompletionConfirmed = true
	c.SetAwaitingConfirmation("")
	return true
}

// RecordCorrection appends one correction to the audit list.
func (c *Conversation) RecordCorrection(id models.BucketID, oldValue, newValue models.Value, reason string) {
	c.UserCorrections = append(c.UserCorrections, models.Correction{
		BucketID:     id,
		OldValue:     oldValue,
		NewValue:     newValue,
		MessageIndex: len(c.Messages) - 1,
		Reason:       reason,
	})
}

// AddCompletionSignal records a phrase the user used to signal finishing.
func (c *Conversation) AddCompletionSignal(phrase string) {
	c.CompletionSignals = append(c.CompletionSignals, phrase)
}

// AddFrustrationIndicator records one frustration trigger.
func (c *Conversation) AddFrustrationIndicator(trigger string) {
	c.FrustrationIndicators = append(c.FrustrationIndicators, trigger)
}

// UserMessageCount counts user turns in the log.
func (c *Conversation) UserMessageCount() int {
	n := 0
	for _, m := range c.Messages {
		if m.Role == models.RoleUser {
			n++
		}
	}
	return n
}

// Clone returns a deep copy sharing no mutable memory with the receiver.
func (c *Conversation) Clone() *Conversation {
	out := *c

	out.Buckets = make(map[models.BucketID][]models.Entry, len(c.Buckets))
	for id, entries := range c.Buckets {
		cloned := make([]models.Entry, len(entries))
		for i, e := range entries {
			cloned[i] = e.Clone()
		}
		out.Buckets[id] = cloned
	}

	out.Messages = make([]models.Message, len(c.Messages))
	for i, m := range c.Messages {
		out.Messages[i] = m
		if m.Metadata != nil {
			md := make(map[string]string, len(m.Metadata))
			for k, v := range m.Metadata {
				md[k] = v
			}
			out.Messages[i].Metadata = md
		}
	}

	out.UserCorrections = append([]models.Correction(nil), c.UserCorrections...)
	out.CompletionSignals = append([]string(nil), c.CompletionSignals...)
	out.SkippedOptional = append([]models.BucketID(nil), c.SkippedOptional...)
	out.FrustrationIndicators = append([]string(nil), c.FrustrationIndicators...)
	out.PrefilledBuckets = append([]models.BucketID(nil), c.PrefilledBuckets...)

	return &out
}
