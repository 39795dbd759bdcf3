// Package events is an in-process pub/sub bus for session lifecycle
// events. Subscribers get buffered channels; a slow subscriber drops
// events rather than stalling the publisher.
package events

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// subscriberBuffer is the per-subscriber channel depth. Publishing to a
// full buffer drops the event for that subscriber only.
const subscriberBuffer = 64

// Envelope is what subscribers receive: the discriminator, the session,
// and the marshaled payload.
type Envelope struct {
	Type      string
	SessionID string
	Payload   []byte
}

// subscriber receives events for one session channel, or all sessions
// when sessionID is empty.
type subscriber struct {
	id        string
	sessionID string
	ch        chan Envelope
}

// Bus fans events out to subscribers keyed by session id.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]*subscriber
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[string]*subscriber),
	}
}

// Subscribe registers for a session's events; an empty sessionID
// subscribes to every session. The returned cancel func must be called
// to release the subscription.
func (b *Bus) Subscribe(sessionID string) (<-chan Envelope, func()) {
	sub := &subscriber{
		id:        uuid.New().String(),
		sessionID: sessionID,
		ch:        make(chan Envelope, subscriberBuffer),
	}

	b.mu.Lock()
	b.subscribers[sub.id] = sub
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subscribers[sub.id]; ok {
			delete(b.subscribers, sub.id)
			close(sub.ch)
		}
		b.mu.Unlock()
	}
	return sub.ch, cancel
}

// SubscriberCount reports active subscriptions. Used by tests and the
// health endpoint.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Publish marshals the payload and delivers it to matching subscribers
// without blocking. Marshal failures are logged and dropped; a turn
// never fails because of an event.
func (b *Bus) Publish(eventType, sessionID string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal event payload",
			"type", eventType, "session_id", sessionID, "error", err)
		return
	}
	env := Envelope{Type: eventType, SessionID: sessionID, Payload: data}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subscribers {
		if sub.sessionID != "" && sub.sessionID != sessionID {
			continue
		}
		select {
		case sub.ch <- env:
		default:
			slog.Warn("Dropping event for slow subscriber",
				"type", eventType, "session_id", sessionID)
		}
	}
}

// NewEventID returns a fresh event id.
func NewEventID() string {
	return uuid.New().String()
}

// Now returns the bus timestamp format for payloads.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
