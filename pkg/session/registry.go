// Package session keeps live conversations in memory, serializes turns
// per session, and restores state from persisted blobs.
package session

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/guestwise/guestflow/pkg/models"
	"github.com/guestwise/guestflow/pkg/state"
)

// live pairs a conversation with its turn lock. The lock serializes
// turns end to end: message N+1 waits for message N.
type live struct {
	mu   sync.Mutex
	conv *state.Conversation
}

// Registry holds live sessions keyed by session id. The registry lock
// only guards the map; it is never held across a turn.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*live
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*live),
	}
}

// Handle is an acquired session. The caller owns the turn until Release.
type Handle struct {
	SessionID    string
	Conversation *state.Conversation
	entry        *live
}

// Acquire returns the session's conversation with the turn lock held.
// Resolution order: live session, then the prior blob, then a fresh
// conversation. An empty session id gets a generated one.
func (r *Registry) Acquire(sessionID, personID, campaignID string, prior []byte) (*Handle, error) {
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	r.mu.Lock()
	entry, ok := r.sessions[sessionID]
	if !ok {
		conv, err := restore(sessionID, personID, campaignID, prior)
		if err != nil {
			r.mu.Unlock()
			return nil, err
		}
		entry = &live{conv: conv}
		r.sessions[sessionID] = entry
	}
	r.mu.Unlock()

	// Turn lock is taken outside the registry lock so a long turn never
	// blocks other sessions.
	entry.mu.Lock()
	return &Handle{
		SessionID:    sessionID,
		Conversation: entry.conv,
		entry:        entry,
	}, nil
}

// Commit replaces the stored conversation. Must be called while the
// handle is still held; a turn that fails simply skips Commit and the
// prior state stands.
func (h *Handle) Commit(conv *state.Conversation) {
	h.entry.conv = conv
	h.Conversation = conv
}

// Release ends the turn and lets the next queued message proceed.
func (h *Handle) Release() {
	h.entry.mu.Unlock()
}

// Get returns a deep copy of the session's current state. Waits for an
// in-flight turn to finish so the copy is never mid-turn.
func (r *Registry) Get(sessionID string) (*state.Conversation, error) {
	r.mu.RLock()
	entry, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrSessionNotFound, sessionID)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.conv.Clone(), nil
}

// Clear removes a session from the registry.
func (r *Registry) Clear(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[sessionID]; !ok {
		return fmt.Errorf("%w: %s", models.ErrSessionNotFound, sessionID)
	}
	delete(r.sessions, sessionID)
	return nil
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// EvictIdle removes sessions idle longer than idleFor and returns their
// ids. Sessions with a turn in flight are skipped and picked up on the
// next scan.
func (r *Registry) EvictIdle(idleFor time.Duration) []string {
	cutoff := time.Now().UTC().Add(-idleFor)

	r.mu.Lock()
	defer r.mu.Unlock()

	var evicted []string
	for id, entry := range r.sessions {
		if !entry.mu.TryLock() {
			continue
		}
		idle := entry.conv.LastUpdated.Before(cutoff)
		entry.mu.Unlock()
		if idle {
			delete(r.sessions, id)
			evicted = append(evicted, id)
		}
	}
	if len(evicted) > 0 {
		slog.Info("Evicted idle sessions", "count", len(evicted), "idle_for", idleFor)
	}
	return evicted
}

// restore builds the conversation for a session entering the registry.
func restore(sessionID, personID, campaignID string, prior []byte) (*state.Conversation, error) {
	if len(prior) == 0 {
		return state.New(sessionID, personID, campaignID), nil
	}
	conv, err := state.Deserialize(prior)
	if err != nil {
		return nil, fmt.Errorf("restore session %s: %w", sessionID, err)
	}
	if conv.SessionID != sessionID {
		return nil, fmt.Errorf("restore session %s: blob belongs to %s", sessionID, conv.SessionID)
	}
	return conv, nil
}
