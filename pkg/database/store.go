package database

import (
	"context"
	stdsql "database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/guestwise/guestflow/pkg/models"
)

// Record is a persisted conversation snapshot.
type Record struct {
	SessionID            string
	PersonID             string
	CampaignID           string
	State                []byte
	CompletionPercentage float64
	Completed            bool
	UpdatedAt            time.Time
}

// Store reads and writes conversation snapshots. Each session holds a
// single row keyed by session id; Save upserts the latest snapshot.
type Store struct {
	db *stdsql.DB
}

// NewStore creates a store over an open client.
func NewStore(client *Client) *Store {
	return &Store{db: client.DB()}
}

// Save upserts the session's snapshot.
func (s *Store) Save(ctx context.Context, rec Record) error {
	const q = `
		INSERT INTO conversation_states (session_id, person_id, campaign_id, state, completion_percentage, completed, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (session_id) DO UPDATE SET
			person_id             = EXCLUDED.person_id,
			campaign_id           = EXCLUDED.campaign_id,
			state                 = EXCLUDED.state,
			completion_percentage = EXCLUDED.completion_percentage,
			completed             = EXCLUDED.completed,
			updated_at            = now()`

	if _, err := s.db.ExecContext(ctx, q,
		rec.SessionID, rec.PersonID, rec.CampaignID, rec.State, rec.CompletionPercentage, rec.Completed); err != nil {
		return fmt.Errorf("save session %s: %w", rec.SessionID, err)
	}
	return nil
}

// Load returns the session's snapshot.
func (s *Store) Load(ctx context.Context, sessionID string) (*Record, error) {
	const q = `
		SELECT session_id, person_id, campaign_id, state, completion_percentage, completed, updated_at
		FROM conversation_states
		WHERE session_id = $1`

	var rec Record
	err := s.db.QueryRowContext(ctx, q, sessionID).Scan(
		&rec.SessionID, &rec.PersonID, &rec.CampaignID, &rec.State,
		&rec.CompletionPercentage, &rec.Completed, &rec.UpdatedAt)
	if errors.Is(err, stdsql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", models.ErrSessionNotFound, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	return &rec, nil
}

// Delete removes the session's snapshot. Deleting an absent session is
// not an error.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	const q = `DELETE FROM conversation_states WHERE session_id = $1`

	if _, err := s.db.ExecContext(ctx, q, sessionID); err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	return nil
}

// ListIdle returns ids of sessions not updated since the cutoff.
func (s *Store) ListIdle(ctx context.Context, idleFor time.Duration) ([]string, error) {
	const q = `
		SELECT session_id
		FROM conversation_states
		WHERE updated_at < $1
		ORDER BY updated_at`

	cutoff := time.Now().UTC().Add(-idleFor)
	rows, err := s.db.QueryContext(ctx, q, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list idle sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list idle sessions: %w", err)
	}
	return ids, nil
}
