//go:build integration

package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/guestwise/guestflow/pkg/models"
)

// newTestClient connects to an external PostgreSQL when CI_DATABASE_URL
// is set, otherwise spins up a throwaway testcontainer.
func newTestClient(t *testing.T) *Client {
	t.Helper()
	ctx := context.Background()

	connStr := os.Getenv("CI_DATABASE_URL")
	if connStr == "" {
		pgContainer, err := postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("guestflow_test"),
			postgres.WithUsername("guestflow"),
			postgres.WithPassword("guestflow"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second)),
		)
		require.NoError(t, err)
		t.Cleanup(func() {
			require.NoError(t, pgContainer.Terminate(ctx))
		})

		connStr, err = pgContainer.ConnectionString(ctx, "sslmode=disable")
		require.NoError(t, err)
	}

	client, err := NewClient(ctx, Config{URL: connStr})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, client.Close())
	})
	return client
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	client := newTestClient(t)
	store := NewStore(client)
	ctx := context.Background()

	rec := Record{
		SessionID:  "sess-1",
		PersonID:   "person-1",
		CampaignID: "spring-launch",
		State:      []byte(`{"session_id":"sess-1"}`),
	}
	require.NoError(t, store.Save(ctx, rec))

	loaded, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "person-1", loaded.PersonID)
	assert.Equal(t, "spring-launch", loaded.CampaignID)
	assert.JSONEq(t, `{"session_id":"sess-1"}`, string(loaded.State))
	assert.False(t, loaded.Completed)
	assert.WithinDuration(t, time.Now(), loaded.UpdatedAt, time.Minute)
}

func TestStoreSaveUpserts(t *testing.T) {
	client := newTestClient(t)
	store := NewStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, Record{
		SessionID: "sess-2",
		State:     []byte(`{"v":1}`),
	}))
	require.NoError(t, store.Save(ctx, Record{
		SessionID:            "sess-2",
		State:                []byte(`{"v":2}`),
		CompletionPercentage: 100,
		Completed:            true,
	}))

	loaded, err := store.Load(ctx, "sess-2")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(loaded.State))
	assert.Equal(t, 100.0, loaded.CompletionPercentage)
	assert.True(t, loaded.Completed)
}

func TestStoreLoadMissing(t *testing.T) {
	client := newTestClient(t)
	store := NewStore(client)

	_, err := store.Load(context.Background(), "sess-missing")
	require.ErrorIs(t, err, models.ErrSessionNotFound)
}

func TestStoreDeleteIsIdempotent(t *testing.T) {
	client := newTestClient(t)
	store := NewStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, Record{
		SessionID: "sess-3",
		State:     []byte(`{}`),
	}))
	require.NoError(t, store.Delete(ctx, "sess-3"))
	require.NoError(t, store.Delete(ctx, "sess-3"))

	_, err := store.Load(ctx, "sess-3")
	require.ErrorIs(t, err, models.ErrSessionNotFound)
}

func TestStoreListIdle(t *testing.T) {
	client := newTestClient(t)
	store := NewStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, Record{
		SessionID: "sess-fresh",
		State:     []byte(`{}`),
	}))
	require.NoError(t, store.Save(ctx, Record{
		SessionID: "sess-stale",
		State:     []byte(`{}`),
	}))

	// Backdate one row past the idle threshold.
	_, err := client.DB().ExecContext(ctx,
		`UPDATE conversation_states SET updated_at = now() - interval '2 days' WHERE session_id = $1`,
		"sess-stale")
	require.NoError(t, err)

	idle, err := store.ListIdle(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"sess-stale"}, idle)
}

func TestHealth(t *testing.T) {
	client := newTestClient(t)

	status, err := Health(context.Background(), client.DB())
	require.NoError(t, err)
	assert.Equal(t, "healthy", status.Status)
	assert.GreaterOrEqual(t, status.OpenConnections, 1)
}
