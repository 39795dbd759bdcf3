package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guestwise/guestflow/pkg/models"
	"github.com/guestwise/guestflow/pkg/state"
)

func TestAcquireCreatesFreshSession(t *testing.T) {
	r := NewRegistry()

	h, err := r.Acquire("sess-1", "person-1", "camp-1", nil)
	require.NoError(t, err)
	defer h.Release()

	assert.Equal(t, "sess-1", h.SessionID)
	assert.Equal(t, "person-1", h.Conversation.PersonID)
	assert.Equal(t, 1, r.Len())
}

func TestAcquireGeneratesID(t *testing.T) {
	r := NewRegistry()

	h, err := r.Acquire("", "", "", nil)
	require.NoError(t, err)
	defer h.Release()

	assert.NotEmpty(t, h.SessionID)
	assert.Equal(t, h.SessionID, h.Conversation.SessionID)
}

func TestAcquireRestoresFromBlob(t *testing.T) {
	conv := state.New("sess-2", "person-2", "")
	conv.AddMessage(models.RoleUser, "my name is Jane Doe")
	require.True(t, conv.UpdateBucket(models.BucketFullName, models.TextValue("Jane Doe"), 0.9, false))
	blob, err := conv.Serialize()
	require.NoError(t, err)

	r := NewRegistry()
	h, err := r.Acquire("sess-2", "", "", blob)
	require.NoError(t, err)
	defer h.Release()

	value, ok := h.Conversation.Value(models.BucketFullName)
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", value.String())
	assert.Len(t, h.Conversation.Messages, 1)
}

func TestAcquireRejectsForeignBlob(t *testing.T) {
	conv := state.New("sess-a", "", "")
	blob, err := conv.Serialize()
	require.NoError(t, err)

	r := NewRegistry()
	_, err = r.Acquire("sess-b", "", "", blob)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "belongs to")
}

func TestAcquirePrefersLiveOverBlob(t *testing.T) {
	r := NewRegistry()
	h, err := r.Acquire("sess-3", "", "", nil)
	require.NoError(t, err)
	h.Conversation.AddMessage(models.RoleUser, "live message")
	h.Release()

	stale := state.New("sess-3", "", "")
	blob, err := stale.Serialize()
	require.NoError(t, err)

	h2, err := r.Acquire("sess-3", "", "", blob)
	require.NoError(t, err)
	defer h2.Release()
	assert.Len(t, h2.Conversation.Messages, 1)
}

func TestTurnsSerializePerSession(t *testing.T) {
	r := NewRegistry()

	var order []int
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			h, err := r.Acquire("sess-serial", "", "", nil)
			require.NoError(t, err)
			defer h.Release()
			mu.Lock()
			order = append(order, n)
			mu.Unlock()
			time.Sleep(time.Millisecond)
		}(i)
	}
	wg.Wait()

	assert.Len(t, order, 10)
	assert.Equal(t, 1, r.Len())
}

func TestCommitReplacesState(t *testing.T) {
	r := NewRegistry()
	h, err := r.Acquire("sess-4", "", "", nil)
	require.NoError(t, err)

	clone := h.Conversation.Clone()
	clone.AddMessage(models.RoleUser, "committed")
	h.Commit(clone)
	h.Release()

	got, err := r.Get("sess-4")
	require.NoError(t, err)
	assert.Len(t, got.Messages, 1)
}

func TestGetUnknownSession(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("nope")
	require.ErrorIs(t, err, models.ErrSessionNotFound)
}

func TestClear(t *testing.T) {
	r := NewRegistry()
	h, err := r.Acquire("sess-5", "", "", nil)
	require.NoError(t, err)
	h.Release()

	require.NoError(t, r.Clear("sess-5"))
	assert.Equal(t, 0, r.Len())
	require.ErrorIs(t, r.Clear("sess-5"), models.ErrSessionNotFound)
}

func TestEvictIdle(t *testing.T) {
	r := NewRegistry()

	h, err := r.Acquire("sess-old", "", "", nil)
	require.NoError(t, err)
	h.Conversation.LastUpdated = time.Now().UTC().Add(-48 * time.Hour)
	h.Release()

	h2, err := r.Acquire("sess-fresh", "", "", nil)
	require.NoError(t, err)
	h2.Release()

	evicted := r.EvictIdle(24 * time.Hour)
	assert.Equal(t, []string{"sess-old"}, evicted)
	assert.Equal(t, 1, r.Len())

	_, err = r.Get("sess-old")
	require.ErrorIs(t, err, models.ErrSessionNotFound)
}

func TestEvictIdleSkipsInFlightTurn(t *testing.T) {
	r := NewRegistry()

	h, err := r.Acquire("sess-busy", "", "", nil)
	require.NoError(t, err)
	h.Conversation.LastUpdated = time.Now().UTC().Add(-48 * time.Hour)

	assert.Empty(t, r.EvictIdle(24*time.Hour))
	h.Release()

	assert.Equal(t, []string{"sess-busy"}, r.EvictIdle(24*time.Hour))
}
