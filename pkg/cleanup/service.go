// Package cleanup evicts idle sessions from the registry on a schedule.
package cleanup

import (
	"context"
	"log/slog"
	"time"

	"github.com/guestwise/guestflow/pkg/events"
	"github.com/guestwise/guestflow/pkg/session"
)

// BlobDeleter removes a session's persisted state. Implemented by the
// database store; nil when persistence is disabled.
type BlobDeleter interface {
	Delete(ctx context.Context, sessionID string) error
}

// Service periodically removes sessions idle past the threshold,
// publishes eviction events, and drops their persisted blobs. All
// operations are idempotent.
type Service struct {
	registry *session.Registry
	bus      *events.Bus
	store    BlobDeleter
	idleFor  time.Duration
	interval time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

// NewService creates a cleanup service. bus and store may be nil.
func NewService(registry *session.Registry, bus *events.Bus, store BlobDeleter, idleFor, interval time.Duration) *Service {
	return &Service{
		registry: registry,
		bus:      bus,
		store:    store,
		idleFor:  idleFor,
		interval: interval,
	}
}

// Start launches the background eviction loop.
func (s *Service) Start(ctx context.Context) {
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go s.run(ctx)

	slog.Info("Cleanup service started",
		"idle_eviction", s.idleFor,
		"interval", s.interval)
}

// Stop signals the eviction loop to exit and waits for it to finish.
func (s *Service) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	slog.Info("Cleanup service stopped")
}

func (s *Service) run(ctx context.Context) {
	defer close(s.done)

	s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single eviction scan. Exported for manual scans
// and tests.
func (s *Service) RunOnce(ctx context.Context) {
	evicted := s.registry.EvictIdle(s.idleFor)
	for _, sessionID := range evicted {
		if s.store != nil {
			if err := s.store.Delete(ctx, sessionID); err != nil {
				slog.Error("Failed to delete evicted session blob",
					"session_id", sessionID, "error", err)
			}
		}
		if s.bus != nil {
			s.bus.Publish(events.EventTypeSessionEvicted, sessionID, events.SessionEvictedPayload{
				Type:      events.EventTypeSessionEvicted,
				EventID:   events.NewEventID(),
				SessionID: sessionID,
				Reason:    "idle_timeout",
				Timestamp: events.Now(),
			})
		}
	}
}
