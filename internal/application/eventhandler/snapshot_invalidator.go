// Package eventhandler contains subscribers wired onto the in-process event
// bus. Handlers run after the triggering write is durable and must be safe to
// lose: every effect here is reproducible from the record store.
package eventhandler

import (
	"context"
	"time"

	"github.com/puzzlehive/stats-hub/internal/domain/ranking"
	"github.com/puzzlehive/stats-hub/internal/domain/shared"
	"github.com/puzzlehive/stats-hub/pkg/logger"
)

const invalidateTimeout = 5 * time.Second

// SnapshotInvalidator drops cached leaderboard snapshots when the underlying
// records change, so the next ranking query recomputes instead of serving a
// snapshot that is wrong rather than merely old.
type SnapshotInvalidator struct {
	snapshots ranking.SnapshotStore
	log       *logger.Logger
}

// NewSnapshotInvalidator creates the invalidator.
func NewSnapshotInvalidator(snapshots ranking.SnapshotStore, log *logger.Logger) *SnapshotInvalidator {
	if log == nil {
		log = logger.Default()
	}
	return &SnapshotInvalidator{
		snapshots: snapshots,
		log:       log.With(logger.Component("snapshot_invalidator")),
	}
}

// Register subscribes the invalidator to record mutation events.
func (s *SnapshotInvalidator) Register(bus shared.EventSubscriber) error {
	if err := bus.Subscribe(shared.EventRecordCreated, s.onRecordCreated); err != nil {
		return err
	}
	if err := bus.Subscribe(shared.EventRecordDeleted, s.onRecordDeleted); err != nil {
		return err
	}
	return bus.Subscribe(shared.EventAccountPurged, s.onAccountPurged)
}

func (s *SnapshotInvalidator) onRecordCreated(event shared.Event) error {
	e, ok := event.(shared.RecordCreatedEvent)
	if !ok {
		return nil
	}
	return s.invalidate(e.PuzzleType)
}

func (s *SnapshotInvalidator) onRecordDeleted(event shared.Event) error {
	e, ok := event.(shared.RecordDeletedEvent)
	if !ok {
		return nil
	}
	return s.invalidate(e.PuzzleType)
}

// onAccountPurged has no puzzle type to target. The purged account's entries
// linger in cached snapshots until the staleness bound or the next rebuild.
func (s *SnapshotInvalidator) onAccountPurged(event shared.Event) error {
	e, ok := event.(shared.AccountPurgedEvent)
	if !ok {
		return nil
	}
	s.log.Info("account purged, cached snapshots expire by age",
		logger.AccountID(e.AccountID),
		logger.Int("deleted", e.Deleted),
	)
	return nil
}

func (s *SnapshotInvalidator) invalidate(puzzleType string) error {
	ctx, cancel := context.WithTimeout(context.Background(), invalidateTimeout)
	defer cancel()

	if err := s.snapshots.Invalidate(ctx, shared.PuzzleType(puzzleType)); err != nil {
		s.log.Warn("snapshot invalidation failed",
			logger.PuzzleType(puzzleType),
			logger.Err(err),
		)
		return err
	}

	s.log.Debug("snapshots invalidated", logger.PuzzleType(puzzleType))
	return nil
}
