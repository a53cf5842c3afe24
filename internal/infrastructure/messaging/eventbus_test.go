package messaging

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puzzlehive/stats-hub/internal/domain/shared"
)

func syncBus() *InMemoryEventBus {
	cfg := DefaultInMemoryEventBusConfig()
	cfg.AsyncMode = false
	return NewInMemoryEventBus(cfg)
}

func TestInMemoryEventBus_PublishRoutesByType(t *testing.T) {
	bus := syncBus()
	defer bus.Close()

	var created, deleted int32
	require.NoError(t, bus.Subscribe(shared.EventRecordCreated, func(e shared.Event) error {
		atomic.AddInt32(&created, 1)
		return nil
	}))
	require.NoError(t, bus.Subscribe(shared.EventRecordDeleted, func(e shared.Event) error {
		atomic.AddInt32(&deleted, 1)
		return nil
	}))

	require.NoError(t, bus.Publish(shared.NewRecordCreatedEvent(1, "ABC123XYZ789", "sudoku", "easy")))
	require.NoError(t, bus.Publish(shared.NewRecordCreatedEvent(2, "ABC123XYZ789", "sudoku", "easy")))

	assert.Equal(t, int32(2), atomic.LoadInt32(&created))
	assert.Equal(t, int32(0), atomic.LoadInt32(&deleted))
}

func TestInMemoryEventBus_SubscribeAll(t *testing.T) {
	bus := syncBus()
	defer bus.Close()

	var all int32
	require.NoError(t, bus.SubscribeAll(func(e shared.Event) error {
		atomic.AddInt32(&all, 1)
		return nil
	}))

	require.NoError(t, bus.Publish(shared.NewRecordCreatedEvent(1, "ABC123XYZ789", "sudoku", "easy")))
	require.NoError(t, bus.Publish(shared.NewRecordDeletedEvent(1, "ABC123XYZ789", "sudoku")))

	assert.Equal(t, int32(2), atomic.LoadInt32(&all))
}

func TestInMemoryEventBus_HandlerErrorDoesNotFailPublish(t *testing.T) {
	bus := syncBus()
	defer bus.Close()

	require.NoError(t, bus.Subscribe(shared.EventRecordCreated, func(e shared.Event) error {
		return errors.New("boom")
	}))

	assert.NoError(t, bus.Publish(shared.NewRecordCreatedEvent(1, "ABC123XYZ789", "sudoku", "easy")))

	snap := bus.Metrics().Snapshot()
	assert.Equal(t, int64(1), snap.TotalPublished)
	assert.Equal(t, int64(1), snap.TotalHandlerExecs)
	assert.Equal(t, 0.0, snap.HandlerSuccessRate)
}

func TestInMemoryEventBus_ClosedBusRejectsPublish(t *testing.T) {
	bus := syncBus()
	require.NoError(t, bus.Close())

	assert.ErrorIs(t, bus.Publish(shared.NewRecordCreatedEvent(1, "ABC123XYZ789", "sudoku", "easy")), ErrEventBusClosed)
	assert.ErrorIs(t, bus.Subscribe(shared.EventRecordCreated, func(shared.Event) error { return nil }), ErrEventBusClosed)
}
