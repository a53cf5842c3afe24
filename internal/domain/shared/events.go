// Package shared contains common domain types, errors, and events
// that are used across all domain packages.
package shared

import (
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types. Events are published on the in-process bus after a
// successful store write; subscribers must tolerate at-most-once delivery.
const (
	// Record events
	EventRecordCreated EventType = "record.created"
	EventRecordDeleted EventType = "record.deleted"
	EventAccountPurged EventType = "record.account_purged"

	// Leaderboard snapshot events
	EventSnapshotRebuilt     EventType = "leaderboard.snapshot_rebuilt"
	EventSnapshotInvalidated EventType = "leaderboard.snapshot_invalidated"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		AggregateId: aggregateID,
	}
}

// RecordCreatedEvent is emitted after a completion record is persisted.
type RecordCreatedEvent struct {
	BaseEvent
	RecordID   int64  `json:"record_id"`
	AccountID  string `json:"account_id"`
	PuzzleType string `json:"puzzle_type"`
	Difficulty string `json:"difficulty"`
}

// NewRecordCreatedEvent creates a RecordCreatedEvent.
func NewRecordCreatedEvent(recordID int64, accountID, puzzleType, difficulty string) RecordCreatedEvent {
	return RecordCreatedEvent{
		BaseEvent:  NewBaseEvent(EventRecordCreated, accountID),
		RecordID:   recordID,
		AccountID:  accountID,
		PuzzleType: puzzleType,
		Difficulty: difficulty,
	}
}

// RecordDeletedEvent is emitted after a record is removed from the store.
type RecordDeletedEvent struct {
	BaseEvent
	RecordID   int64  `json:"record_id"`
	AccountID  string `json:"account_id"`
	PuzzleType string `json:"puzzle_type"`
}

// NewRecordDeletedEvent creates a RecordDeletedEvent.
func NewRecordDeletedEvent(recordID int64, accountID, puzzleType string) RecordDeletedEvent {
	return RecordDeletedEvent{
		BaseEvent:  NewBaseEvent(EventRecordDeleted, accountID),
		RecordID:   recordID,
		AccountID:  accountID,
		PuzzleType: puzzleType,
	}
}

// AccountPurgedEvent is emitted after all records of an account are deleted.
type AccountPurgedEvent struct {
	BaseEvent
	AccountID string `json:"account_id"`
	Deleted   int    `json:"deleted"`
}

// NewAccountPurgedEvent creates an AccountPurgedEvent.
func NewAccountPurgedEvent(accountID string, deleted int) AccountPurgedEvent {
	return AccountPurgedEvent{
		BaseEvent: NewBaseEvent(EventAccountPurged, accountID),
		AccountID: accountID,
		Deleted:   deleted,
	}
}

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}

// SnapshotRebuiltEvent is emitted when the leaderboard snapshot cache is refreshed.
type SnapshotRebuiltEvent struct {
	BaseEvent
	SnapshotID string `json:"snapshot_id"`
	PuzzleType string `json:"puzzle_type"`
	Entries    int    `json:"entries"`
}

// NewSnapshotRebuiltEvent creates a SnapshotRebuiltEvent.
func NewSnapshotRebuiltEvent(snapshotID, puzzleType string, entries int) SnapshotRebuiltEvent {
	return SnapshotRebuiltEvent{
		BaseEvent:  NewBaseEvent(EventSnapshotRebuilt, snapshotID),
		SnapshotID: snapshotID,
		PuzzleType: puzzleType,
		Entries:    entries,
	}
}
