// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"time"

	"github.com/puzzlehive/stats-hub/internal/domain/ranking"
	"github.com/puzzlehive/stats-hub/internal/domain/record"
	"github.com/puzzlehive/stats-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBMIT RECORD COMMAND
// Validates a completion submission and appends it to the record store.
// This is the single mutating entry point for new records.
// ══════════════════════════════════════════════════════════════════════════════

// SubmitRecordCommand carries one completion submission. AccountID comes from
// the externally-authenticated caller, never from the request body.
type SubmitRecordCommand struct {
	AccountID   string
	PuzzleType  string
	Difficulty  string
	TimeTaken   int
	HintCount   int
	CompletedAt time.Time // zero means "now"
}

// SubmitRecordResult reports the persisted record.
type SubmitRecordResult struct {
	Record *record.CompletionRecord `json:"record"`
}

// SubmitRecordHandler handles SubmitRecordCommand.
type SubmitRecordHandler struct {
	records   record.Repository
	publisher shared.EventPublisher
	snapshots ranking.SnapshotStore // nil unless inline invalidation is on
	now       func() time.Time
}

// NewSubmitRecordHandler creates a new handler. The publisher may be nil when
// no subscriber cares about record events.
func NewSubmitRecordHandler(records record.Repository, publisher shared.EventPublisher) *SubmitRecordHandler {
	return &SubmitRecordHandler{
		records:   records,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// EnableInlineInvalidation drops cached snapshots for the submitted record's
// puzzle type synchronously, before the submission returns, instead of
// waiting for the asynchronous event path.
func (h *SubmitRecordHandler) EnableInlineInvalidation(snapshots ranking.SnapshotStore) {
	h.snapshots = snapshots
}

// Handle validates and persists the submission. Validation failures surface
// before anything touches the store: an invalid record is never persisted.
func (h *SubmitRecordHandler) Handle(ctx context.Context, cmd SubmitRecordCommand) (*SubmitRecordResult, error) {
	submission := record.Submission{
		AccountID:   cmd.AccountID,
		PuzzleType:  cmd.PuzzleType,
		Difficulty:  cmd.Difficulty,
		TimeTaken:   cmd.TimeTaken,
		HintCount:   cmd.HintCount,
		CompletedAt: cmd.CompletedAt,
	}

	if err := submission.Validate(h.now()); err != nil {
		return nil, err
	}

	rec := submission.ToRecord()
	if err := h.records.Create(ctx, rec); err != nil {
		return nil, shared.WrapError("command", "SubmitRecord", shared.ErrStore, "failed to persist record", err)
	}

	if h.snapshots != nil {
		// Best effort, like the publish below: losing an invalidation only
		// leaves a snapshot to its staleness bound.
		_ = h.snapshots.Invalidate(ctx, rec.PuzzleType)
	}

	if h.publisher != nil {
		// Best effort: the record is already durable, a publish failure must
		// not fail the submission.
		_ = h.publisher.Publish(shared.NewRecordCreatedEvent(
			rec.RecordID, rec.AccountID.String(), rec.PuzzleType.String(), rec.Difficulty.String(),
		))
	}

	return &SubmitRecordResult{Record: rec}, nil
}
