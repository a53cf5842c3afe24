package command

import (
	"context"
	"errors"

	"github.com/puzzlehive/stats-hub/internal/domain/record"
	"github.com/puzzlehive/stats-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// DELETE RECORD COMMAND
// Removes a single record owned by the caller. Deleting a record owned by a
// different account is an ownership violation, reported distinctly from "not
// found" so the transport can decide whether to mask it.
// ══════════════════════════════════════════════════════════════════════════════

// DeleteRecordCommand identifies the record to delete and the caller.
type DeleteRecordCommand struct {
	RecordID  int64
	AccountID string
}

// Validate checks the command shape.
func (c *DeleteRecordCommand) Validate() error {
	if c.RecordID <= 0 {
		return shared.NewDomainError("command", "DeleteRecord", shared.ErrInvalidID, "record_id must be positive")
	}
	if _, err := shared.NewAccountID(c.AccountID); err != nil {
		return err
	}
	return nil
}

// DeleteRecordHandler handles DeleteRecordCommand.
type DeleteRecordHandler struct {
	records   record.Repository
	publisher shared.EventPublisher
}

// NewDeleteRecordHandler creates a new handler.
func NewDeleteRecordHandler(records record.Repository, publisher shared.EventPublisher) *DeleteRecordHandler {
	return &DeleteRecordHandler{records: records, publisher: publisher}
}

// Handle deletes the record after an ownership check in the store.
func (h *DeleteRecordHandler) Handle(ctx context.Context, cmd DeleteRecordCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	accountID := shared.AccountID(cmd.AccountID)
	rec, err := h.records.GetByID(ctx, cmd.RecordID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrRecordNotFound
		}
		return shared.WrapError("command", "DeleteRecord", shared.ErrStore, "failed to load record", err)
	}

	if err := h.records.Delete(ctx, cmd.RecordID, accountID); err != nil {
		if errors.Is(err, shared.ErrOwnership) || errors.Is(err, shared.ErrNotFound) {
			return err
		}
		return shared.WrapError("command", "DeleteRecord", shared.ErrStore, "failed to delete record", err)
	}

	if h.publisher != nil {
		_ = h.publisher.Publish(shared.NewRecordDeletedEvent(
			rec.RecordID, rec.AccountID.String(), rec.PuzzleType.String(),
		))
	}

	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// PURGE ACCOUNT RECORDS COMMAND
// Deletes every record owned by one account, e.g. as part of account deletion
// handled upstream. Zero matching records is a successful no-op.
// ══════════════════════════════════════════════════════════════════════════════

// PurgeAccountRecordsCommand identifies the account to purge.
type PurgeAccountRecordsCommand struct {
	AccountID string
}

// PurgeAccountRecordsResult reports how many records were removed.
type PurgeAccountRecordsResult struct {
	Deleted int `json:"deleted"`
}

// PurgeAccountRecordsHandler handles PurgeAccountRecordsCommand.
type PurgeAccountRecordsHandler struct {
	records   record.Repository
	publisher shared.EventPublisher
}

// NewPurgeAccountRecordsHandler creates a new handler.
func NewPurgeAccountRecordsHandler(records record.Repository, publisher shared.EventPublisher) *PurgeAccountRecordsHandler {
	return &PurgeAccountRecordsHandler{records: records, publisher: publisher}
}

// Handle removes all account records.
func (h *PurgeAccountRecordsHandler) Handle(ctx context.Context, cmd PurgeAccountRecordsCommand) (*PurgeAccountRecordsResult, error) {
	accountID, err := shared.NewAccountID(cmd.AccountID)
	if err != nil {
		return nil, err
	}

	deleted, err := h.records.DeleteByAccount(ctx, accountID)
	if err != nil {
		return nil, shared.WrapError("command", "PurgeAccountRecords", shared.ErrStore, "failed to purge records", err)
	}

	if h.publisher != nil && deleted > 0 {
		_ = h.publisher.Publish(shared.NewAccountPurgedEvent(accountID.String(), deleted))
	}

	return &PurgeAccountRecordsResult{Deleted: deleted}, nil
}
