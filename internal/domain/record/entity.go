// Package record contains the completion-record entity and its validation
// rules. A completion record is one puzzle-solve event with its time and hint
// cost. Records are immutable: created once on submission, deleted only by
// explicit account-scoped deletion, never updated.
// This is a pure domain layer with zero external dependencies.
package record

import (
	"time"

	"github.com/puzzlehive/stats-hub/internal/domain/shared"
)

// Bounds for completion-record fields.
const (
	// MaxTimeTaken is the longest accepted solve time: one full day in seconds.
	MaxTimeTaken = 86400

	// MaxHintCount is the most hints a single solve can consume.
	MaxHintCount = 100
)

// CompletionRecord is the central entity: one completed puzzle, owned by
// exactly one account. RecordID is assigned by the store on insert.
type CompletionRecord struct {
	RecordID    int64             `json:"record_id"`
	AccountID   shared.AccountID  `json:"account_id"`
	PuzzleType  shared.PuzzleType `json:"puzzle_type"`
	Difficulty  shared.Difficulty `json:"difficulty"`
	TimeTaken   int               `json:"time_taken"`
	HintCount   int               `json:"hint_count"`
	CompletedAt time.Time         `json:"completed_at"`
}

// Submission is a completion payload as received from the transport layer,
// before validation. AccountID comes from the externally-authenticated caller,
// the rest from the request body. CompletedAt may be zero, meaning "now".
type Submission struct {
	AccountID   string
	PuzzleType  string
	Difficulty  string
	TimeTaken   int
	HintCount   int
	CompletedAt time.Time
}

// Validate checks the submission against the record invariants.
// Checks run in a fixed order and the first failure wins, so callers get a
// stable, single violated constraint per attempt. Pure: no side effects.
func (s *Submission) Validate(now time.Time) error {
	accountID, err := shared.NewAccountID(s.AccountID)
	if err != nil {
		return shared.NewDomainError("record", "Validate", shared.ErrInvalidID,
			"account_id must match ^[A-Z0-9]{12}$")
	}
	s.AccountID = accountID.String()

	if !shared.PuzzleType(s.PuzzleType).IsValid() {
		return shared.NewDomainError("record", "Validate", shared.ErrInvalidInput,
			"puzzle_type must be non-empty and at most 50 characters")
	}
	if !shared.Difficulty(s.Difficulty).IsValid() {
		return shared.NewDomainError("record", "Validate", shared.ErrInvalidInput,
			"difficulty must be non-empty and at most 20 characters")
	}
	if s.TimeTaken < 0 || s.TimeTaken > MaxTimeTaken {
		return shared.NewDomainError("record", "Validate", shared.ErrValueOutOfRange,
			"time_taken must be between 0 and 86400 seconds")
	}
	if s.HintCount < 0 || s.HintCount > MaxHintCount {
		return shared.NewDomainError("record", "Validate", shared.ErrValueOutOfRange,
			"hint_count must be between 0 and 100")
	}
	if s.CompletedAt.IsZero() {
		s.CompletedAt = now
	}
	if s.CompletedAt.After(now) {
		return shared.NewDomainError("record", "Validate", shared.ErrFutureTimestamp,
			"completed_at cannot be in the future")
	}
	return nil
}

// ToRecord converts a validated submission into a CompletionRecord.
// RecordID stays zero until the store assigns it.
func (s *Submission) ToRecord() *CompletionRecord {
	return &CompletionRecord{
		AccountID:   shared.AccountID(s.AccountID),
		PuzzleType:  shared.PuzzleType(s.PuzzleType),
		Difficulty:  shared.Difficulty(s.Difficulty),
		TimeTaken:   s.TimeTaken,
		HintCount:   s.HintCount,
		CompletedAt: s.CompletedAt.UTC(),
	}
}

// BelongsTo reports whether the record is owned by the given account.
func (r *CompletionRecord) BelongsTo(accountID shared.AccountID) bool {
	return r.AccountID == accountID
}

// Clone returns a copy of the record.
func (r *CompletionRecord) Clone() *CompletionRecord {
	if r == nil {
		return nil
	}
	clone := *r
	return &clone
}
