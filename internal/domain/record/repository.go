package record

import (
	"context"
	"time"

	"github.com/puzzlehive/stats-hub/internal/domain/shared"
)

// SortField names a column the store can order listings by.
type SortField string

// Accepted sort fields for record listings.
const (
	SortByCompletedAt SortField = "completed_at"
	SortByHintCount   SortField = "hint_count"
	SortByTimeTaken   SortField = "time_taken"
)

// IsValid checks the sort field is one of the accepted columns.
func (f SortField) IsValid() bool {
	switch f {
	case SortByCompletedAt, SortByHintCount, SortByTimeTaken:
		return true
	}
	return false
}

// SortOrder is the listing direction.
type SortOrder string

// Accepted sort orders.
const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// IsValid checks the order is ASC or DESC.
func (o SortOrder) IsValid() bool {
	return o == SortAsc || o == SortDesc
}

// Sort describes the requested listing order. The zero value means store
// natural order (ascending record_id, i.e. insertion order).
type Sort struct {
	Field SortField
	Order SortOrder
}

// Page bounds a listing. Limit and Offset are assumed already clamped by the
// windowed query layer; the store applies them verbatim. A Limit <= 0 means
// no limit (used by in-memory aggregation paths that need the full set).
type Page struct {
	Limit  int
	Offset int
}

// Filter narrows a record query. Zero-valued fields are ignored.
type Filter struct {
	AccountID  shared.AccountID
	PuzzleType shared.PuzzleType
	Difficulty shared.Difficulty

	// Closed time range on completed_at. Nil bound = unbounded on that side.
	From *time.Time
	To   *time.Time

	// MaxHints keeps records with hint_count <= *MaxHints ("low hint" filter).
	MaxHints *int

	// MaxTime keeps records with time_taken <= *MaxTime ("fast record" filter).
	MaxTime *int
}

// Repository is the Record Store boundary. The engine treats the store as an
// external collaborator: durable, append-only, queryable. Implementations must
// serialize concurrent inserts so record IDs are unique, and must surface
// failures as shared.ErrStore-kinded errors; the engine never retries them.
type Repository interface {
	// Create persists a new record as a single atomic append and assigns
	// RecordID on the passed entity.
	Create(ctx context.Context, rec *CompletionRecord) error

	// GetByID returns a record by its store-assigned ID.
	// Returns shared.ErrRecordNotFound when absent.
	GetByID(ctx context.Context, recordID int64) (*CompletionRecord, error)

	// List returns records matching the filter in the requested order.
	// With a zero Sort, records come back in insertion order.
	List(ctx context.Context, filter Filter, sort Sort, page Page) ([]CompletionRecord, error)

	// Count returns the number of records matching the filter.
	Count(ctx context.Context, filter Filter) (int, error)

	// ListByAccount returns every record owned by the account, in insertion
	// order. Used by the best-record resolver and daily stats.
	ListByAccount(ctx context.Context, accountID shared.AccountID) ([]CompletionRecord, error)

	// Delete removes one record owned by the account.
	// Returns shared.ErrRecordNotFound when the record does not exist and
	// shared.ErrRecordNotOwned when it belongs to a different account.
	Delete(ctx context.Context, recordID int64, accountID shared.AccountID) error

	// DeleteByAccount removes every record owned by the account and reports
	// how many were deleted. Deleting zero records is not an error.
	DeleteByAccount(ctx context.Context, accountID shared.AccountID) (int, error)
}
