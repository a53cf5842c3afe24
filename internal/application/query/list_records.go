package query

import (
	"context"
	"time"

	"github.com/puzzlehive/stats-hub/internal/domain/record"
	"github.com/puzzlehive/stats-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST RECORDS QUERY
// Bounded, filterable, sortable listing of one account's completion records.
// All window clamping happens here; the store applies the resulting page
// verbatim.
// ══════════════════════════════════════════════════════════════════════════════

// ListRecordsQuery carries listing parameters as received from the transport.
type ListRecordsQuery struct {
	AccountID string

	// Optional filters.
	PuzzleType string
	Difficulty string

	// Optional closed date range; both or neither must be set.
	DateFrom *time.Time
	DateTo   *time.Time

	// Optional thresholds. Nil disables the filter.
	MaxHints *int
	MaxTime  *int

	// Sorting; empty means store order.
	SortBy    string
	SortOrder string

	// Pagination (1-based page).
	Page  int
	Limit int
}

// ListRecordsResult is one page of records plus paging metadata.
type ListRecordsResult struct {
	Records    []record.CompletionRecord `json:"records"`
	TotalCount int                       `json:"total_count"`
	Page       int                       `json:"page"`
	PageSize   int                       `json:"page_size"`
	HasMore    bool                      `json:"has_more"`
}

// ListRecordsHandler handles ListRecordsQuery.
type ListRecordsHandler struct {
	records record.Repository
}

// NewListRecordsHandler creates a new handler.
func NewListRecordsHandler(records record.Repository) *ListRecordsHandler {
	return &ListRecordsHandler{records: records}
}

// Handle validates the window, builds the store filter, and fetches one page.
func (h *ListRecordsHandler) Handle(ctx context.Context, q ListRecordsQuery) (*ListRecordsResult, error) {
	accountID, err := shared.NewAccountID(q.AccountID)
	if err != nil {
		return nil, err
	}

	filter := record.Filter{
		AccountID:  accountID,
		PuzzleType: shared.PuzzleType(q.PuzzleType),
		Difficulty: shared.Difficulty(q.Difficulty),
	}

	if q.DateFrom != nil || q.DateTo != nil {
		if q.DateFrom == nil || q.DateTo == nil {
			return nil, shared.NewDomainError("query", "ListRecords", shared.ErrInvalidRange,
				"date_from and date_to must be provided together")
		}
		rng, err := NewDateRange(*q.DateFrom, *q.DateTo)
		if err != nil {
			return nil, err
		}
		filter.From = &rng.From
		filter.To = &rng.To
	}

	if q.MaxHints != nil {
		if err := ValidateHintThreshold(*q.MaxHints); err != nil {
			return nil, err
		}
		filter.MaxHints = q.MaxHints
	}
	if q.MaxTime != nil {
		if err := ValidateTimeThreshold(*q.MaxTime); err != nil {
			return nil, err
		}
		filter.MaxTime = q.MaxTime
	}

	sort, err := parseSort(q.SortBy, q.SortOrder)
	if err != nil {
		return nil, err
	}

	limit, offset := ClampPage(q.Page, q.Limit)
	page := offset/limit + 1

	records, err := h.records.List(ctx, filter, sort, record.Page{Limit: limit, Offset: offset})
	if err != nil {
		return nil, shared.WrapError("query", "ListRecords", shared.ErrStore, "failed to list records", err)
	}

	total, err := h.records.Count(ctx, filter)
	if err != nil {
		return nil, shared.WrapError("query", "ListRecords", shared.ErrStore, "failed to count records", err)
	}

	return &ListRecordsResult{
		Records:    records,
		TotalCount: total,
		Page:       page,
		PageSize:   limit,
		HasMore:    offset+len(records) < total,
	}, nil
}

// parseSort validates sort_by/sort_order. Empty sort_by means store order;
// empty sort_order defaults to ascending.
func parseSort(sortBy, sortOrder string) (record.Sort, error) {
	if sortBy == "" {
		if sortOrder != "" {
			return record.Sort{}, shared.NewDomainError("query", "Sort", shared.ErrInvalidInput,
				"sort_order requires sort_by")
		}
		return record.Sort{}, nil
	}

	field := record.SortField(sortBy)
	if !field.IsValid() {
		return record.Sort{}, shared.NewDomainError("query", "Sort", shared.ErrInvalidInput,
			"sort_by must be one of completed_at, hint_count, time_taken")
	}

	order := record.SortOrder(sortOrder)
	if sortOrder == "" {
		order = record.SortAsc
	}
	if !order.IsValid() {
		return record.Sort{}, shared.NewDomainError("query", "Sort", shared.ErrInvalidInput,
			"sort_order must be ASC or DESC")
	}

	return record.Sort{Field: field, Order: order}, nil
}
