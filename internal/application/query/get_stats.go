package query

import (
	"context"
	"time"

	"github.com/puzzlehive/stats-hub/internal/domain/record"
	"github.com/puzzlehive/stats-hub/internal/domain/shared"
	"github.com/puzzlehive/stats-hub/internal/domain/stats"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET STATS QUERY
// Descriptive statistics over one account's records, optionally narrowed to a
// bounded date range. Recomputed from the store on every call.
// ══════════════════════════════════════════════════════════════════════════════

// GetStatsQuery carries the stats request.
type GetStatsQuery struct {
	AccountID string

	// Optional bounded window; both or neither.
	DateFrom *time.Time
	DateTo   *time.Time
}

// GetStatsResult wraps the computed summary.
type GetStatsResult struct {
	Summary     stats.StatsSummary `json:"summary"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// GetStatsHandler handles GetStatsQuery.
type GetStatsHandler struct {
	records record.Repository
}

// NewGetStatsHandler creates a new handler.
func NewGetStatsHandler(records record.Repository) *GetStatsHandler {
	return &GetStatsHandler{records: records}
}

// Handle fetches the account's records and summarizes them in memory.
func (h *GetStatsHandler) Handle(ctx context.Context, q GetStatsQuery) (*GetStatsResult, error) {
	accountID, err := shared.NewAccountID(q.AccountID)
	if err != nil {
		return nil, err
	}

	filter := record.Filter{AccountID: accountID}
	if q.DateFrom != nil || q.DateTo != nil {
		if q.DateFrom == nil || q.DateTo == nil {
			return nil, shared.NewDomainError("query", "GetStats", shared.ErrInvalidRange,
				"date_from and date_to must be provided together")
		}
		rng, err := NewDateRange(*q.DateFrom, *q.DateTo)
		if err != nil {
			return nil, err
		}
		filter.From = &rng.From
		filter.To = &rng.To
	}

	records, err := h.records.List(ctx, filter, record.Sort{}, record.Page{})
	if err != nil {
		return nil, shared.WrapError("query", "GetStats", shared.ErrStore, "failed to load records", err)
	}

	return &GetStatsResult{
		Summary:     stats.Summarize(records),
		GeneratedAt: time.Now().UTC(),
	}, nil
}
