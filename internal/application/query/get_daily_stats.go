package query

import (
	"context"
	"time"

	"github.com/puzzlehive/stats-hub/internal/domain/record"
	"github.com/puzzlehive/stats-hub/internal/domain/shared"
	"github.com/puzzlehive/stats-hub/internal/domain/stats"
	"github.com/puzzlehive/stats-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET DAILY STATS QUERY
// Buckets an account's records into UTC calendar days over a trailing window.
// Days with no completions are omitted rather than zero-filled.
// ══════════════════════════════════════════════════════════════════════════════

// GetDailyStatsQuery carries the daily-breakdown request.
type GetDailyStatsQuery struct {
	AccountID string
	Days      int // clamped into [1, MaxLookbackDays]
}

// Validate checks the account and clamps the window.
func (q *GetDailyStatsQuery) Validate() error {
	accountID, err := shared.NewAccountID(q.AccountID)
	if err != nil {
		return err
	}
	q.AccountID = accountID.String()
	q.Days = ClampDays(q.Days)
	return nil
}

// GetDailyStatsResult is the per-day breakdown, oldest day first.
type GetDailyStatsResult struct {
	AccountID   string              `json:"account_id"`
	Days        int                 `json:"days"`
	From        time.Time           `json:"from"`
	To          time.Time           `json:"to"`
	Buckets     []stats.DailyBucket `json:"buckets"`
	GeneratedAt time.Time           `json:"generated_at"`
}

// GetDailyStatsHandler handles GetDailyStatsQuery.
type GetDailyStatsHandler struct {
	records record.Repository
	now     func() time.Time
}

// NewGetDailyStatsHandler creates a new handler.
func NewGetDailyStatsHandler(records record.Repository) *GetDailyStatsHandler {
	return &GetDailyStatsHandler{records: records, now: time.Now}
}

// Handle computes the trailing window ending today (UTC) and buckets the
// account's records that fall inside it.
func (h *GetDailyStatsHandler) Handle(ctx context.Context, q GetDailyStatsQuery) (*GetDailyStatsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	// A window of N days covers today plus the N-1 days before it,
	// half-open at tomorrow's midnight.
	from, to := timeutil.TrailingWindow(h.now(), q.Days)

	filter := record.Filter{
		AccountID: shared.AccountID(q.AccountID),
		From:      &from,
		To:        &to,
	}

	records, err := h.records.List(ctx, filter, record.Sort{}, record.Page{})
	if err != nil {
		return nil, shared.WrapError("query", "GetDailyStats", shared.ErrStore, "failed to load records", err)
	}

	return &GetDailyStatsResult{
		AccountID:   q.AccountID,
		Days:        q.Days,
		From:        from,
		To:          to,
		Buckets:     stats.BucketByDay(records, from, to),
		GeneratedAt: h.now().UTC(),
	}, nil
}
