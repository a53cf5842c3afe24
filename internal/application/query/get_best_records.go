package query

import (
	"context"
	"sort"
	"time"

	"github.com/puzzlehive/stats-hub/internal/domain/ranking"
	"github.com/puzzlehive/stats-hub/internal/domain/record"
	"github.com/puzzlehive/stats-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET BEST RECORDS QUERY
// Resolves one account's standout records: fastest, fewest-hints, and the
// canonical best per type and per difficulty. Optionally annotates each pick
// with presentation scores.
// ══════════════════════════════════════════════════════════════════════════════

// GetBestRecordsQuery carries the request.
type GetBestRecordsQuery struct {
	AccountID string

	// IncludeScores adds hint/time/total scores to each pick.
	IncludeScores bool

	// BaseTime feeds the time score; <= 0 selects the 300s default.
	BaseTime int
}

// ScoredRecord pairs a record with its presentation scores.
type ScoredRecord struct {
	Record     record.CompletionRecord `json:"record"`
	HintScore  int                     `json:"hint_score"`
	TimeScore  int                     `json:"time_score"`
	TotalScore int                     `json:"total_score"`
}

// GetBestRecordsResult holds the resolved set.
type GetBestRecordsResult struct {
	Best        ranking.BestRecordSet `json:"best"`
	Scores      []ScoredRecord        `json:"scores,omitempty"`
	GeneratedAt time.Time             `json:"generated_at"`
}

// GetBestRecordsHandler handles GetBestRecordsQuery.
type GetBestRecordsHandler struct {
	records record.Repository
}

// NewGetBestRecordsHandler creates a new handler.
func NewGetBestRecordsHandler(records record.Repository) *GetBestRecordsHandler {
	return &GetBestRecordsHandler{records: records}
}

// Handle loads the account's records in store order and resolves the set.
// An account with zero records yields an empty set, not an error.
func (h *GetBestRecordsHandler) Handle(ctx context.Context, q GetBestRecordsQuery) (*GetBestRecordsResult, error) {
	accountID, err := shared.NewAccountID(q.AccountID)
	if err != nil {
		return nil, err
	}

	records, err := h.records.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, shared.WrapError("query", "GetBestRecords", shared.ErrStore, "failed to load records", err)
	}

	result := &GetBestRecordsResult{
		Best:        ranking.BestRecords(records),
		GeneratedAt: time.Now().UTC(),
	}

	if q.IncludeScores {
		result.Scores = scorePicks(&result.Best, q.BaseTime)
	}

	return result, nil
}

// scorePicks annotates the distinct picks of a best-record set.
func scorePicks(set *ranking.BestRecordSet, baseTime int) []ScoredRecord {
	if set.IsEmpty() {
		return nil
	}

	seen := make(map[int64]bool)
	var scored []ScoredRecord

	add := func(rec *record.CompletionRecord) {
		if rec == nil || seen[rec.RecordID] {
			return
		}
		seen[rec.RecordID] = true
		scored = append(scored, ScoredRecord{
			Record:     *rec,
			HintScore:  ranking.HintScore(rec.HintCount, rec.Difficulty),
			TimeScore:  ranking.TimeScore(rec.TimeTaken, baseTime),
			TotalScore: ranking.TotalScore(rec.HintCount, rec.TimeTaken, rec.Difficulty, baseTime),
		})
	}

	add(set.Fastest)
	add(set.FewestHints)
	for _, rec := range set.ByType {
		add(rec)
	}
	for _, rec := range set.ByDifficulty {
		add(rec)
	}

	// Map iteration above is unordered; sort so repeated reads are identical.
	sort.Slice(scored, func(i, j int) bool {
		return scored[i].Record.RecordID < scored[j].Record.RecordID
	})

	return scored
}
