package query

import (
	"context"
	"time"

	"github.com/puzzlehive/stats-hub/internal/domain/ranking"
	"github.com/puzzlehive/stats-hub/internal/domain/record"
	"github.com/puzzlehive/stats-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET PERSONAL RANKING QUERY
// Answers "where does this account stand" for a (puzzle_type, optional
// difficulty) pair: rank of the account's best-ordered record, total
// participants, and the personal-best record itself.
// ══════════════════════════════════════════════════════════════════════════════

// GetPersonalRankingQuery carries the standing request.
type GetPersonalRankingQuery struct {
	AccountID  string
	PuzzleType string
	Difficulty string // empty ranks across all difficulties
}

// Validate checks the account and filter shape.
func (q *GetPersonalRankingQuery) Validate() error {
	accountID, err := shared.NewAccountID(q.AccountID)
	if err != nil {
		return err
	}
	q.AccountID = accountID.String()

	if !shared.PuzzleType(q.PuzzleType).IsValid() {
		return shared.NewDomainError("query", "GetPersonalRanking", shared.ErrInvalidInput,
			"puzzle_type must be non-empty and at most 50 characters")
	}
	if q.Difficulty != "" && !shared.Difficulty(q.Difficulty).IsValid() {
		return shared.NewDomainError("query", "GetPersonalRanking", shared.ErrInvalidInput,
			"difficulty must be at most 20 characters")
	}
	return nil
}

// GetPersonalRankingResult is the account's standing.
type GetPersonalRankingResult struct {
	Standing    ranking.PersonalRankingResult `json:"standing"`
	AccountID   string                        `json:"account_id"`
	PuzzleType  string                        `json:"puzzle_type"`
	Difficulty  string                        `json:"difficulty,omitempty"`
	GeneratedAt time.Time                     `json:"generated_at"`
}

// GetPersonalRankingHandler handles GetPersonalRankingQuery.
type GetPersonalRankingHandler struct {
	records record.Repository
}

// NewGetPersonalRankingHandler creates a new handler.
func NewGetPersonalRankingHandler(records record.Repository) *GetPersonalRankingHandler {
	return &GetPersonalRankingHandler{records: records}
}

// Handle materializes the full filtered ranking and scans it for the account.
// The scan is unbounded so the rank and participant totals stay exact.
func (h *GetPersonalRankingHandler) Handle(ctx context.Context, q GetPersonalRankingQuery) (*GetPersonalRankingResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	accountID := shared.AccountID(q.AccountID)
	filter := record.Filter{
		PuzzleType: shared.PuzzleType(q.PuzzleType),
		Difficulty: shared.Difficulty(q.Difficulty),
	}

	all, err := h.records.List(ctx, filter, record.Sort{}, record.Page{})
	if err != nil {
		return nil, shared.WrapError("query", "GetPersonalRanking", shared.ErrStore, "failed to load records", err)
	}

	global := ranking.Global(all, personalScanLimit)

	own := make([]record.CompletionRecord, 0)
	for i := range all {
		if all[i].AccountID == accountID {
			own = append(own, all[i])
		}
	}

	return &GetPersonalRankingResult{
		Standing:    ranking.Personal(accountID, global, own),
		AccountID:   q.AccountID,
		PuzzleType:  q.PuzzleType,
		Difficulty:  q.Difficulty,
		GeneratedAt: time.Now().UTC(),
	}, nil
}
