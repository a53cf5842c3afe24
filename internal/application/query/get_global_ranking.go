package query

import (
	"context"
	"time"

	"github.com/puzzlehive/stats-hub/internal/domain/ranking"
	"github.com/puzzlehive/stats-hub/internal/domain/record"
	"github.com/puzzlehive/stats-hub/internal/domain/shared"
	"github.com/puzzlehive/stats-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET GLOBAL RANKING QUERY
// Materializes the leaderboard for a (puzzle_type, optional difficulty) pair.
// The ranking is recomputed from the store per query; a feature-flagged
// snapshot cache may answer instead when its snapshot is fresh enough, but the
// recomputation path is always the fallback.
// ══════════════════════════════════════════════════════════════════════════════

// GetGlobalRankingQuery carries the leaderboard request.
type GetGlobalRankingQuery struct {
	PuzzleType string
	Difficulty string // empty ranks across all difficulties
	Limit      int    // clamped into [1, MaxRankingLimit]
}

// Validate checks the filter shape and clamps the limit.
func (q *GetGlobalRankingQuery) Validate() error {
	if !shared.PuzzleType(q.PuzzleType).IsValid() {
		return shared.NewDomainError("query", "GetGlobalRanking", shared.ErrInvalidInput,
			"puzzle_type must be non-empty and at most 50 characters")
	}
	if q.Difficulty != "" && !shared.Difficulty(q.Difficulty).IsValid() {
		return shared.NewDomainError("query", "GetGlobalRanking", shared.ErrInvalidInput,
			"difficulty must be at most 20 characters")
	}
	q.Limit = ClampRankingLimit(q.Limit)
	return nil
}

// GetGlobalRankingResult is the materialized leaderboard.
type GetGlobalRankingResult struct {
	Entries     []ranking.RankingEntry `json:"entries"`
	PuzzleType  string                 `json:"puzzle_type"`
	Difficulty  string                 `json:"difficulty,omitempty"`
	TotalCount  int                    `json:"total_count"`
	FromCache   bool                   `json:"from_cache"`
	GeneratedAt time.Time              `json:"generated_at"`
}

// GetGlobalRankingHandler handles GetGlobalRankingQuery.
type GetGlobalRankingHandler struct {
	records   record.Repository
	snapshots ranking.SnapshotStore // nil when the cache feature is off
	maxAge    time.Duration         // snapshot staleness bound
	log       *logger.Logger
}

// NewGetGlobalRankingHandler creates a new handler. Pass a nil snapshot store
// to force recomputation on every call.
func NewGetGlobalRankingHandler(records record.Repository, snapshots ranking.SnapshotStore, maxAge time.Duration, log *logger.Logger) *GetGlobalRankingHandler {
	return &GetGlobalRankingHandler{
		records:   records,
		snapshots: snapshots,
		maxAge:    maxAge,
		log:       log,
	}
}

// Handle answers from a fresh snapshot when available, otherwise recomputes.
func (h *GetGlobalRankingHandler) Handle(ctx context.Context, q GetGlobalRankingQuery) (*GetGlobalRankingResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	puzzleType := shared.PuzzleType(q.PuzzleType)
	difficulty := shared.Difficulty(q.Difficulty)

	if entries, total, ok := h.tryFromSnapshot(ctx, puzzleType, difficulty, q.Limit); ok {
		return &GetGlobalRankingResult{
			Entries:     entries,
			PuzzleType:  q.PuzzleType,
			Difficulty:  q.Difficulty,
			TotalCount:  total,
			FromCache:   true,
			GeneratedAt: time.Now().UTC(),
		}, nil
	}

	entries, total, err := h.recompute(ctx, puzzleType, difficulty, q.Limit)
	if err != nil {
		return nil, err
	}

	return &GetGlobalRankingResult{
		Entries:     entries,
		PuzzleType:  q.PuzzleType,
		Difficulty:  q.Difficulty,
		TotalCount:  total,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// recompute loads the filtered records in store order and runs the engine.
func (h *GetGlobalRankingHandler) recompute(ctx context.Context, puzzleType shared.PuzzleType, difficulty shared.Difficulty, limit int) ([]ranking.RankingEntry, int, error) {
	filter := record.Filter{PuzzleType: puzzleType, Difficulty: difficulty}

	records, err := h.records.List(ctx, filter, record.Sort{}, record.Page{})
	if err != nil {
		return nil, 0, shared.WrapError("query", "GetGlobalRanking", shared.ErrStore, "failed to load records", err)
	}

	return ranking.Global(records, limit), len(records), nil
}

// tryFromSnapshot serves from the cache when a fresh snapshot exists.
// Any cache failure is logged and ignored; the caller recomputes.
func (h *GetGlobalRankingHandler) tryFromSnapshot(ctx context.Context, puzzleType shared.PuzzleType, difficulty shared.Difficulty, limit int) ([]ranking.RankingEntry, int, bool) {
	if h.snapshots == nil {
		return nil, 0, false
	}

	snap, err := h.snapshots.Load(ctx, puzzleType, difficulty)
	if err != nil {
		if h.log != nil && !shared.IsNotFound(err) {
			h.log.Warn("snapshot load failed, recomputing ranking", logger.Err(err))
		}
		return nil, 0, false
	}
	if snap.IsStale(h.maxAge, time.Now().UTC()) {
		return nil, 0, false
	}

	// TotalRecords is the uncapped size of the ranked set, so a cached
	// answer reports the same total the recompute path would.
	total := snap.TotalRecords
	if total < len(snap.Entries) {
		total = len(snap.Entries)
	}

	return snap.Top(limit), total, true
}
