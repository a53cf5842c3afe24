package ranking

import (
	"context"
	"time"

	"github.com/puzzlehive/stats-hub/internal/domain/shared"
)

// Snapshot is an explicit, versioned materialization of one global ranking.
// The engine itself never reads snapshots - queries recompute from the store.
// Snapshots exist only for the optional, feature-flagged cache layer, which
// must treat them as stale data with a declared age, never as the source of
// truth.
type Snapshot struct {
	// ID uniquely identifies this snapshot (assigned by the producer).
	ID string `json:"id"`

	// PuzzleType is the ranking's type filter.
	PuzzleType shared.PuzzleType `json:"puzzle_type"`

	// Difficulty is the optional difficulty filter; empty means all tiers.
	Difficulty shared.Difficulty `json:"difficulty,omitempty"`

	// Version increases monotonically per (PuzzleType, Difficulty) pair so
	// consumers can detect regressions when writes race.
	Version int64 `json:"version"`

	// TakenAt is when the ranking was computed.
	TakenAt time.Time `json:"taken_at"`

	// Entries is the ranked leaderboard at TakenAt, possibly capped by the
	// producer.
	Entries []RankingEntry `json:"entries"`

	// TotalRecords is the size of the filtered record set the ranking was
	// computed from. It can exceed len(Entries) when the producer caps the
	// stored entries.
	TotalRecords int `json:"total_records"`
}

// NewSnapshot builds a snapshot from a freshly computed ranking.
func NewSnapshot(id string, puzzleType shared.PuzzleType, difficulty shared.Difficulty, version int64, entries []RankingEntry, totalRecords int) *Snapshot {
	if totalRecords < len(entries) {
		totalRecords = len(entries)
	}
	return &Snapshot{
		ID:           id,
		PuzzleType:   puzzleType,
		Difficulty:   difficulty,
		Version:      version,
		TakenAt:      time.Now().UTC(),
		Entries:      entries,
		TotalRecords: totalRecords,
	}
}

// Age returns how old the snapshot is.
func (s *Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.TakenAt)
}

// IsStale reports whether the snapshot exceeds the given staleness bound.
func (s *Snapshot) IsStale(maxAge time.Duration, now time.Time) bool {
	if maxAge <= 0 {
		return true
	}
	return s.Age(now) > maxAge
}

// SnapshotStore is the port for the optional snapshot cache. Implementations
// must be safe to skip entirely: a load error or a stale snapshot always
// degrades to recomputation, never to a query failure.
type SnapshotStore interface {
	// Load returns the latest snapshot for the filter pair.
	// Returns shared.ErrSnapshotMissing when none is cached.
	Load(ctx context.Context, puzzleType shared.PuzzleType, difficulty shared.Difficulty) (*Snapshot, error)

	// Save stores a snapshot, replacing any previous one for the pair.
	Save(ctx context.Context, snap *Snapshot) error

	// Invalidate drops every cached snapshot for the puzzle type.
	Invalidate(ctx context.Context, puzzleType shared.PuzzleType) error
}

// Top returns the first n entries (all of them when n exceeds the length).
func (s *Snapshot) Top(n int) []RankingEntry {
	if n <= 0 {
		return nil
	}
	if n > len(s.Entries) {
		n = len(s.Entries)
	}
	out := make([]RankingEntry, n)
	copy(out, s.Entries[:n])
	return out
}
