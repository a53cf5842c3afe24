// Package ranking implements the competitive ordering over completion
// records: the global leaderboard, personal standing queries, and the
// best-record resolver. The engine is stateless - every ranking is recomputed
// from the records handed to it, there is no live-updated leaderboard to keep
// consistent.
//
// The canonical ordering used everywhere a single "best" must be chosen is
// ascending hint count first, ascending time taken second: fewer hints always
// beats faster time.
package ranking

import (
	"sort"
	"time"

	"github.com/puzzlehive/stats-hub/internal/domain/record"
	"github.com/puzzlehive/stats-hub/internal/domain/shared"
)

// RankingEntry is one position on a leaderboard. Leaderboards are per-record:
// an account with several qualifying records appears once per record.
type RankingEntry struct {
	Rank        int              `json:"rank"`
	RecordID    int64            `json:"record_id"`
	AccountID   shared.AccountID `json:"account_id"`
	HintCount   int              `json:"hint_count"`
	TimeTaken   int              `json:"time_taken"`
	CompletedAt time.Time        `json:"completed_at"`
}

// PersonalRankingResult answers "where does this account stand".
type PersonalRankingResult struct {
	// Rank is nil when the account has no qualifying record. Otherwise it is
	// the rank of the account's first entry in the scanned global ranking,
	// which is the account's best-ordered record there.
	Rank *int `json:"rank"`

	// TotalParticipants counts entries in the scanned ranking - records, not
	// distinct accounts. An undersized scan limit undercounts; callers who
	// need exactness pass the maximal limit.
	TotalParticipants int `json:"total_participants"`

	// PersonalBest is the account's single best record for the filter,
	// chosen by the canonical ordering. Nil when the account has no records.
	PersonalBest *record.CompletionRecord `json:"personal_best"`
}

// CanonicalLess reports whether a ranks strictly better than b:
// fewer hints first, faster time second.
func CanonicalLess(a, b *record.CompletionRecord) bool {
	if a.HintCount != b.HintCount {
		return a.HintCount < b.HintCount
	}
	return a.TimeTaken < b.TimeTaken
}

// Global produces the ordered leaderboard over the given records. The caller
// supplies pre-filtered records (one puzzle type, optionally one difficulty)
// in store order; filtering and limit clamping live in the query layer.
//
// Ranks are dense and sequential starting at 1: two records equal on both
// keys get distinct consecutive ranks, not a shared rank. Ties keep their
// relative store order (stable sort), which makes the assignment consistent
// within one query without promising anything across queries.
//
// A limit <= 0 means unbounded.
func Global(records []record.CompletionRecord, limit int) []RankingEntry {
	sorted := make([]record.CompletionRecord, len(records))
	copy(sorted, records)

	sort.SliceStable(sorted, func(i, j int) bool {
		return CanonicalLess(&sorted[i], &sorted[j])
	})

	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}

	entries := make([]RankingEntry, len(sorted))
	for i := range sorted {
		rec := &sorted[i]
		entries[i] = RankingEntry{
			Rank:        i + 1,
			RecordID:    rec.RecordID,
			AccountID:   rec.AccountID,
			HintCount:   rec.HintCount,
			TimeTaken:   rec.TimeTaken,
			CompletedAt: rec.CompletedAt,
		}
	}

	return entries
}

// Personal derives an account's standing from an already-materialized global
// ranking plus the account's own records for the same filter. The scan is
// linear: the first entry owned by the account decides the rank.
func Personal(accountID shared.AccountID, global []RankingEntry, ownRecords []record.CompletionRecord) PersonalRankingResult {
	result := PersonalRankingResult{
		TotalParticipants: len(global),
	}

	for i := range global {
		if global[i].AccountID == accountID {
			rank := global[i].Rank
			result.Rank = &rank
			break
		}
	}

	if best := pickCanonicalBest(ownRecords); best != nil {
		result.PersonalBest = best.Clone()
	}

	return result
}

// pickCanonicalBest returns the canonical-best record, first-seen on full
// ties, or nil for an empty slice.
func pickCanonicalBest(records []record.CompletionRecord) *record.CompletionRecord {
	var best *record.CompletionRecord
	for i := range records {
		if best == nil || CanonicalLess(&records[i], best) {
			best = &records[i]
		}
	}
	return best
}
