package ranking

import (
	"github.com/puzzlehive/stats-hub/internal/domain/record"
)

// BestRecordSet collects an account's standout records. All fields are nil or
// empty when the account has no records - that is a valid result, not an
// error.
type BestRecordSet struct {
	// Fastest is the record with the minimum time_taken. Ties keep the first
	// record in store order; the tie-break is deterministic but carries no
	// meaning beyond that.
	Fastest *record.CompletionRecord `json:"fastest"`

	// FewestHints is the record with the minimum hint count, preferring the
	// faster record among equals - i.e. the canonical-best record overall.
	FewestHints *record.CompletionRecord `json:"fewest_hints"`

	// ByType maps each distinct puzzle_type to its canonical-best record.
	ByType map[string]*record.CompletionRecord `json:"by_type"`

	// ByDifficulty maps each distinct difficulty to its canonical-best record.
	ByDifficulty map[string]*record.CompletionRecord `json:"by_difficulty"`
}

// BestRecords resolves the best-record set over one account's records,
// which must be supplied in store (insertion) order.
func BestRecords(records []record.CompletionRecord) BestRecordSet {
	set := BestRecordSet{
		ByType:       make(map[string]*record.CompletionRecord),
		ByDifficulty: make(map[string]*record.CompletionRecord),
	}

	for i := range records {
		rec := &records[i]

		if set.Fastest == nil || rec.TimeTaken < set.Fastest.TimeTaken {
			set.Fastest = rec
		}
		if set.FewestHints == nil || CanonicalLess(rec, set.FewestHints) {
			set.FewestHints = rec
		}

		typeKey := rec.PuzzleType.String()
		if cur, ok := set.ByType[typeKey]; !ok || CanonicalLess(rec, cur) {
			set.ByType[typeKey] = rec
		}

		diffKey := rec.Difficulty.String()
		if cur, ok := set.ByDifficulty[diffKey]; !ok || CanonicalLess(rec, cur) {
			set.ByDifficulty[diffKey] = rec
		}
	}

	// Detach from the caller's slice.
	set.Fastest = set.Fastest.Clone()
	set.FewestHints = set.FewestHints.Clone()
	for k, v := range set.ByType {
		set.ByType[k] = v.Clone()
	}
	for k, v := range set.ByDifficulty {
		set.ByDifficulty[k] = v.Clone()
	}

	return set
}

// IsEmpty reports whether the set holds no records at all.
func (s *BestRecordSet) IsEmpty() bool {
	return s.Fastest == nil
}
