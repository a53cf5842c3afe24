// Package stats computes descriptive statistics over completion records.
// Every summary is a pure function of the record set handed to it: nothing is
// cached or stored, so results always reflect the store contents at query
// time. All aggregation operations are associative and commutative (sum,
// count, min), which makes the output independent of iteration order.
package stats

import (
	"math"

	"github.com/puzzlehive/stats-hub/internal/domain/record"
)

// GroupStats describes one puzzle_type or difficulty group within a summary.
type GroupStats struct {
	// Count is the number of records in the group.
	Count int `json:"count"`

	// BestTime is the minimum time_taken observed in the group, in seconds.
	BestTime int `json:"best_time"`

	// TotalHints is the sum of hint counts across the group (a sum, not an
	// average, so groups can be merged without re-reading records).
	TotalHints int `json:"total_hints"`
}

// StatsSummary holds descriptive statistics over a record set, broken down by
// puzzle type and by difficulty. Grouping keys are compared exactly; no case
// folding or trimming is applied.
type StatsSummary struct {
	// TotalPuzzles is the number of records summarized.
	TotalPuzzles int `json:"total_puzzles"`

	// TotalTime is the sum of time_taken across all records, in seconds.
	TotalTime int `json:"total_time"`

	// AverageTime is TotalTime / TotalPuzzles, rounded half-up.
	AverageTime int `json:"average_time"`

	// MinTime is the fastest completion observed, 0 for an empty set.
	MinTime int `json:"min_time"`

	// TotalHints is the sum of hint counts across all records.
	TotalHints int `json:"total_hints"`

	// AverageHints is TotalHints / TotalPuzzles, rounded half-up.
	AverageHints int `json:"average_hints"`

	// ByType groups records by exact puzzle_type string.
	ByType map[string]GroupStats `json:"by_type"`

	// ByDifficulty groups records by exact difficulty string.
	ByDifficulty map[string]GroupStats `json:"by_difficulty"`
}

// Summarize computes a StatsSummary over the given records.
// An empty input yields a zero summary with empty group maps, not an error.
func Summarize(records []record.CompletionRecord) StatsSummary {
	summary := StatsSummary{
		ByType:       make(map[string]GroupStats),
		ByDifficulty: make(map[string]GroupStats),
	}

	for i := range records {
		rec := &records[i]

		summary.TotalPuzzles++
		summary.TotalTime += rec.TimeTaken
		summary.TotalHints += rec.HintCount

		if summary.TotalPuzzles == 1 || rec.TimeTaken < summary.MinTime {
			summary.MinTime = rec.TimeTaken
		}

		mergeGroup(summary.ByType, rec.PuzzleType.String(), rec)
		mergeGroup(summary.ByDifficulty, rec.Difficulty.String(), rec)
	}

	if summary.TotalPuzzles > 0 {
		summary.AverageTime = RoundHalfUp(float64(summary.TotalTime) / float64(summary.TotalPuzzles))
		summary.AverageHints = RoundHalfUp(float64(summary.TotalHints) / float64(summary.TotalPuzzles))
	}

	return summary
}

// mergeGroup folds one record into the group keyed by key.
func mergeGroup(groups map[string]GroupStats, key string, rec *record.CompletionRecord) {
	g, ok := groups[key]
	if !ok || rec.TimeTaken < g.BestTime {
		g.BestTime = rec.TimeTaken
	}
	g.Count++
	g.TotalHints += rec.HintCount
	groups[key] = g
}

// RoundHalfUp rounds the quotient to the nearest integer, with .5 going up.
func RoundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
