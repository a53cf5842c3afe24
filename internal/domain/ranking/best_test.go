package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puzzlehive/stats-hub/internal/domain/record"
)

func TestBestRecords_Empty(t *testing.T) {
	set := BestRecords(nil)

	assert.True(t, set.IsEmpty())
	assert.Nil(t, set.Fastest)
	assert.Nil(t, set.FewestHints)
	assert.Empty(t, set.ByType)
	assert.Empty(t, set.ByDifficulty)
}

func TestBestRecords_FastestTiesKeepStoreOrder(t *testing.T) {
	records := []record.CompletionRecord{
		{RecordID: 1, PuzzleType: "a", Difficulty: "x", HintCount: 5, TimeTaken: 60},
		{RecordID: 2, PuzzleType: "a", Difficulty: "x", HintCount: 0, TimeTaken: 60},
		{RecordID: 3, PuzzleType: "a", Difficulty: "x", HintCount: 0, TimeTaken: 90},
	}

	set := BestRecords(records)

	// Fastest ignores hints entirely; the 60s tie resolves to the record
	// that appeared first in store order.
	require.NotNil(t, set.Fastest)
	assert.Equal(t, int64(1), set.Fastest.RecordID)
}

func TestBestRecords_FewestHintsPrefersFaster(t *testing.T) {
	records := []record.CompletionRecord{
		{RecordID: 1, PuzzleType: "a", Difficulty: "x", HintCount: 0, TimeTaken: 200},
		{RecordID: 2, PuzzleType: "a", Difficulty: "x", HintCount: 0, TimeTaken: 90},
		{RecordID: 3, PuzzleType: "a", Difficulty: "x", HintCount: 1, TimeTaken: 10},
	}

	set := BestRecords(records)

	require.NotNil(t, set.FewestHints)
	assert.Equal(t, int64(2), set.FewestHints.RecordID)

	// Property check: nothing has fewer hints, and nothing with equal hints
	// is faster.
	for _, r := range records {
		assert.LessOrEqual(t, set.FewestHints.HintCount, r.HintCount)
		if r.HintCount == set.FewestHints.HintCount {
			assert.LessOrEqual(t, set.FewestHints.TimeTaken, r.TimeTaken)
		}
	}
}

func TestBestRecords_PerGroupCanonicalBest(t *testing.T) {
	records := []record.CompletionRecord{
		{RecordID: 1, PuzzleType: "sudoku", Difficulty: "easy", HintCount: 2, TimeTaken: 50},
		{RecordID: 2, PuzzleType: "sudoku", Difficulty: "hard", HintCount: 0, TimeTaken: 300},
		{RecordID: 3, PuzzleType: "chess_puzzle", Difficulty: "hard", HintCount: 1, TimeTaken: 40},
		{RecordID: 4, PuzzleType: "chess_puzzle", Difficulty: "easy", HintCount: 1, TimeTaken: 30},
	}

	set := BestRecords(records)

	require.Len(t, set.ByType, 2)
	// Canonical ordering: hints beat time, so the 0-hint 300s sudoku wins
	// over the 2-hint 50s one.
	assert.Equal(t, int64(2), set.ByType["sudoku"].RecordID)
	assert.Equal(t, int64(4), set.ByType["chess_puzzle"].RecordID)

	require.Len(t, set.ByDifficulty, 2)
	assert.Equal(t, int64(2), set.ByDifficulty["hard"].RecordID)
	assert.Equal(t, int64(4), set.ByDifficulty["easy"].RecordID)
}

func TestBestRecords_ResultsDetachedFromInput(t *testing.T) {
	records := []record.CompletionRecord{
		{RecordID: 1, PuzzleType: "a", Difficulty: "x", HintCount: 0, TimeTaken: 60},
	}

	set := BestRecords(records)
	records[0].TimeTaken = 999

	assert.Equal(t, 60, set.Fastest.TimeTaken)
}
