package ranking

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puzzlehive/stats-hub/internal/domain/record"
	"github.com/puzzlehive/stats-hub/internal/domain/shared"
)

func chessRecord(id int64, account string, hints, timeTaken int) record.CompletionRecord {
	return record.CompletionRecord{
		RecordID:    id,
		AccountID:   shared.AccountID(account),
		PuzzleType:  "chess_puzzle",
		Difficulty:  "medium",
		HintCount:   hints,
		TimeTaken:   timeTaken,
		CompletedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(id) * time.Minute),
	}
}

func TestGlobal_CanonicalOrdering(t *testing.T) {
	// The documented scenario: zero-hint records beat hinted ones regardless
	// of speed, and speed breaks ties within a hint count.
	records := []record.CompletionRecord{
		chessRecord(1, "AAAAAAAAAAA1", 0, 120),
		chessRecord(2, "AAAAAAAAAAA2", 2, 90),
		chessRecord(3, "AAAAAAAAAAA3", 0, 80),
	}

	entries := Global(records, 0)

	require.Len(t, entries, 3)
	assert.Equal(t, []int{0, 0, 2}, []int{entries[0].HintCount, entries[1].HintCount, entries[2].HintCount})
	assert.Equal(t, []int{80, 120, 90}, []int{entries[0].TimeTaken, entries[1].TimeTaken, entries[2].TimeTaken})
	assert.Equal(t, []int{1, 2, 3}, []int{entries[0].Rank, entries[1].Rank, entries[2].Rank})
}

func TestGlobal_DenseRanksOnTies(t *testing.T) {
	// Identical (hints, time) pairs still receive distinct consecutive ranks.
	records := []record.CompletionRecord{
		chessRecord(1, "AAAAAAAAAAA1", 1, 100),
		chessRecord(2, "AAAAAAAAAAA2", 1, 100),
		chessRecord(3, "AAAAAAAAAAA3", 1, 100),
	}

	entries := Global(records, 0)

	require.Len(t, entries, 3)
	for i, e := range entries {
		assert.Equal(t, i+1, e.Rank)
	}
	// Stable sort keeps store order among full ties.
	assert.Equal(t, int64(1), entries[0].RecordID)
	assert.Equal(t, int64(2), entries[1].RecordID)
	assert.Equal(t, int64(3), entries[2].RecordID)
}

func TestGlobal_RankDensity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	records := make([]record.CompletionRecord, 50)
	for i := range records {
		records[i] = chessRecord(int64(i+1), "AAAAAAAAAAA1", rng.Intn(5), 60+rng.Intn(10))
	}

	entries := Global(records, 0)

	require.Len(t, entries, 50)
	for i, e := range entries {
		assert.Equal(t, i+1, e.Rank, "ranks must be exactly 1..N with no gaps")
	}
}

func TestGlobal_Monotonicity(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	records := make([]record.CompletionRecord, 100)
	for i := range records {
		records[i] = chessRecord(int64(i+1), "AAAAAAAAAAA1", rng.Intn(10), rng.Intn(600))
	}

	entries := Global(records, 0)

	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1], entries[i]
		better := prev.HintCount < cur.HintCount ||
			(prev.HintCount == cur.HintCount && prev.TimeTaken <= cur.TimeTaken)
		assert.True(t, better, "entry %d must not outrank entry %d", i, i-1)
	}
}

func TestGlobal_Limit(t *testing.T) {
	records := []record.CompletionRecord{
		chessRecord(1, "AAAAAAAAAAA1", 3, 100),
		chessRecord(2, "AAAAAAAAAAA2", 0, 100),
		chessRecord(3, "AAAAAAAAAAA3", 1, 100),
	}

	entries := Global(records, 2)

	require.Len(t, entries, 2)
	assert.Equal(t, int64(2), entries[0].RecordID)
	assert.Equal(t, int64(3), entries[1].RecordID)
}

func TestGlobal_DoesNotMutateInput(t *testing.T) {
	records := []record.CompletionRecord{
		chessRecord(1, "AAAAAAAAAAA1", 3, 100),
		chessRecord(2, "AAAAAAAAAAA2", 0, 100),
	}

	Global(records, 0)

	assert.Equal(t, int64(1), records[0].RecordID, "input slice order must survive")
	assert.Equal(t, int64(2), records[1].RecordID)
}

func TestGlobal_Empty(t *testing.T) {
	assert.Empty(t, Global(nil, 10))
}

func TestGlobal_SameAccountAppearsPerRecord(t *testing.T) {
	records := []record.CompletionRecord{
		chessRecord(1, "AAAAAAAAAAA1", 0, 90),
		chessRecord(2, "AAAAAAAAAAA1", 0, 70),
	}

	entries := Global(records, 0)

	require.Len(t, entries, 2)
	assert.Equal(t, entries[0].AccountID, entries[1].AccountID)
}

func TestPersonal_RankAndTotals(t *testing.T) {
	records := []record.CompletionRecord{
		chessRecord(1, "AAAAAAAAAAA1", 0, 120),
		chessRecord(2, "AAAAAAAAAAA2", 2, 90),
		chessRecord(3, "AAAAAAAAAAA2", 0, 80),
	}
	global := Global(records, 0)

	own := []record.CompletionRecord{records[1], records[2]}
	result := Personal("AAAAAAAAAAA2", global, own)

	require.NotNil(t, result.Rank)
	assert.Equal(t, 1, *result.Rank, "first owned entry in the ranking decides the rank")
	assert.Equal(t, 3, result.TotalParticipants, "participants are records, not accounts")
	require.NotNil(t, result.PersonalBest)
	assert.Equal(t, int64(3), result.PersonalBest.RecordID)
}

func TestPersonal_AbsentAccount(t *testing.T) {
	global := Global([]record.CompletionRecord{
		chessRecord(1, "AAAAAAAAAAA1", 0, 120),
	}, 0)

	result := Personal("ZZZZZZZZZZZ9", global, nil)

	assert.Nil(t, result.Rank)
	assert.Equal(t, 1, result.TotalParticipants)
	assert.Nil(t, result.PersonalBest)
}

func TestPersonal_TruncatedScanUndercounts(t *testing.T) {
	records := []record.CompletionRecord{
		chessRecord(1, "AAAAAAAAAAA1", 0, 60),
		chessRecord(2, "AAAAAAAAAAA2", 1, 60),
		chessRecord(3, "AAAAAAAAAAA3", 2, 60),
	}
	truncated := Global(records, 2)

	result := Personal("AAAAAAAAAAA3", truncated, []record.CompletionRecord{records[2]})

	// Known scalability bound: a short scan window hides the account and
	// undercounts participants instead of failing.
	assert.Nil(t, result.Rank)
	assert.Equal(t, 2, result.TotalParticipants)
	require.NotNil(t, result.PersonalBest)
}
