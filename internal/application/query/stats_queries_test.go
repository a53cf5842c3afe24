package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puzzlehive/stats-hub/internal/domain/shared"
)

func TestGetStatsHandler(t *testing.T) {
	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	repo := newMemRepo(
		seededRec(testAccount, "sudoku", "easy", 100, 1, base),
		seededRec(testAccount, "sudoku", "hard", 200, 3, base.AddDate(0, 0, 1)),
		seededRec(testAccount, "crossword", "easy", 50, 0, base.AddDate(0, 0, 40)),
		seededRec(otherAccount, "sudoku", "easy", 10, 0, base),
	)
	h := NewGetStatsHandler(repo)

	t.Run("full history", func(t *testing.T) {
		res, err := h.Handle(context.Background(), GetStatsQuery{AccountID: testAccount})
		require.NoError(t, err)

		s := res.Summary
		assert.Equal(t, 3, s.TotalPuzzles)
		assert.Equal(t, 350, s.TotalTime)
		assert.Equal(t, 117, s.AverageTime) // 350/3 rounded half-up
		assert.Equal(t, 50, s.MinTime)
		assert.Equal(t, 4, s.TotalHints)
		assert.Equal(t, 2, s.ByType["sudoku"].Count)
		assert.Equal(t, 2, s.ByDifficulty["easy"].Count)
	})

	t.Run("bounded window", func(t *testing.T) {
		from := base.AddDate(0, 0, -1)
		to := base.AddDate(0, 0, 2)
		res, err := h.Handle(context.Background(), GetStatsQuery{AccountID: testAccount, DateFrom: &from, DateTo: &to})
		require.NoError(t, err)
		assert.Equal(t, 2, res.Summary.TotalPuzzles)
	})

	t.Run("oversized window rejected", func(t *testing.T) {
		from := base.AddDate(-2, 0, 0)
		_, err := h.Handle(context.Background(), GetStatsQuery{AccountID: testAccount, DateFrom: &from, DateTo: &base})
		assert.ErrorIs(t, err, shared.ErrInvalidRange)
	})

	t.Run("no records yields zero summary", func(t *testing.T) {
		res, err := h.Handle(context.Background(), GetStatsQuery{AccountID: "AAA111BBB222"})
		require.NoError(t, err)
		assert.Equal(t, 0, res.Summary.TotalPuzzles)
		assert.NotNil(t, res.Summary.ByType)
	})
}

func TestGetDailyStatsHandler(t *testing.T) {
	now := time.Date(2025, 5, 10, 15, 30, 0, 0, time.UTC)
	today := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)

	repo := newMemRepo(
		seededRec(testAccount, "sudoku", "easy", 100, 2, today.Add(3*time.Hour)),
		seededRec(testAccount, "sudoku", "easy", 200, 4, today.Add(5*time.Hour)),
		seededRec(testAccount, "sudoku", "easy", 300, 0, today.AddDate(0, 0, -2).Add(time.Hour)),
		seededRec(testAccount, "sudoku", "easy", 50, 1, today.AddDate(0, 0, -40)), // outside window
		seededRec(otherAccount, "sudoku", "easy", 10, 0, today.Add(time.Hour)),
	)
	h := NewGetDailyStatsHandler(repo)
	h.now = func() time.Time { return now }

	res, err := h.Handle(context.Background(), GetDailyStatsQuery{AccountID: testAccount, Days: 30})
	require.NoError(t, err)

	assert.Equal(t, 30, res.Days)
	assert.Equal(t, today.AddDate(0, 0, -29), res.From)

	// Two active days inside the window; empty days produce no bucket.
	require.Len(t, res.Buckets, 2)

	older := res.Buckets[0]
	assert.Equal(t, today.AddDate(0, 0, -2), older.Date)
	assert.Equal(t, 1, older.Count)
	assert.Equal(t, 300, older.TotalTime)

	latest := res.Buckets[1]
	assert.Equal(t, today, latest.Date)
	assert.Equal(t, 2, latest.Count)
	assert.Equal(t, 300, latest.TotalTime)
	assert.Equal(t, 3, latest.AvgHints)
}

func TestGetDailyStatsHandler_ClampsWindow(t *testing.T) {
	h := NewGetDailyStatsHandler(newMemRepo())

	res, err := h.Handle(context.Background(), GetDailyStatsQuery{AccountID: testAccount, Days: 9999})
	require.NoError(t, err)
	assert.Equal(t, MaxLookbackDays, res.Days)
	assert.Empty(t, res.Buckets)

	res, err = h.Handle(context.Background(), GetDailyStatsQuery{AccountID: testAccount, Days: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Days)
}

func TestGetBestRecordsHandler(t *testing.T) {
	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	repo := newMemRepo(
		seededRec(testAccount, "sudoku", "easy", 300, 0, base),   // fewest hints + per-type/difficulty best
		seededRec(testAccount, "sudoku", "medium", 50, 2, base),  // fastest
		seededRec(testAccount, "crossword", "easy", 400, 1, base),
	)
	h := NewGetBestRecordsHandler(repo)

	t.Run("resolves the set", func(t *testing.T) {
		res, err := h.Handle(context.Background(), GetBestRecordsQuery{AccountID: testAccount})
		require.NoError(t, err)

		require.NotNil(t, res.Best.Fastest)
		assert.Equal(t, 50, res.Best.Fastest.TimeTaken)
		require.NotNil(t, res.Best.FewestHints)
		assert.Equal(t, 0, res.Best.FewestHints.HintCount)
		assert.Equal(t, int64(1), res.Best.ByType["sudoku"].RecordID)
		assert.Nil(t, res.Scores)
	})

	t.Run("scores on request", func(t *testing.T) {
		res, err := h.Handle(context.Background(), GetBestRecordsQuery{AccountID: testAccount, IncludeScores: true})
		require.NoError(t, err)

		require.NotEmpty(t, res.Scores)
		// Deterministic ordering by record id, one entry per distinct pick.
		for i := 1; i < len(res.Scores); i++ {
			assert.Greater(t, res.Scores[i].Record.RecordID, res.Scores[i-1].Record.RecordID)
		}
		// Record 1: easy, 0 hints, 300s at default base time.
		first := res.Scores[0]
		assert.Equal(t, 100, first.HintScore)
		assert.Equal(t, 0, first.TimeScore)
		assert.Equal(t, 100, first.TotalScore)
	})

	t.Run("empty account yields empty set", func(t *testing.T) {
		res, err := h.Handle(context.Background(), GetBestRecordsQuery{AccountID: "AAA111BBB222"})
		require.NoError(t, err)
		assert.True(t, res.Best.IsEmpty())
		assert.Nil(t, res.Best.Fastest)
	})
}
