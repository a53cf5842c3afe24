package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puzzlehive/stats-hub/internal/domain/record"
)

func at(day, hour int) time.Time {
	return time.Date(2026, 3, day, hour, 0, 0, 0, time.UTC)
}

func TestBucketByDay_TwoDaysOutOfThirty(t *testing.T) {
	// Records fall on exactly two calendar days inside a 30-day window; the
	// other 28 days must not appear as zero-filled entries.
	records := []record.CompletionRecord{
		{PuzzleType: "sudoku", TimeTaken: 100, HintCount: 1, CompletedAt: at(3, 9)},
		{PuzzleType: "sudoku", TimeTaken: 140, HintCount: 2, CompletedAt: at(3, 22)},
		{PuzzleType: "sudoku", TimeTaken: 60, HintCount: 0, CompletedAt: at(10, 15)},
	}

	from := at(1, 0)
	to := at(31, 0)
	buckets := BucketByDay(records, from, to)

	require.Len(t, buckets, 2)

	assert.Equal(t, at(3, 0), buckets[0].Date)
	assert.Equal(t, 2, buckets[0].Count)
	assert.Equal(t, 240, buckets[0].TotalTime)
	// (1+2)/2 = 1.5 rounds up to 2
	assert.Equal(t, 2, buckets[0].AvgHints)

	assert.Equal(t, at(10, 0), buckets[1].Date)
	assert.Equal(t, 1, buckets[1].Count)
	assert.Equal(t, 60, buckets[1].TotalTime)
	assert.Equal(t, 0, buckets[1].AvgHints)
}

func TestBucketByDay_WindowBounds(t *testing.T) {
	records := []record.CompletionRecord{
		{TimeTaken: 10, CompletedAt: at(1, 0)},            // exactly at from: included
		{TimeTaken: 20, CompletedAt: at(5, 0)},            // exactly at to: excluded
		{TimeTaken: 30, CompletedAt: at(1, 0).Add(-time.Second)}, // before from: excluded
	}

	buckets := BucketByDay(records, at(1, 0), at(5, 0))

	require.Len(t, buckets, 1)
	assert.Equal(t, at(1, 0), buckets[0].Date)
	assert.Equal(t, 10, buckets[0].TotalTime)
}

func TestBucketByDay_Empty(t *testing.T) {
	buckets := BucketByDay(nil, at(1, 0), at(5, 0))
	assert.Empty(t, buckets)
}

func TestBucketByDay_SortedAscending(t *testing.T) {
	records := []record.CompletionRecord{
		{TimeTaken: 1, CompletedAt: at(20, 5)},
		{TimeTaken: 1, CompletedAt: at(2, 5)},
		{TimeTaken: 1, CompletedAt: at(11, 5)},
	}

	buckets := BucketByDay(records, at(1, 0), at(31, 0))

	require.Len(t, buckets, 3)
	assert.True(t, buckets[0].Date.Before(buckets[1].Date))
	assert.True(t, buckets[1].Date.Before(buckets[2].Date))
}

func TestBucketByDay_UTCBoundary(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	// 02:30 on March 4 in UTC+5 is 21:30 on March 3 UTC.
	records := []record.CompletionRecord{
		{TimeTaken: 100, CompletedAt: time.Date(2026, 3, 4, 2, 30, 0, 0, loc)},
	}

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	buckets := BucketByDay(records, from, to)

	require.Len(t, buckets, 1)
	assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), buckets[0].Date)
}
