package stats

import (
	"sort"
	"time"

	"github.com/puzzlehive/stats-hub/internal/domain/record"
	"github.com/puzzlehive/stats-hub/pkg/timeutil"
)

// DailyBucket holds aggregated completion data for one UTC calendar day.
type DailyBucket struct {
	// Date is midnight UTC of the bucketed day.
	Date time.Time `json:"date"`

	// Count is the number of completions on that day.
	Count int `json:"count"`

	// TotalTime is the summed time_taken for the day, in seconds.
	TotalTime int `json:"total_time"`

	// AvgHints is the day's average hint count, rounded half-up.
	AvgHints int `json:"avg_hints"`
}

// BucketByDay groups records into per-day buckets, UTC calendar days.
// Days with zero records produce no bucket; the result is sorted ascending by
// date. Records outside [from, to) are skipped.
func BucketByDay(records []record.CompletionRecord, from, to time.Time) []DailyBucket {
	type accum struct {
		count      int
		totalTime  int
		totalHints int
	}
	byDay := make(map[time.Time]*accum)

	for i := range records {
		rec := &records[i]
		completed := rec.CompletedAt.UTC()
		if completed.Before(from) || !completed.Before(to) {
			continue
		}
		day := timeutil.StartOfDay(completed)
		a, ok := byDay[day]
		if !ok {
			a = &accum{}
			byDay[day] = a
		}
		a.count++
		a.totalTime += rec.TimeTaken
		a.totalHints += rec.HintCount
	}

	buckets := make([]DailyBucket, 0, len(byDay))
	for day, a := range byDay {
		buckets = append(buckets, DailyBucket{
			Date:      day,
			Count:     a.count,
			TotalTime: a.totalTime,
			AvgHints:  RoundHalfUp(float64(a.totalHints) / float64(a.count)),
		})
	}

	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Date.Before(buckets[j].Date)
	})

	return buckets
}
