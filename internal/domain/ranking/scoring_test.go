package ranking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/puzzlehive/stats-hub/internal/domain/shared"
)

func TestHintScore(t *testing.T) {
	cases := []struct {
		name       string
		hints      int
		difficulty string
		want       int
	}{
		{"no hints easy", 0, "easy", 100},
		{"two hints easy", 2, "easy", 90},
		{"no hints medium", 0, "medium", 150},
		{"one hint medium rounds", 1, "medium", 143}, // 95*1.5 = 142.5 rounds up
		{"no hints hard", 0, "hard", 200},
		{"no hints expert", 0, "expert", 300},
		{"floor at zero", 20, "easy", 0},
		{"floor before multiplier", 25, "expert", 0},
		{"case-insensitive tier", 0, "EXPERT", 300},
		{"unknown tier defaults", 0, "nightmare", 100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HintScore(tc.hints, shared.Difficulty(tc.difficulty)))
		})
	}
}

func TestTimeScore(t *testing.T) {
	cases := []struct {
		name      string
		timeTaken int
		baseTime  int
		want      int
	}{
		{"fast solve default base", 100, 0, 20}, // 0.1*(300-100)
		{"at base scores zero", 300, 0, 0},
		{"over base scores zero", 400, 0, 0},
		{"custom base", 100, 600, 50},
		{"rounds half up", 295, 0, 1}, // 0.1*5 = 0.5
		{"instant solve", 0, 0, 30},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TimeScore(tc.timeTaken, tc.baseTime))
		})
	}
}

func TestTotalScore(t *testing.T) {
	// 2 hints on hard: (100-10)*2.0 = 180; time: 0.1*(300-120) = 18.
	assert.Equal(t, 198, TotalScore(2, 120, "hard", 0))
}

func TestSnapshotStaleness(t *testing.T) {
	snap := NewSnapshot("snap-1", "chess_puzzle", "", 3, nil, 0)
	now := snap.TakenAt

	assert.False(t, snap.IsStale(time.Minute, now.Add(30*time.Second)))
	assert.True(t, snap.IsStale(time.Minute, now.Add(2*time.Minute)))
	assert.True(t, snap.IsStale(0, now), "a zero bound means always stale")
}

func TestSnapshotTop(t *testing.T) {
	snap := NewSnapshot("snap-1", "chess_puzzle", "easy", 1, []RankingEntry{
		{Rank: 1}, {Rank: 2}, {Rank: 3},
	}, 8)

	assert.Len(t, snap.Top(2), 2)
	assert.Len(t, snap.Top(10), 3)
	assert.Nil(t, snap.Top(0))
	assert.Equal(t, 8, snap.TotalRecords)
}

func TestNewSnapshotTotalRecordsFloor(t *testing.T) {
	// A producer passing a too-small total still reports at least the
	// entries it stored.
	snap := NewSnapshot("snap-1", "chess_puzzle", "", 1, []RankingEntry{
		{Rank: 1}, {Rank: 2},
	}, 0)

	assert.Equal(t, 2, snap.TotalRecords)
}
