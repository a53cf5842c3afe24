package ranking

import (
	"math"

	"github.com/puzzlehive/stats-hub/internal/domain/shared"
)

// DefaultBaseTime is the reference solve time for TimeScore, in seconds.
const DefaultBaseTime = 300

// hintScoreBase and hintPenalty shape the hint score: each hint costs 5
// points off a 100-point base, floored at zero before the multiplier.
const (
	hintScoreBase = 100
	hintPenalty   = 5
)

// difficultyMultipliers weight the hint score per tier. Lookup is
// case-insensitive; unrecognized tiers fall back to 1.0. This is the one
// place difficulty is not compared exactly.
var difficultyMultipliers = map[string]float64{
	"easy":   1.0,
	"medium": 1.5,
	"hard":   2.0,
	"expert": 3.0,
}

// DifficultyMultiplier returns the score weight for a difficulty tier.
func DifficultyMultiplier(d shared.Difficulty) float64 {
	if m, ok := difficultyMultipliers[d.Normalized()]; ok {
		return m
	}
	return 1.0
}

// HintScore scores hint economy: max(0, 100 - 5*hints) times the difficulty
// multiplier, rounded half-up. Presentation helper only - rankings never use
// scores, they order on the raw (hint_count, time_taken) keys.
func HintScore(hintCount int, difficulty shared.Difficulty) int {
	base := hintScoreBase - hintPenalty*hintCount
	if base < 0 {
		base = 0
	}
	return roundHalfUp(float64(base) * DifficultyMultiplier(difficulty))
}

// TimeScore scores speed against a caller-supplied base time:
// max(0, round(0.1 * (baseTime - timeTaken))). A non-positive baseTime selects
// DefaultBaseTime; solves at or over the base score zero.
func TimeScore(timeTaken, baseTime int) int {
	if baseTime <= 0 {
		baseTime = DefaultBaseTime
	}
	if timeTaken >= baseTime {
		return 0
	}
	return roundHalfUp(0.1 * float64(baseTime-timeTaken))
}

// TotalScore is the sum of hint and time scores.
func TotalScore(hintCount, timeTaken int, difficulty shared.Difficulty, baseTime int) int {
	return HintScore(hintCount, difficulty) + TimeScore(timeTaken, baseTime)
}

// roundHalfUp rounds to the nearest integer with .5 going up.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
