// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
// Each query is a self-contained use case with its own request/response types.
//
// The windowed query layer lives here: every time range, page size, and
// ranking limit is bounded before it reaches the store, so worst-case cost is
// proportional to a capped record count rather than to the full history.
package query

import (
	"time"

	"github.com/puzzlehive/stats-hub/internal/domain/shared"
)

// Windowing bounds.
const (
	// MaxPageSize caps record-listing pages.
	MaxPageSize = 100

	// DefaultPageSize applies when the caller passes no limit.
	DefaultPageSize = 20

	// MaxLookbackDays caps date-range spans and daily-stats windows.
	MaxLookbackDays = 365

	// MaxRankingLimit caps global leaderboard queries.
	MaxRankingLimit = 1000

	// personalScanLimit materializes the full ranking for personal standing
	// queries. Zero means unbounded: rank and participant totals stay exact
	// at the cost of scanning every qualifying record.
	personalScanLimit = 0
)

// DateRange is a validated, closed [From, To] window on completed_at.
type DateRange struct {
	From time.Time
	To   time.Time
}

// NewDateRange validates the window: From must not come after To, and the
// span must not exceed MaxLookbackDays. Violations are validation errors,
// never silent truncation.
func NewDateRange(from, to time.Time) (DateRange, error) {
	if from.After(to) {
		return DateRange{}, shared.NewDomainError("query", "DateRange", shared.ErrInvalidRange,
			"date_from must not be after date_to")
	}
	if to.Sub(from) > MaxLookbackDays*24*time.Hour {
		return DateRange{}, shared.NewDomainError("query", "DateRange", shared.ErrInvalidRange,
			"date range must not exceed 365 days")
	}
	return DateRange{From: from, To: to}, nil
}

// ClampPage normalizes pagination: limit lands in [1, MaxPageSize] (defaulting
// when zero), page lands at >= 1, offset is (page-1)*limit.
func ClampPage(page, limit int) (clampedLimit, offset int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if page < 1 {
		page = 1
	}
	return limit, (page - 1) * limit
}

// ClampDays keeps a day-window inside [1, MaxLookbackDays].
func ClampDays(days int) int {
	if days < 1 {
		return 1
	}
	if days > MaxLookbackDays {
		return MaxLookbackDays
	}
	return days
}

// ClampRankingLimit keeps a leaderboard limit inside [1, MaxRankingLimit],
// defaulting to the maximum when unset.
func ClampRankingLimit(limit int) int {
	if limit <= 0 || limit > MaxRankingLimit {
		return MaxRankingLimit
	}
	return limit
}

// ValidateHintThreshold checks the "low hint" filter argument.
func ValidateHintThreshold(maxHints int) error {
	if maxHints < 0 {
		return shared.NewDomainError("query", "Filter", shared.ErrNegativeValue,
			"max_hints must be non-negative")
	}
	return nil
}

// ValidateTimeThreshold checks the "fast record" filter argument.
func ValidateTimeThreshold(maxTime int) error {
	if maxTime <= 0 {
		return shared.NewDomainError("query", "Filter", shared.ErrValueOutOfRange,
			"max_time must be strictly positive")
	}
	return nil
}
