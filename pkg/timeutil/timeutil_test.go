package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfDay_ConvertsToUTC(t *testing.T) {
	zone := time.FixedZone("UTC+5", 5*60*60)
	// 02:00 on June 2nd local is still June 1st in UTC.
	local := time.Date(2025, 6, 2, 2, 0, 0, 0, zone)

	assert.Equal(t, Date(2025, 6, 1), StartOfDay(local))
}

func TestTrailingWindow(t *testing.T) {
	now := time.Date(2025, 5, 10, 15, 30, 0, 0, time.UTC)

	from, to := TrailingWindow(now, 30)
	assert.Equal(t, Date(2025, 4, 11), from)
	assert.Equal(t, Date(2025, 5, 11), to)

	from, to = TrailingWindow(now, 1)
	assert.Equal(t, Date(2025, 5, 10), from)
	assert.Equal(t, Date(2025, 5, 11), to)
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 0, DaysBetween(Date(2025, 5, 10), Date(2025, 5, 10).Add(23*time.Hour)))
	assert.Equal(t, 1, DaysBetween(Date(2025, 5, 10), Date(2025, 5, 11)))
	assert.Equal(t, -2, DaysBetween(Date(2025, 5, 10), Date(2025, 5, 8)))
}

func TestIsSameDay(t *testing.T) {
	assert.True(t, IsSameDay(Date(2025, 5, 10), Date(2025, 5, 10).Add(10*time.Hour)))
	assert.False(t, IsSameDay(Date(2025, 5, 10), Date(2025, 5, 11)))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-05-10")
	assert.NoError(t, err)
	assert.Equal(t, Date(2025, 5, 10), d)

	_, err = ParseDate("10/05/2025")
	assert.Error(t, err)
}
