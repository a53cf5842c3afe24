package query

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puzzlehive/stats-hub/internal/domain/shared"
)

func TestClampPage(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		wantLimit  int
		wantOffset int
	}{
		{"defaults when unset", 0, 0, DefaultPageSize, 0},
		{"first page explicit", 1, 25, 25, 0},
		{"second page", 2, 25, 25, 25},
		{"limit capped at max", 1, 500, MaxPageSize, 0},
		{"negative limit defaults", 1, -3, DefaultPageSize, 0},
		{"negative page lands on first", -1, 10, 10, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			limit, offset := ClampPage(tc.page, tc.limit)
			assert.Equal(t, tc.wantLimit, limit)
			assert.Equal(t, tc.wantOffset, offset)
		})
	}
}

func TestClampDays(t *testing.T) {
	assert.Equal(t, 1, ClampDays(0))
	assert.Equal(t, 1, ClampDays(-10))
	assert.Equal(t, 30, ClampDays(30))
	assert.Equal(t, MaxLookbackDays, ClampDays(400))
}

func TestClampRankingLimit(t *testing.T) {
	assert.Equal(t, MaxRankingLimit, ClampRankingLimit(0))
	assert.Equal(t, MaxRankingLimit, ClampRankingLimit(-1))
	assert.Equal(t, 10, ClampRankingLimit(10))
	assert.Equal(t, MaxRankingLimit, ClampRankingLimit(5000))
}

func TestNewDateRange(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("valid window", func(t *testing.T) {
		rng, err := NewDateRange(base, base.AddDate(0, 1, 0))
		require.NoError(t, err)
		assert.Equal(t, base, rng.From)
	})

	t.Run("inverted bounds rejected", func(t *testing.T) {
		_, err := NewDateRange(base, base.Add(-time.Hour))
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInvalidRange))
	})

	t.Run("oversized span is an error, not a truncation", func(t *testing.T) {
		_, err := NewDateRange(base, base.AddDate(2, 0, 0))
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInvalidRange))
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("exactly 365 days allowed", func(t *testing.T) {
		_, err := NewDateRange(base, base.Add(365*24*time.Hour))
		assert.NoError(t, err)
	})
}

func TestThresholdValidation(t *testing.T) {
	assert.NoError(t, ValidateHintThreshold(0))
	assert.Error(t, ValidateHintThreshold(-1))
	assert.NoError(t, ValidateTimeThreshold(1))
	assert.Error(t, ValidateTimeThreshold(0))
}
