package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puzzlehive/stats-hub/internal/domain/shared"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func validSubmission() Submission {
	return Submission{
		AccountID:   "ABC123XYZ789",
		PuzzleType:  "chess_puzzle",
		Difficulty:  "medium",
		TimeTaken:   120,
		HintCount:   2,
		CompletedAt: testNow.Add(-time.Hour),
	}
}

func TestSubmissionValidate_OK(t *testing.T) {
	s := validSubmission()
	require.NoError(t, s.Validate(testNow))

	rec := s.ToRecord()
	assert.Equal(t, shared.AccountID("ABC123XYZ789"), rec.AccountID)
	assert.Equal(t, shared.PuzzleType("chess_puzzle"), rec.PuzzleType)
	assert.Equal(t, 120, rec.TimeTaken)
	assert.Equal(t, 2, rec.HintCount)
	assert.Zero(t, rec.RecordID)
}

func TestSubmissionValidate_AccountID(t *testing.T) {
	cases := []struct {
		name      string
		accountID string
	}{
		{"empty", ""},
		{"lowercase", "abc123xyz789"},
		{"too short", "ABC123"},
		{"too long", "ABC123XYZ7890"},
		{"special chars", "ABC123XYZ78!"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := validSubmission()
			s.AccountID = tc.accountID
			err := s.Validate(testNow)
			require.Error(t, err)
			assert.True(t, shared.IsValidation(err))
			assert.Contains(t, err.Error(), "account_id")
		})
	}
}

func TestSubmissionValidate_FieldBounds(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Submission)
		mention string
	}{
		{"empty puzzle type", func(s *Submission) { s.PuzzleType = "" }, "puzzle_type"},
		{"long puzzle type", func(s *Submission) { s.PuzzleType = string(make([]byte, 51)) }, "puzzle_type"},
		{"empty difficulty", func(s *Submission) { s.Difficulty = "" }, "difficulty"},
		{"long difficulty", func(s *Submission) { s.Difficulty = string(make([]byte, 21)) }, "difficulty"},
		{"negative time", func(s *Submission) { s.TimeTaken = -1 }, "time_taken"},
		{"time over a day", func(s *Submission) { s.TimeTaken = 86401 }, "time_taken"},
		{"negative hints", func(s *Submission) { s.HintCount = -1 }, "hint_count"},
		{"too many hints", func(s *Submission) { s.HintCount = 150 }, "hint_count"},
		{"future completion", func(s *Submission) { s.CompletedAt = testNow.Add(time.Minute) }, "future"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := validSubmission()
			tc.mutate(&s)
			err := s.Validate(testNow)
			require.Error(t, err)
			assert.True(t, shared.IsValidation(err))
			assert.Contains(t, err.Error(), tc.mention)
		})
	}
}

func TestSubmissionValidate_FirstFailureWins(t *testing.T) {
	// Both the account ID and the hint count are invalid; the account check
	// runs first, so its constraint is the one reported.
	s := validSubmission()
	s.AccountID = "bad"
	s.HintCount = 150

	err := s.Validate(testNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "account_id")
	assert.NotContains(t, err.Error(), "hint_count")
}

func TestSubmissionValidate_DefaultsCompletedAt(t *testing.T) {
	s := validSubmission()
	s.CompletedAt = time.Time{}

	require.NoError(t, s.Validate(testNow))
	assert.Equal(t, testNow, s.CompletedAt)
}

func TestSubmissionValidate_BoundaryValues(t *testing.T) {
	s := validSubmission()
	s.TimeTaken = MaxTimeTaken
	s.HintCount = MaxHintCount
	s.CompletedAt = testNow

	assert.NoError(t, s.Validate(testNow))

	s = validSubmission()
	s.TimeTaken = 0
	s.HintCount = 0
	assert.NoError(t, s.Validate(testNow))
}

func TestCompletionRecord_BelongsTo(t *testing.T) {
	s := validSubmission()
	require.NoError(t, s.Validate(testNow))
	rec := s.ToRecord()

	assert.True(t, rec.BelongsTo("ABC123XYZ789"))
	assert.False(t, rec.BelongsTo("ZZZ999ZZZ999"))
}
