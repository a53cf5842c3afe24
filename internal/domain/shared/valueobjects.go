// Package shared contains common domain types, errors, and events
// that are used across all domain packages.
package shared

import (
	"regexp"
	"strings"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// AccountID identifies the owner of completion records. Accounts themselves
// are managed outside this service; only the identifier shape matters here.
type AccountID string

// accountIDRegex matches the opaque account identifier format: exactly
// twelve uppercase alphanumeric characters.
var accountIDRegex = regexp.MustCompile(`^[A-Z0-9]{12}$`)

// IsValid checks if the account ID matches the required format.
func (a AccountID) IsValid() bool {
	return accountIDRegex.MatchString(string(a))
}

// String returns the string representation.
func (a AccountID) String() string {
	return string(a)
}

// IsEmpty checks if the ID is empty.
func (a AccountID) IsEmpty() bool {
	return a == ""
}

// NewAccountID creates a new AccountID with validation.
func NewAccountID(id string) (AccountID, error) {
	aid := AccountID(strings.TrimSpace(id))
	if !aid.IsValid() {
		return "", ErrInvalidAccount
	}
	return aid, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Grouping Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// PuzzleType is a free-form puzzle category tag (e.g. "chess_puzzle").
// Compared exactly, no normalization.
type PuzzleType string

// MaxPuzzleTypeLen bounds the category tag length.
const MaxPuzzleTypeLen = 50

// IsValid checks the tag is non-empty and within bounds.
func (p PuzzleType) IsValid() bool {
	return p != "" && len(p) <= MaxPuzzleTypeLen
}

// String returns the string representation.
func (p PuzzleType) String() string {
	return string(p)
}

// Difficulty is a free-form tier label. Grouping compares it case-sensitively;
// only the score-multiplier lookup is case-insensitive (see ranking.HintScore).
type Difficulty string

// MaxDifficultyLen bounds the tier label length.
const MaxDifficultyLen = 20

// IsValid checks the label is non-empty and within bounds.
func (d Difficulty) IsValid() bool {
	return d != "" && len(d) <= MaxDifficultyLen
}

// String returns the string representation.
func (d Difficulty) String() string {
	return string(d)
}

// Normalized returns the lowercase form used for multiplier lookup.
func (d Difficulty) Normalized() string {
	return strings.ToLower(string(d))
}
