package config

import (
	"hash/fnv"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// FeatureFlags manages feature toggles for the stats hub. Supports gradual
// rollout bucketed by account ID, time-based activation, and per-account
// overrides for testing.
type FeatureFlags struct {
	mu sync.RWMutex

	// Core features
	features map[string]*Feature

	// Override rules (for testing/debugging)
	accountOverrides map[string]map[string]bool // accountID -> feature -> enabled
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool

	// Rollout percentage (0-100)
	// Accounts are assigned based on hash of their ID
	RolloutPercent int

	// Time-based activation
	EnabledFrom  *time.Time
	EnabledUntil *time.Time
}

// FeatureContext provides context for feature flag evaluation.
type FeatureContext struct {
	AccountID string // opaque account identifier
	IsAdmin   bool   // API-key-authenticated caller
}

// Predefined feature flag names.
const (
	// === Ranking Features ===
	FeatureRankingSnapshotCache = "ranking.snapshot_cache" // serve leaderboards from cached snapshots
	FeatureRankingPersonal      = "ranking.personal"       // personal ranking endpoint

	// === Stats Features ===
	FeatureStatsDaily  = "stats.daily"  // per-day aggregation endpoint
	FeatureStatsScores = "stats.scores" // derived scores on best-record listings

	// === Record Features ===
	FeatureRecordsOwnershipMasking = "records.ownership_masking" // report not-owned deletes as not found
	FeatureRecordsTimeRangeFilter  = "records.time_range_filter" // date_from/date_to listing filters

	// === Experimental Features ===
	FeatureExperimentalInlineInvalidation = "experimental.inline_invalidation" // invalidate snapshots on every write
)

// LoadFeatureFlags loads feature flags from environment variables.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{
		features:         make(map[string]*Feature),
		accountOverrides: make(map[string]map[string]bool),
	}

	// Initialize all features with defaults
	ff.initializeDefaults()

	// Load overrides from environment
	ff.loadFromEnvironment()

	return ff
}

// initializeDefaults sets up all features with default values.
func (ff *FeatureFlags) initializeDefaults() {
	ff.features[FeatureRankingSnapshotCache] = &Feature{
		Name:           FeatureRankingSnapshotCache,
		Description:    "Serve global rankings from cached snapshots",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureRankingPersonal] = &Feature{
		Name:           FeatureRankingPersonal,
		Description:    "Personal rank lookups",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureStatsDaily] = &Feature{
		Name:           FeatureStatsDaily,
		Description:    "Per-day completion aggregation",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureStatsScores] = &Feature{
		Name:           FeatureStatsScores,
		Description:    "Derived scores on best-record listings",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureRecordsOwnershipMasking] = &Feature{
		Name:           FeatureRecordsOwnershipMasking,
		Description:    "Hide record existence from non-owners on delete",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureRecordsTimeRangeFilter] = &Feature{
		Name:           FeatureRecordsTimeRangeFilter,
		Description:    "Time-window filters on record listings",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureExperimentalInlineInvalidation] = &Feature{
		Name:           FeatureExperimentalInlineInvalidation,
		Description:    "Invalidate leaderboard snapshots on every record write",
		Enabled:        false,
		RolloutPercent: 0,
	}
}

// loadFromEnvironment loads feature flag overrides from env vars.
// Format: FEATURE_<NAME>=true|false|<percent>
// Example: FEATURE_RANKING_SNAPSHOT_CACHE=false
// Example: FEATURE_STATS_SCORES=50 (50% rollout)
func (ff *FeatureFlags) loadFromEnvironment() {
	for name, feature := range ff.features {
		envKey := featureNameToEnvKey(name)
		if val := os.Getenv(envKey); val != "" {
			// Try parsing as boolean
			if b, err := strconv.ParseBool(val); err == nil {
				feature.Enabled = b
				if b {
					feature.RolloutPercent = 100
				} else {
					feature.RolloutPercent = 0
				}
				continue
			}

			// Try parsing as percentage
			if p, err := strconv.Atoi(val); err == nil && p >= 0 && p <= 100 {
				feature.Enabled = p > 0
				feature.RolloutPercent = p
			}
		}
	}
}

// featureNameToEnvKey converts feature name to environment variable key.
// "ranking.snapshot_cache" -> "FEATURE_RANKING_SNAPSHOT_CACHE"
func featureNameToEnvKey(name string) string {
	key := strings.ToUpper(name)
	key = strings.ReplaceAll(key, ".", "_")
	return "FEATURE_" + key
}

// IsEnabled checks if a feature is enabled for the given context.
func (ff *FeatureFlags) IsEnabled(featureName string, ctx *FeatureContext) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	// Check account overrides first
	if ctx != nil && ctx.AccountID != "" {
		if overrides, ok := ff.accountOverrides[ctx.AccountID]; ok {
			if enabled, ok := overrides[featureName]; ok {
				return enabled
			}
		}
	}

	feature, ok := ff.features[featureName]
	if !ok {
		return false
	}

	// Admin callers get all features
	if ctx != nil && ctx.IsAdmin {
		return true
	}

	// Check if feature is enabled at all
	if !feature.Enabled {
		return false
	}

	// Check time-based activation
	now := time.Now()
	if feature.EnabledFrom != nil && now.Before(*feature.EnabledFrom) {
		return false
	}
	if feature.EnabledUntil != nil && now.After(*feature.EnabledUntil) {
		return false
	}

	// Check rollout percentage
	if feature.RolloutPercent < 100 && ctx != nil && ctx.AccountID != "" {
		return ff.isInRollout(ctx.AccountID, featureName, feature.RolloutPercent)
	}

	return feature.RolloutPercent > 0
}

// isInRollout determines if an account is in the rollout percentage.
// Uses consistent hashing so accounts stay in their bucket.
func (ff *FeatureFlags) isInRollout(accountID, featureName string, percent int) bool {
	h := fnv.New32a()
	h.Write([]byte(featureName))
	h.Write([]byte(accountID))
	hash := h.Sum32()

	// Map to 0-99 range
	bucket := int(hash % 100)

	return bucket < percent
}

// SetAccountOverride sets a feature override for a specific account.
// Useful for testing and debugging.
func (ff *FeatureFlags) SetAccountOverride(accountID, featureName string, enabled bool) {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	if _, ok := ff.accountOverrides[accountID]; !ok {
		ff.accountOverrides[accountID] = make(map[string]bool)
	}
	ff.accountOverrides[accountID][featureName] = enabled
}

// ClearAccountOverrides removes all overrides for an account.
func (ff *FeatureFlags) ClearAccountOverrides(accountID string) {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	delete(ff.accountOverrides, accountID)
}

// SetRolloutPercent updates the rollout percentage for a feature.
// Thread-safe for live updates.
func (ff *FeatureFlags) SetRolloutPercent(featureName string, percent int) error {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return ErrFeatureNotFound
	}

	if percent < 0 || percent > 100 {
		return ErrInvalidRolloutPercent
	}

	feature.RolloutPercent = percent
	feature.Enabled = percent > 0

	return nil
}

// EnableFeature enables a feature at 100% rollout.
func (ff *FeatureFlags) EnableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 100)
}

// DisableFeature disables a feature completely.
func (ff *FeatureFlags) DisableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 0)
}

// GetAllFeatures returns a copy of all feature configurations.
func (ff *FeatureFlags) GetAllFeatures() map[string]*Feature {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	result := make(map[string]*Feature, len(ff.features))
	for k, v := range ff.features {
		featureCopy := *v
		result[k] = &featureCopy
	}
	return result
}

// --- Convenience methods for common checks ---

// SnapshotCacheEnabled checks the snapshot-backed ranking path globally.
func (ff *FeatureFlags) SnapshotCacheEnabled() bool {
	return ff.IsEnabled(FeatureRankingSnapshotCache, nil)
}

// OwnershipMaskingEnabled checks the not-found masking of ownership errors.
func (ff *FeatureFlags) OwnershipMaskingEnabled() bool {
	return ff.IsEnabled(FeatureRecordsOwnershipMasking, nil)
}

// PersonalRankingEnabled checks the personal ranking endpoint globally.
func (ff *FeatureFlags) PersonalRankingEnabled() bool {
	return ff.IsEnabled(FeatureRankingPersonal, nil)
}

// DailyStatsEnabled checks the daily stats endpoint globally.
func (ff *FeatureFlags) DailyStatsEnabled() bool {
	return ff.IsEnabled(FeatureStatsDaily, nil)
}

// ScoresEnabled checks whether best-record responses may carry scores.
func (ff *FeatureFlags) ScoresEnabled() bool {
	return ff.IsEnabled(FeatureStatsScores, nil)
}

// TimeRangeFilterEnabled checks the date_from/date_to query filters.
func (ff *FeatureFlags) TimeRangeFilterEnabled() bool {
	return ff.IsEnabled(FeatureRecordsTimeRangeFilter, nil)
}

// InlineInvalidationEnabled checks the synchronous snapshot invalidation
// experiment globally.
func (ff *FeatureFlags) InlineInvalidationEnabled() bool {
	return ff.IsEnabled(FeatureExperimentalInlineInvalidation, nil)
}

// --- Errors ---

var (
	ErrFeatureNotFound       = &FeatureFlagError{Message: "feature not found"}
	ErrInvalidRolloutPercent = &FeatureFlagError{Message: "rollout percent must be 0-100"}
)

// FeatureFlagError represents a feature flag error.
type FeatureFlagError struct {
	Message string
}

func (e *FeatureFlagError) Error() string {
	return e.Message
}
