// Package jobs contains implementations of scheduled jobs for the PuzzleHive
// Stats Hub.
package jobs

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/puzzlehive/stats-hub/internal/domain/ranking"
	"github.com/puzzlehive/stats-hub/internal/domain/record"
	"github.com/puzzlehive/stats-hub/internal/domain/shared"
	"github.com/puzzlehive/stats-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// REBUILD SNAPSHOT JOB
// ══════════════════════════════════════════════════════════════════════════════

// RebuildSnapshotJob recomputes the global ranking for each configured puzzle
// type and refreshes the snapshot cache. Queries fall back to recomputation on
// any cache problem, so a failed rebuild degrades latency, never correctness.
type RebuildSnapshotJob struct {
	records   record.Repository
	snapshots ranking.SnapshotStore
	publisher shared.EventPublisher
	log       *logger.Logger

	config RebuildSnapshotConfig

	lastRebuildStats atomic.Value // *RebuildStats
}

// RebuildSnapshotConfig contains configuration for the rebuild job.
type RebuildSnapshotConfig struct {
	// PuzzleTypes lists the types to rebuild a snapshot for. The engine has
	// no registry of types, so the set is operator-configured.
	PuzzleTypes []string

	// Difficulties optionally adds per-tier snapshots for every type.
	// The all-tiers snapshot is always rebuilt.
	Difficulties []string

	// MaxEntries caps the ranking size stored per snapshot.
	MaxEntries int

	// Timeout is the maximum duration for one full rebuild run.
	Timeout time.Duration
}

// DefaultRebuildSnapshotConfig returns sensible defaults.
func DefaultRebuildSnapshotConfig() RebuildSnapshotConfig {
	return RebuildSnapshotConfig{
		MaxEntries: 1000,
		Timeout:    2 * time.Minute,
	}
}

// RebuildStats contains statistics from a rebuild run.
type RebuildStats struct {
	StartedAt      time.Time
	CompletedAt    time.Time
	Duration       time.Duration
	TypesProcessed int
	SnapshotsSaved int
	RecordsScanned int
	Errors         []error
}

// NewRebuildSnapshotJob creates a new snapshot rebuild job.
func NewRebuildSnapshotJob(
	records record.Repository,
	snapshots ranking.SnapshotStore,
	publisher shared.EventPublisher,
	log *logger.Logger,
	config RebuildSnapshotConfig,
) *RebuildSnapshotJob {
	if config.MaxEntries <= 0 {
		config.MaxEntries = 1000
	}
	if config.Timeout <= 0 {
		config.Timeout = 2 * time.Minute
	}
	return &RebuildSnapshotJob{
		records:   records,
		snapshots: snapshots,
		publisher: publisher,
		log:       log.With(logger.Component("rebuild_snapshot_job")),
		config:    config,
	}
}

// Name implements scheduler.Job.
func (j *RebuildSnapshotJob) Name() string {
	return "rebuild_snapshot"
}

// Description implements scheduler.Job.
func (j *RebuildSnapshotJob) Description() string {
	return "Recomputes global rankings and refreshes the snapshot cache"
}

// Run implements scheduler.Job. Per-type failures are collected rather than
// aborting the run; a partial rebuild still refreshes the healthy types.
func (j *RebuildSnapshotJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	stats := &RebuildStats{StartedAt: time.Now()}
	defer func() {
		stats.CompletedAt = time.Now()
		stats.Duration = stats.CompletedAt.Sub(stats.StartedAt)
		j.lastRebuildStats.Store(stats)
	}()

	for _, pt := range j.config.PuzzleTypes {
		puzzleType := shared.PuzzleType(pt)
		if !puzzleType.IsValid() {
			stats.Errors = append(stats.Errors, fmt.Errorf("invalid puzzle type %q", pt))
			continue
		}

		stats.TypesProcessed++

		if err := j.rebuildOne(ctx, puzzleType, "", stats); err != nil {
			stats.Errors = append(stats.Errors, err)
		}

		for _, d := range j.config.Difficulties {
			if err := j.rebuildOne(ctx, puzzleType, shared.Difficulty(d), stats); err != nil {
				stats.Errors = append(stats.Errors, err)
			}
		}
	}

	j.log.Info("snapshot rebuild finished",
		logger.Int("types", stats.TypesProcessed),
		logger.Int("snapshots", stats.SnapshotsSaved),
		logger.Int("records_scanned", stats.RecordsScanned),
		logger.Int("errors", len(stats.Errors)),
	)

	if len(stats.Errors) > 0 {
		return fmt.Errorf("rebuild completed with %d error(s): %w", len(stats.Errors), stats.Errors[0])
	}
	return nil
}

// rebuildOne recomputes and stores a single (type, difficulty) snapshot.
func (j *RebuildSnapshotJob) rebuildOne(ctx context.Context, puzzleType shared.PuzzleType, difficulty shared.Difficulty, stats *RebuildStats) error {
	filter := record.Filter{
		PuzzleType: puzzleType,
		Difficulty: difficulty,
	}

	records, err := j.records.List(ctx, filter, record.Sort{}, record.Page{})
	if err != nil {
		return fmt.Errorf("list records for %s/%s: %w", puzzleType, difficulty, err)
	}
	stats.RecordsScanned += len(records)

	entries := ranking.Global(records, j.config.MaxEntries)
	snap := ranking.NewSnapshot("", puzzleType, difficulty, 0, entries, len(records))

	if err := j.snapshots.Save(ctx, snap); err != nil {
		return fmt.Errorf("save snapshot for %s/%s: %w", puzzleType, difficulty, err)
	}
	stats.SnapshotsSaved++

	j.log.Debug("snapshot rebuilt",
		logger.PuzzleType(puzzleType.String()),
		logger.String("difficulty", difficulty.String()),
		logger.Int("entries", len(entries)),
	)

	if j.publisher != nil {
		event := shared.NewSnapshotRebuiltEvent(snap.ID, puzzleType.String(), len(entries))
		if err := j.publisher.Publish(event); err != nil {
			j.log.Warn("failed to publish snapshot rebuilt event", logger.Err(err))
		}
	}

	return nil
}

// LastStats returns the statistics of the most recent rebuild run, or nil if
// the job has not run yet.
func (j *RebuildSnapshotJob) LastStats() *RebuildStats {
	v := j.lastRebuildStats.Load()
	if v == nil {
		return nil
	}
	return v.(*RebuildStats)
}
