package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puzzlehive/stats-hub/internal/domain/ranking"
	"github.com/puzzlehive/stats-hub/internal/domain/record"
	"github.com/puzzlehive/stats-hub/internal/domain/shared"
	"github.com/puzzlehive/stats-hub/pkg/logger"
)

type stubRepo struct {
	records []record.CompletionRecord
	listErr error
}

func (r *stubRepo) Create(ctx context.Context, rec *record.CompletionRecord) error { return nil }

func (r *stubRepo) GetByID(ctx context.Context, recordID int64) (*record.CompletionRecord, error) {
	return nil, shared.ErrRecordNotFound
}

func (r *stubRepo) List(ctx context.Context, filter record.Filter, sort record.Sort, page record.Page) ([]record.CompletionRecord, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []record.CompletionRecord
	for _, rec := range r.records {
		if filter.PuzzleType != "" && rec.PuzzleType != filter.PuzzleType {
			continue
		}
		if filter.Difficulty != "" && rec.Difficulty != filter.Difficulty {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *stubRepo) Count(ctx context.Context, filter record.Filter) (int, error) {
	recs, err := r.List(ctx, filter, record.Sort{}, record.Page{})
	return len(recs), err
}

func (r *stubRepo) ListByAccount(ctx context.Context, accountID shared.AccountID) ([]record.CompletionRecord, error) {
	return r.List(ctx, record.Filter{AccountID: accountID}, record.Sort{}, record.Page{})
}

func (r *stubRepo) Delete(ctx context.Context, recordID int64, accountID shared.AccountID) error {
	return shared.ErrRecordNotFound
}

func (r *stubRepo) DeleteByAccount(ctx context.Context, accountID shared.AccountID) (int, error) {
	return 0, nil
}

type memSnapshots struct {
	saved []*ranking.Snapshot
}

func (s *memSnapshots) Load(ctx context.Context, puzzleType shared.PuzzleType, difficulty shared.Difficulty) (*ranking.Snapshot, error) {
	return nil, shared.ErrSnapshotMissing
}

func (s *memSnapshots) Save(ctx context.Context, snap *ranking.Snapshot) error {
	if snap.ID == "" {
		snap.ID = "snap-test"
	}
	s.saved = append(s.saved, snap)
	return nil
}

func (s *memSnapshots) Invalidate(ctx context.Context, puzzleType shared.PuzzleType) error {
	return nil
}

type capturePublisher struct {
	events []shared.Event
}

func (p *capturePublisher) Publish(event shared.Event) error {
	p.events = append(p.events, event)
	return nil
}

func rec(account, puzzleType, difficulty string, timeTaken, hints int) record.CompletionRecord {
	return record.CompletionRecord{
		AccountID:   shared.AccountID(account),
		PuzzleType:  shared.PuzzleType(puzzleType),
		Difficulty:  shared.Difficulty(difficulty),
		TimeTaken:   timeTaken,
		HintCount:   hints,
		CompletedAt: time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRebuildSnapshotJob_Run(t *testing.T) {
	repo := &stubRepo{records: []record.CompletionRecord{
		rec("ABC123XYZ789", "sudoku", "easy", 120, 0),
		rec("ZZZ999ZZZ999", "sudoku", "easy", 90, 1),
		rec("ABC123XYZ789", "crossword", "hard", 300, 2),
	}}
	snapshots := &memSnapshots{}
	publisher := &capturePublisher{}

	job := NewRebuildSnapshotJob(repo, snapshots, publisher, logger.Default(), RebuildSnapshotConfig{
		PuzzleTypes: []string{"sudoku", "crossword"},
		MaxEntries:  1,
	})

	require.NoError(t, job.Run(context.Background()))

	require.Len(t, snapshots.saved, 2)
	assert.Equal(t, shared.PuzzleType("sudoku"), snapshots.saved[0].PuzzleType)
	assert.Len(t, snapshots.saved[0].Entries, 1)
	assert.Equal(t, 2, snapshots.saved[0].TotalRecords, "total counts past the entry cap")
	assert.Equal(t, shared.PuzzleType("crossword"), snapshots.saved[1].PuzzleType)
	assert.Len(t, snapshots.saved[1].Entries, 1)

	require.Len(t, publisher.events, 2)
	assert.Equal(t, shared.EventSnapshotRebuilt, publisher.events[0].EventType())

	stats := job.LastStats()
	require.NotNil(t, stats)
	assert.Equal(t, 2, stats.TypesProcessed)
	assert.Equal(t, 2, stats.SnapshotsSaved)
	assert.Equal(t, 3, stats.RecordsScanned)
	assert.Empty(t, stats.Errors)
}

func TestRebuildSnapshotJob_PerDifficultySnapshots(t *testing.T) {
	repo := &stubRepo{records: []record.CompletionRecord{
		rec("ABC123XYZ789", "sudoku", "easy", 120, 0),
		rec("ZZZ999ZZZ999", "sudoku", "hard", 90, 1),
	}}
	snapshots := &memSnapshots{}

	job := NewRebuildSnapshotJob(repo, snapshots, nil, logger.Default(), RebuildSnapshotConfig{
		PuzzleTypes:  []string{"sudoku"},
		Difficulties: []string{"easy", "hard"},
	})

	require.NoError(t, job.Run(context.Background()))

	// One all-tiers snapshot plus one per configured difficulty.
	require.Len(t, snapshots.saved, 3)
	assert.Equal(t, shared.Difficulty(""), snapshots.saved[0].Difficulty)
	assert.Equal(t, shared.Difficulty("easy"), snapshots.saved[1].Difficulty)
	assert.Len(t, snapshots.saved[1].Entries, 1)
}

func TestRebuildSnapshotJob_InvalidTypeCollected(t *testing.T) {
	repo := &stubRepo{}
	snapshots := &memSnapshots{}

	job := NewRebuildSnapshotJob(repo, snapshots, nil, logger.Default(), RebuildSnapshotConfig{
		PuzzleTypes: []string{"", "sudoku"},
	})

	err := job.Run(context.Background())
	assert.Error(t, err)

	stats := job.LastStats()
	require.NotNil(t, stats)
	assert.Equal(t, 1, stats.TypesProcessed)
	assert.Len(t, stats.Errors, 1)
	// The valid type still gets its snapshot.
	assert.Len(t, snapshots.saved, 1)
}

func TestRebuildSnapshotJob_Metadata(t *testing.T) {
	job := NewRebuildSnapshotJob(&stubRepo{}, &memSnapshots{}, nil, logger.Default(), DefaultRebuildSnapshotConfig())
	assert.Equal(t, "rebuild_snapshot", job.Name())
	assert.NotEmpty(t, job.Description())
	assert.Nil(t, job.LastStats())
}
