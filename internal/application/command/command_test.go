package command

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puzzlehive/stats-hub/internal/domain/ranking"
	"github.com/puzzlehive/stats-hub/internal/domain/record"
	"github.com/puzzlehive/stats-hub/internal/domain/shared"
)

const (
	testAccount  = "ABC123XYZ789"
	otherAccount = "ZZZ999ZZZ999"
)

// stubRepo is an in-memory record.Repository that also counts writes, so
// tests can assert that invalid submissions never reach the store.
type stubRepo struct {
	mu      sync.Mutex
	nextID  int64
	records []record.CompletionRecord
	creates int
}

func newStubRepo(records ...record.CompletionRecord) *stubRepo {
	r := &stubRepo{nextID: 1}
	for _, rec := range records {
		rec.RecordID = r.nextID
		r.nextID++
		r.records = append(r.records, rec)
	}
	return r
}

func (r *stubRepo) Create(_ context.Context, rec *record.CompletionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	rec.RecordID = r.nextID
	r.nextID++
	r.records = append(r.records, *rec)
	return nil
}

func (r *stubRepo) GetByID(_ context.Context, recordID int64) (*record.CompletionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.records {
		if r.records[i].RecordID == recordID {
			return r.records[i].Clone(), nil
		}
	}
	return nil, shared.ErrRecordNotFound
}

func (r *stubRepo) List(context.Context, record.Filter, record.Sort, record.Page) ([]record.CompletionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]record.CompletionRecord, len(r.records))
	copy(out, r.records)
	return out, nil
}

func (r *stubRepo) Count(context.Context, record.Filter) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records), nil
}

func (r *stubRepo) ListByAccount(_ context.Context, accountID shared.AccountID) ([]record.CompletionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []record.CompletionRecord
	for _, rec := range r.records {
		if rec.AccountID == accountID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *stubRepo) Delete(_ context.Context, recordID int64, accountID shared.AccountID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.records {
		if r.records[i].RecordID == recordID {
			if r.records[i].AccountID != accountID {
				return shared.ErrRecordNotOwned
			}
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return shared.ErrRecordNotFound
}

func (r *stubRepo) DeleteByAccount(_ context.Context, accountID shared.AccountID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.records[:0]
	deleted := 0
	for _, rec := range r.records {
		if rec.AccountID == accountID {
			deleted++
			continue
		}
		kept = append(kept, rec)
	}
	r.records = kept
	return deleted, nil
}

// capturePublisher records every published event.
type capturePublisher struct {
	mu     sync.Mutex
	events []shared.Event
}

func (p *capturePublisher) Publish(event shared.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) published() []shared.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]shared.Event(nil), p.events...)
}

func validSubmit() SubmitRecordCommand {
	return SubmitRecordCommand{
		AccountID:  testAccount,
		PuzzleType: "sudoku",
		Difficulty: "medium",
		TimeTaken:  120,
		HintCount:  2,
	}
}

func TestSubmitRecordHandler_OK(t *testing.T) {
	repo := newStubRepo()
	pub := &capturePublisher{}
	h := NewSubmitRecordHandler(repo, pub)

	res, err := h.Handle(context.Background(), validSubmit())
	require.NoError(t, err)

	require.NotNil(t, res.Record)
	assert.Equal(t, int64(1), res.Record.RecordID)
	assert.Equal(t, shared.AccountID(testAccount), res.Record.AccountID)
	assert.False(t, res.Record.CompletedAt.IsZero())

	events := pub.published()
	require.Len(t, events, 1)
	assert.Equal(t, shared.EventRecordCreated, events[0].EventType())
}

func TestSubmitRecordHandler_InvalidNeverPersisted(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SubmitRecordCommand)
		wantErr error
	}{
		{"bad account", func(c *SubmitRecordCommand) { c.AccountID = "abc" }, shared.ErrInvalidID},
		{"empty puzzle type", func(c *SubmitRecordCommand) { c.PuzzleType = "" }, nil},
		{"negative time", func(c *SubmitRecordCommand) { c.TimeTaken = -1 }, nil},
		{"time over cap", func(c *SubmitRecordCommand) { c.TimeTaken = 90000 }, shared.ErrValueOutOfRange},
		{"hints over cap", func(c *SubmitRecordCommand) { c.HintCount = 150 }, shared.ErrValueOutOfRange},
		{"future completion", func(c *SubmitRecordCommand) { c.CompletedAt = time.Now().Add(time.Hour) }, shared.ErrFutureTimestamp},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newStubRepo()
			pub := &capturePublisher{}
			h := NewSubmitRecordHandler(repo, pub)

			cmd := validSubmit()
			tc.mutate(&cmd)

			_, err := h.Handle(context.Background(), cmd)
			require.Error(t, err)
			assert.True(t, shared.IsValidation(err))
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}

			assert.Equal(t, 0, repo.creates, "invalid submission must not touch the store")
			assert.Empty(t, pub.published())
		})
	}
}

func TestSubmitRecordHandler_NilPublisher(t *testing.T) {
	h := NewSubmitRecordHandler(newStubRepo(), nil)
	_, err := h.Handle(context.Background(), validSubmit())
	assert.NoError(t, err)
}

// stubSnapshots records invalidations by puzzle type.
type stubSnapshots struct {
	mu          sync.Mutex
	invalidated []shared.PuzzleType
}

func (s *stubSnapshots) Load(context.Context, shared.PuzzleType, shared.Difficulty) (*ranking.Snapshot, error) {
	return nil, shared.ErrSnapshotMissing
}

func (s *stubSnapshots) Save(context.Context, *ranking.Snapshot) error { return nil }

func (s *stubSnapshots) Invalidate(_ context.Context, puzzleType shared.PuzzleType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidated = append(s.invalidated, puzzleType)
	return nil
}

func TestSubmitRecordHandler_InlineInvalidation(t *testing.T) {
	repo := newStubRepo()
	snapshots := &stubSnapshots{}
	h := NewSubmitRecordHandler(repo, nil)
	h.EnableInlineInvalidation(snapshots)

	_, err := h.Handle(context.Background(), validSubmit())
	require.NoError(t, err)

	require.Len(t, snapshots.invalidated, 1)
	assert.Equal(t, shared.PuzzleType("sudoku"), snapshots.invalidated[0])

	// An invalid submission never reaches the cache either.
	cmd := validSubmit()
	cmd.HintCount = 150
	_, err = h.Handle(context.Background(), cmd)
	require.Error(t, err)
	assert.Len(t, snapshots.invalidated, 1)
}

func TestDeleteRecordHandler(t *testing.T) {
	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	seed := func() *stubRepo {
		return newStubRepo(
			record.CompletionRecord{
				AccountID:   testAccount,
				PuzzleType:  "sudoku",
				Difficulty:  "easy",
				TimeTaken:   100,
				HintCount:   0,
				CompletedAt: base,
			},
		)
	}

	t.Run("owner deletes", func(t *testing.T) {
		repo := seed()
		pub := &capturePublisher{}
		h := NewDeleteRecordHandler(repo, pub)

		err := h.Handle(context.Background(), DeleteRecordCommand{RecordID: 1, AccountID: testAccount})
		require.NoError(t, err)

		_, err = repo.GetByID(context.Background(), 1)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		events := pub.published()
		require.Len(t, events, 1)
		assert.Equal(t, shared.EventRecordDeleted, events[0].EventType())
	})

	t.Run("other account is an ownership violation", func(t *testing.T) {
		repo := seed()
		h := NewDeleteRecordHandler(repo, nil)

		err := h.Handle(context.Background(), DeleteRecordCommand{RecordID: 1, AccountID: otherAccount})
		require.Error(t, err)
		assert.True(t, shared.IsOwnership(err))
		assert.False(t, shared.IsNotFound(err))

		// The record survives.
		_, err = repo.GetByID(context.Background(), 1)
		assert.NoError(t, err)
	})

	t.Run("missing record", func(t *testing.T) {
		h := NewDeleteRecordHandler(seed(), nil)
		err := h.Handle(context.Background(), DeleteRecordCommand{RecordID: 999, AccountID: testAccount})
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("invalid command shape", func(t *testing.T) {
		h := NewDeleteRecordHandler(seed(), nil)
		assert.Error(t, h.Handle(context.Background(), DeleteRecordCommand{RecordID: 0, AccountID: testAccount}))
		assert.Error(t, h.Handle(context.Background(), DeleteRecordCommand{RecordID: 1, AccountID: "bad"}))
	})
}

func TestPurgeAccountRecordsHandler(t *testing.T) {
	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	repo := newStubRepo(
		record.CompletionRecord{AccountID: testAccount, PuzzleType: "sudoku", Difficulty: "easy", TimeTaken: 100, CompletedAt: base},
		record.CompletionRecord{AccountID: testAccount, PuzzleType: "crossword", Difficulty: "hard", TimeTaken: 200, CompletedAt: base},
		record.CompletionRecord{AccountID: otherAccount, PuzzleType: "sudoku", Difficulty: "easy", TimeTaken: 50, CompletedAt: base},
	)
	pub := &capturePublisher{}
	h := NewPurgeAccountRecordsHandler(repo, pub)

	res, err := h.Handle(context.Background(), PurgeAccountRecordsCommand{AccountID: testAccount})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Deleted)

	left, err := repo.ListByAccount(context.Background(), otherAccount)
	require.NoError(t, err)
	assert.Len(t, left, 1)

	events := pub.published()
	require.Len(t, events, 1)
	assert.Equal(t, shared.EventAccountPurged, events[0].EventType())

	// Purging again is a successful no-op and publishes nothing.
	res, err = h.Handle(context.Background(), PurgeAccountRecordsCommand{AccountID: testAccount})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Deleted)
	assert.Len(t, pub.published(), 1)
}
