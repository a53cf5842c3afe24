package query

import (
	"context"
	"sort"
	"sync"

	"github.com/puzzlehive/stats-hub/internal/domain/record"
	"github.com/puzzlehive/stats-hub/internal/domain/shared"
)

// memRepo is an in-memory record.Repository for handler tests. Insertion
// order doubles as store order, matching the ascending record_id contract.
type memRepo struct {
	mu      sync.Mutex
	nextID  int64
	records []record.CompletionRecord
	listErr error
}

func newMemRepo(records ...record.CompletionRecord) *memRepo {
	r := &memRepo{nextID: 1}
	for _, rec := range records {
		rec.RecordID = r.nextID
		r.nextID++
		r.records = append(r.records, rec)
	}
	return r
}

func (r *memRepo) Create(_ context.Context, rec *record.CompletionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec.RecordID = r.nextID
	r.nextID++
	r.records = append(r.records, *rec)
	return nil
}

func (r *memRepo) GetByID(_ context.Context, recordID int64) (*record.CompletionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.records {
		if r.records[i].RecordID == recordID {
			return r.records[i].Clone(), nil
		}
	}
	return nil, shared.ErrRecordNotFound
}

func (r *memRepo) List(_ context.Context, filter record.Filter, s record.Sort, page record.Page) ([]record.CompletionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}

	var out []record.CompletionRecord
	for _, rec := range r.records {
		if matches(rec, filter) {
			out = append(out, rec)
		}
	}

	if s.Field != "" {
		desc := s.Order == record.SortDesc
		sort.SliceStable(out, func(i, j int) bool {
			var less bool
			switch s.Field {
			case record.SortByCompletedAt:
				less = out[i].CompletedAt.Before(out[j].CompletedAt)
			case record.SortByHintCount:
				less = out[i].HintCount < out[j].HintCount
			case record.SortByTimeTaken:
				less = out[i].TimeTaken < out[j].TimeTaken
			}
			if desc {
				return !less && !equalOn(out[i], out[j], s.Field)
			}
			return less
		})
	}

	if page.Offset > 0 {
		if page.Offset >= len(out) {
			return nil, nil
		}
		out = out[page.Offset:]
	}
	if page.Limit > 0 && page.Limit < len(out) {
		out = out[:page.Limit]
	}
	return out, nil
}

func equalOn(a, b record.CompletionRecord, f record.SortField) bool {
	switch f {
	case record.SortByCompletedAt:
		return a.CompletedAt.Equal(b.CompletedAt)
	case record.SortByHintCount:
		return a.HintCount == b.HintCount
	case record.SortByTimeTaken:
		return a.TimeTaken == b.TimeTaken
	}
	return false
}

func (r *memRepo) Count(ctx context.Context, filter record.Filter) (int, error) {
	out, err := r.List(ctx, filter, record.Sort{}, record.Page{})
	return len(out), err
}

func (r *memRepo) ListByAccount(ctx context.Context, accountID shared.AccountID) ([]record.CompletionRecord, error) {
	return r.List(ctx, record.Filter{AccountID: accountID}, record.Sort{}, record.Page{})
}

func (r *memRepo) Delete(_ context.Context, recordID int64, accountID shared.AccountID) error {
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

func (r *memRepo) DeleteByAccount(_ context.Context, accountID shared.AccountID) (int, error) {
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

func matches(rec record.CompletionRecord, f record.Filter) bool {
	if f.AccountID != "" && rec.AccountID != f.AccountID {
		return false
	}
	if f.PuzzleType != "" && rec.PuzzleType != f.PuzzleType {
		return false
	}
	if f.Difficulty != "" && rec.Difficulty != f.Difficulty {
		return false
	}
	if f.From != nil && rec.CompletedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && rec.CompletedAt.After(*f.To) {
		return false
	}
	if f.MaxHints != nil && rec.HintCount > *f.MaxHints {
		return false
	}
	if f.MaxTime != nil && rec.TimeTaken > *f.MaxTime {
		return false
	}
	return true
}
