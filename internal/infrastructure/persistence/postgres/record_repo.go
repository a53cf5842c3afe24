package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/puzzlehive/stats-hub/internal/domain/record"
	"github.com/puzzlehive/stats-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const recordColumns = "record_id, account_id, puzzle_type, difficulty, time_taken, hint_count, completed_at"

// RecordRepository implements record.Repository for PostgreSQL.
type RecordRepository struct {
	conn *Connection
}

// NewRecordRepository creates a new RecordRepository.
func NewRecordRepository(conn *Connection) *RecordRepository {
	return &RecordRepository{conn: conn}
}

// ─────────────────────────────────────────────────────────────────────────────
// WRITE OPERATIONS
// ─────────────────────────────────────────────────────────────────────────────

// Create appends a record and assigns its store ID.
func (r *RecordRepository) Create(ctx context.Context, rec *record.CompletionRecord) error {
	err := r.conn.QueryRow(ctx, `
		INSERT INTO completion_records (account_id, puzzle_type, difficulty, time_taken, hint_count, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING record_id
	`,
		rec.AccountID.String(),
		rec.PuzzleType.String(),
		rec.Difficulty.String(),
		rec.TimeTaken,
		rec.HintCount,
		rec.CompletedAt,
	).Scan(&rec.RecordID)
	if err != nil {
		return shared.WrapError("postgres", "Create", shared.ErrStore, "failed to insert record", err)
	}

	return nil
}

// Delete removes one record after verifying ownership in the same statement
// sequence, so "missing" and "not yours" stay distinguishable.
func (r *RecordRepository) Delete(ctx context.Context, recordID int64, accountID shared.AccountID) error {
	tag, err := r.conn.Exec(ctx, `
		DELETE FROM completion_records
		WHERE record_id = $1 AND account_id = $2
	`, recordID, accountID.String())
	if err != nil {
		return shared.WrapError("postgres", "Delete", shared.ErrStore, "failed to delete record", err)
	}

	if tag.RowsAffected() > 0 {
		return nil
	}

	// Nothing deleted: either the record does not exist or it belongs to a
	// different account.
	var exists bool
	err = r.conn.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM completion_records WHERE record_id = $1)
	`, recordID).Scan(&exists)
	if err != nil {
		return shared.WrapError("postgres", "Delete", shared.ErrStore, "failed to check record existence", err)
	}

	if exists {
		return shared.ErrRecordNotOwned
	}
	return shared.ErrRecordNotFound
}

// DeleteByAccount removes all records of one account.
func (r *RecordRepository) DeleteByAccount(ctx context.Context, accountID shared.AccountID) (int, error) {
	tag, err := r.conn.Exec(ctx, `
		DELETE FROM completion_records WHERE account_id = $1
	`, accountID.String())
	if err != nil {
		return 0, shared.WrapError("postgres", "DeleteByAccount", shared.ErrStore, "failed to purge records", err)
	}

	return int(tag.RowsAffected()), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// READ OPERATIONS
// ─────────────────────────────────────────────────────────────────────────────

// GetByID returns a record by its store-assigned ID.
func (r *RecordRepository) GetByID(ctx context.Context, recordID int64) (*record.CompletionRecord, error) {
	var rec record.CompletionRecord
	err := r.conn.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM completion_records WHERE record_id = $1
	`, recordColumns), recordID).Scan(
		&rec.RecordID,
		&rec.AccountID,
		&rec.PuzzleType,
		&rec.Difficulty,
		&rec.TimeTaken,
		&rec.HintCount,
		&rec.CompletedAt,
	)

	if IsNoRows(err) {
		return nil, shared.ErrRecordNotFound
	}
	if err != nil {
		return nil, shared.WrapError("postgres", "GetByID", shared.ErrStore, "failed to get record", err)
	}

	return &rec, nil
}

// List returns records matching the filter in the requested order.
func (r *RecordRepository) List(ctx context.Context, filter record.Filter, sort record.Sort, page record.Page) ([]record.CompletionRecord, error) {
	where, args := buildWhere(filter)

	query := fmt.Sprintf("SELECT %s FROM completion_records%s%s", recordColumns, where, buildOrder(sort))

	if page.Limit > 0 {
		args = append(args, page.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if page.Offset > 0 {
		args = append(args, page.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, shared.WrapError("postgres", "List", shared.ErrStore, "failed to list records", err)
	}
	defer rows.Close()

	var records []record.CompletionRecord
	for rows.Next() {
		var rec record.CompletionRecord
		if err := rows.Scan(
			&rec.RecordID,
			&rec.AccountID,
			&rec.PuzzleType,
			&rec.Difficulty,
			&rec.TimeTaken,
			&rec.HintCount,
			&rec.CompletedAt,
		); err != nil {
			return nil, shared.WrapError("postgres", "List", shared.ErrStore, "failed to scan record", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, shared.WrapError("postgres", "List", shared.ErrStore, "failed to read records", err)
	}

	return records, nil
}

// Count returns the number of records matching the filter.
func (r *RecordRepository) Count(ctx context.Context, filter record.Filter) (int, error) {
	where, args := buildWhere(filter)

	var count int
	err := r.conn.QueryRow(ctx, "SELECT COUNT(*) FROM completion_records"+where, args...).Scan(&count)
	if err != nil {
		return 0, shared.WrapError("postgres", "Count", shared.ErrStore, "failed to count records", err)
	}

	return count, nil
}

// ListByAccount returns every record of one account in insertion order.
func (r *RecordRepository) ListByAccount(ctx context.Context, accountID shared.AccountID) ([]record.CompletionRecord, error) {
	return r.List(ctx, record.Filter{AccountID: accountID}, record.Sort{}, record.Page{})
}

// ─────────────────────────────────────────────────────────────────────────────
// QUERY BUILDING
// ─────────────────────────────────────────────────────────────────────────────

// buildWhere assembles the WHERE clause for a filter. Zero-valued fields add
// no condition.
func buildWhere(filter record.Filter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.AccountID != "" {
		add("account_id = $%d", filter.AccountID.String())
	}
	if filter.PuzzleType != "" {
		add("puzzle_type = $%d", filter.PuzzleType.String())
	}
	if filter.Difficulty != "" {
		add("difficulty = $%d", filter.Difficulty.String())
	}
	if filter.From != nil {
		add("completed_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("completed_at <= $%d", *filter.To)
	}
	if filter.MaxHints != nil {
		add("hint_count <= $%d", *filter.MaxHints)
	}
	if filter.MaxTime != nil {
		add("time_taken <= $%d", *filter.MaxTime)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// buildOrder maps a Sort to an ORDER BY clause. The zero Sort is insertion
// order; a secondary record_id key keeps every ordering total and stable.
func buildOrder(sort record.Sort) string {
	if sort.Field == "" {
		return " ORDER BY record_id ASC"
	}

	dir := "ASC"
	if sort.Order == record.SortDesc {
		dir = "DESC"
	}

	// sort.Field is validated upstream against the accepted column set.
	return fmt.Sprintf(" ORDER BY %s %s, record_id ASC", sort.Field, dir)
}
