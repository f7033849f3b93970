package store

import (
	"context"
	"fmt"

	"github.com/roach88/funckeeper/internal/record"
)

// Insert appends an execution record and returns its assigned id.
// Ids are allocated by SQLite AUTOINCREMENT, so they are unique and strictly
// increasing for the lifetime of the database file. The insert is a single
// statement, hence a single implicit transaction: all fields commit together
// or none do.
//
// created_at is stamped here, at persistence time, from the store clock.
func (s *Store) Insert(ctx context.Context, rec *record.Record) (int64, error) {
	if err := rec.Validate(); err != nil {
		return 0, fmt.Errorf("insert: %w", err)
	}

	createdAt := s.now().UTC()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO execution_records
		(wrap_id, func_name, module_path, source, docstring, dependencies,
		 tags, args, kwargs, return_value, error_type, error_message,
		 error_cause, error_stack, status, start_time, duration, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.WrapID,
		rec.FuncName,
		rec.ModulePath,
		rec.Source,
		rec.Docstring,
		record.EncodeStrings(rec.Dependencies),
		record.EncodeStrings(rec.Tags),
		rec.Args,
		rec.Kwargs,
		nullIfEmpty(rec.ReturnValue),
		nullIfEmpty(rec.ErrorType),
		nullIfEmpty(rec.ErrorMessage),
		nullIfEmpty(rec.ErrorCause),
		nullIfEmpty(rec.ErrorStack),
		string(rec.Status),
		rec.StartTime.UTC().Format(timeLayout),
		rec.Duration,
		createdAt.Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("insert record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert record: last insert id: %w", err)
	}

	rec.ID = id
	rec.CreatedAt = createdAt
	return id, nil
}

// nullIfEmpty maps "" to SQL NULL. The schema expresses the status gating as
// NULL columns: return_value is NULL on error records, error_* are NULL on
// success records.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
