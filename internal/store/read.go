package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/funckeeper/internal/record"
)

const recordColumns = `id, wrap_id, func_name, module_path, source, docstring,
	dependencies, tags, args, kwargs, return_value, error_type, error_message,
	error_cause, error_stack, status, start_time, duration, created_at`

// Get retrieves a single record by id.
// Returns ErrNotFound for an unknown id.
func (s *Store) Get(ctx context.Context, id int64) (*record.Record, error) {
	row := s.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT %s FROM execution_records WHERE id = ?
	`, recordColumns), id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get record %d: %w", id, err)
	}
	return rec, nil
}

// Query returns all records matching the filter in the store's default
// order: created_at descending, id descending on ties.
//
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) Query(ctx context.Context, f Filter) ([]*record.Record, error) {
	where, params := f.compile()

	q := fmt.Sprintf("SELECT %s FROM execution_records WHERE %s%s",
		recordColumns, where, orderClause)
	if f.Limit > 0 {
		q += " LIMIT ?"
		params = append(params, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, q, params...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records := []*record.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("query records: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	return records, nil
}

// Count returns the number of records matching the filter.
func (s *Store) Count(ctx context.Context, f Filter) (int, error) {
	where, params := f.compile()

	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM execution_records WHERE "+where, params...,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRecord scans one row into a Record, mapping NULL columns back to empty
// strings and parsing timestamps.
func scanRecord(sc scanner) (*record.Record, error) {
	var (
		rec                  record.Record
		modulePath, source   sql.NullString
		docstring, deps      sql.NullString
		tags, args, kwargs   sql.NullString
		returnValue          sql.NullString
		errType, errMessage  sql.NullString
		errCause, errStack   sql.NullString
		status               string
		startTime, createdAt string
	)

	if err := sc.Scan(
		&rec.ID, &rec.WrapID, &rec.FuncName, &modulePath, &source, &docstring,
		&deps, &tags, &args, &kwargs, &returnValue, &errType, &errMessage,
		&errCause, &errStack, &status, &startTime, &rec.Duration, &createdAt,
	); err != nil {
		return nil, err
	}

	rec.ModulePath = modulePath.String
	rec.Source = source.String
	rec.Docstring = docstring.String
	rec.Dependencies = record.DecodeStrings(deps.String)
	rec.Tags = record.DecodeStrings(tags.String)
	rec.Args = args.String
	rec.Kwargs = kwargs.String
	rec.ReturnValue = returnValue.String
	rec.ErrorType = errType.String
	rec.ErrorMessage = errMessage.String
	rec.ErrorCause = errCause.String
	rec.ErrorStack = errStack.String
	rec.Status = record.Status(status)

	var err error
	if rec.StartTime, err = parseTime(startTime); err != nil {
		return nil, fmt.Errorf("parse start_time: %w", err)
	}
	if rec.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	return &rec, nil
}

// parseTime accepts the store's fixed-width layout and, for databases
// written by other tooling, plain RFC 3339.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
