// Package funckeeper instruments Go functions transparently: wrapped
// functions keep their exact type and behavior while every call is captured
// as a durable execution record in an embedded SQLite database.
//
// Records carry the function's source text and doc comment as captured at
// wrap time, the serialized arguments and outcome of each call, timing and
// user tags. On top of the record history the package offers statistics,
// search and file export.
//
// Typical use:
//
//	k, err := funckeeper.Open(funckeeper.WithDBPath("calls.db"))
//	if err != nil { ... }
//	defer k.Close()
//
//	add := funckeeper.Wrap(k, rawAdd, funckeeper.WithTags("math"))
//	sum := add(5, 7) // recorded, behaves exactly like rawAdd
package funckeeper

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/roach88/funckeeper/internal/export"
	"github.com/roach88/funckeeper/internal/record"
	"github.com/roach88/funckeeper/internal/report"
	"github.com/roach88/funckeeper/internal/search"
	"github.com/roach88/funckeeper/internal/stats"
	"github.com/roach88/funckeeper/internal/store"
)

// Record is one persisted observation of a single function call.
type Record = record.Record

// Status is the outcome of a recorded call.
type Status = record.Status

const (
	StatusSuccess = record.StatusSuccess
	StatusError   = record.StatusError
)

// Statistics is the aggregate view over a filtered record set.
type Statistics = stats.Aggregate

// ErrorTypeStats describes one error type: count and average duration.
type ErrorTypeStats = stats.ErrorTypeStats

// Summary is the list projection of a record used by Search.
type Summary = search.Summary

// SearchQuery is the set of optional search predicates. All supplied
// predicates combine with AND; tags match any-of with exact labels.
type SearchQuery = search.Query

// ExportType selects what kind of report ExportData produces.
type ExportType = export.Type

const (
	ExportDetail     = export.TypeDetail
	ExportStatistics = export.TypeStatistics
	ExportList       = export.TypeList
)

// StatsFilter narrows GetStatistics to a subset of the history.
// The zero value covers everything.
type StatsFilter struct {
	FuncName string
	Status   Status
	Tags     []string
	Since    time.Time
	Until    time.Time
}

// Keeper owns the record store and the engines reading from it.
// Safe for concurrent use; writes are serialized by the store.
type Keeper struct {
	dbPath     string
	loc        *time.Location
	logger     *slog.Logger
	out        io.Writer
	maxPayload int
	exportDir  string

	store  *store.Store
	stats  *stats.Engine
	search *search.Engine
}

// Open opens or creates the record database and returns a ready Keeper.
func Open(opts ...Option) (*Keeper, error) {
	k := &Keeper{
		dbPath:     "funckeeper.db",
		loc:        time.Local,
		logger:     slog.Default(),
		out:        os.Stdout,
		maxPayload: record.DefaultMaxPayloadBytes,
		exportDir:  "exports",
	}
	for _, opt := range opts {
		opt(k)
	}

	st, err := store.Open(k.dbPath)
	if err != nil {
		return nil, &StorageError{Op: "open", Err: err}
	}
	k.store = st
	k.stats = stats.New(st)
	k.search = search.New(st)
	return k, nil
}

// Close releases the database. Wrappers created from this keeper must not
// be called afterwards; their records would be dropped to the side channel.
func (k *Keeper) Close() error {
	return k.store.Close()
}

// GetRecordDetail returns the full record with the given id, or ErrNotFound.
func (k *Keeper) GetRecordDetail(ctx context.Context, id int64) (*Record, error) {
	rec, err := k.store.Get(ctx, id)
	if err != nil {
		return nil, storageErr("get", err)
	}
	return rec, nil
}

// GetStatistics aggregates the records matching the filter.
func (k *Keeper) GetStatistics(ctx context.Context, f StatsFilter) (Statistics, error) {
	agg, err := k.stats.Compute(ctx, store.Filter{
		FuncName: f.FuncName,
		Status:   f.Status,
		Tags:     f.Tags,
		Since:    f.Since,
		Until:    f.Until,
	})
	if err != nil {
		return Statistics{}, storageErr("statistics", err)
	}
	return agg, nil
}

// GetErrorStatistics aggregates every error record by error type.
func (k *Keeper) GetErrorStatistics(ctx context.Context) (map[string]ErrorTypeStats, error) {
	breakdown, err := k.stats.ErrorBreakdown(ctx)
	if err != nil {
		return nil, storageErr("error statistics", err)
	}
	return breakdown, nil
}

// GetFunctionInfo returns the most recent record of the named function,
// which carries the wrap-time capture of its source, documentation and
// dependencies. Returns ErrNotFound when the function was never recorded.
func (k *Keeper) GetFunctionInfo(ctx context.Context, funcName string) (*Record, error) {
	records, err := k.store.Query(ctx, store.Filter{FuncName: funcName, Limit: 1})
	if err != nil {
		return nil, storageErr("function info", err)
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return records[0], nil
}

// PrintFunctionInfo looks up the named function and renders its captured
// source, documentation and dependency list to the keeper's output writer.
func (k *Keeper) PrintFunctionInfo(ctx context.Context, funcName string) error {
	rec, err := k.GetFunctionInfo(ctx, funcName)
	if err != nil {
		return err
	}
	k.renderer().FunctionInfo(k.out, rec)
	return nil
}

// Search returns summaries of the records matching the query, most recent
// first.
func (k *Keeper) Search(ctx context.Context, q SearchQuery) ([]Summary, error) {
	results, err := k.search.Search(ctx, q)
	if err != nil {
		return nil, storageErr("search", err)
	}
	return results, nil
}

// PrintStatistics renders an aggregate to the keeper's output writer.
func (k *Keeper) PrintStatistics(agg Statistics) {
	k.renderer().Statistics(k.out, agg)
}

// PrintSearchResults renders search summaries to the keeper's output writer.
func (k *Keeper) PrintSearchResults(results []Summary) {
	k.renderer().Summaries(k.out, results)
}

// PrintRecordDetail renders a full record to the keeper's output writer.
func (k *Keeper) PrintRecordDetail(rec *Record) {
	k.renderer().Detail(k.out, rec)
}

// PrintErrorStatistics renders a per-error-type breakdown to the keeper's
// output writer.
func (k *Keeper) PrintErrorStatistics(breakdown map[string]ErrorTypeStats) {
	k.renderer().ErrorBreakdown(k.out, breakdown)
}

// ExportData writes data as an HTML report file under outputDir and returns
// the path of the written file. An empty outputDir falls back to the
// keeper's export dir. The accepted shapes are *Record for ExportDetail,
// Statistics for ExportStatistics and []Summary for ExportList; anything
// else is an *ExportError.
func (k *Keeper) ExportData(data any, exportType ExportType, outputDir string) (string, error) {
	if outputDir == "" {
		outputDir = k.exportDir
	}
	return export.New(export.FormatHTML, k.loc).Export(data, exportType, outputDir)
}

// Location returns the timezone used for displayed timestamps.
func (k *Keeper) Location() *time.Location {
	return k.loc
}

// ExportDir returns the default output directory for exports.
func (k *Keeper) ExportDir() string {
	return k.exportDir
}

func (k *Keeper) renderer() *report.Renderer {
	return &report.Renderer{Loc: k.loc}
}
