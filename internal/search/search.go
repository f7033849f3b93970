// Package search answers filtered queries over the record history with
// list-friendly summaries.
//
// Predicate semantics:
//   - keyword: case-insensitive substring over func_name, source, docstring
//     and error_message; one hit in any field matches the record.
//   - tags: any-of (set intersection) with exact label matching.
//   - status, date range: exact and inclusive respectively.
//   - all supplied predicates combine with AND.
//
// Results follow the store's ordering contract: created_at descending,
// id descending on ties. An empty query returns everything.
package search

import (
	"context"
	"time"

	"github.com/roach88/funckeeper/internal/record"
	"github.com/roach88/funckeeper/internal/store"
)

// Query is the set of optional search predicates.
type Query struct {
	Keyword string
	Tags    []string
	Status  record.Status
	Since   time.Time
	Until   time.Time
	Limit   int
}

// Summary is the list projection of a record: enough to render a result
// line without hauling the full source snapshot around.
type Summary struct {
	ID        int64         `json:"id"`
	FuncName  string        `json:"function"`
	Docstring string        `json:"documentation,omitempty"`
	Tags      []string      `json:"tags,omitempty"`
	Status    record.Status `json:"status"`
	CalledAt  time.Time     `json:"called_at"`
	Duration  float64       `json:"duration"`
	Args      string        `json:"args,omitempty"`
	Kwargs    string        `json:"kwargs,omitempty"`

	// ReturnValue is set for success records, Error for error records.
	ReturnValue string `json:"return_value,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Engine resolves search queries against the record store.
type Engine struct {
	store *store.Store
}

// New creates a search engine reading from s.
func New(s *store.Store) *Engine {
	return &Engine{store: s}
}

// Search returns summaries of all records matching q, most recent first.
func (e *Engine) Search(ctx context.Context, q Query) ([]Summary, error) {
	records, err := e.store.Query(ctx, store.Filter{
		Keyword: q.Keyword,
		Tags:    q.Tags,
		Status:  q.Status,
		Since:   q.Since,
		Until:   q.Until,
		Limit:   q.Limit,
	})
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, len(records))
	for i, r := range records {
		summaries[i] = Summarize(r)
	}
	return summaries, nil
}

// Summarize projects a full record onto its list representation.
func Summarize(r *record.Record) Summary {
	s := Summary{
		ID:        r.ID,
		FuncName:  r.FuncName,
		Docstring: r.Docstring,
		Tags:      r.Tags,
		Status:    r.Status,
		CalledAt:  r.CreatedAt,
		Duration:  r.Duration,
		Args:      r.Args,
		Kwargs:    r.Kwargs,
	}
	if r.Status == record.StatusSuccess {
		s.ReturnValue = r.ReturnValue
	} else {
		s.Error = r.ErrorMessage
	}
	return s
}
