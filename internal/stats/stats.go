// Package stats reduces filtered record sets to aggregate metrics.
//
// Aggregates are derived views, computed on demand in a single pass over the
// store's query results. Nothing here is persisted.
package stats

import (
	"context"
	"time"

	"github.com/roach88/funckeeper/internal/record"
	"github.com/roach88/funckeeper/internal/store"
)

// Aggregate summarizes a filtered record set.
type Aggregate struct {
	Total   int `json:"total_calls"`
	Success int `json:"success_count"`
	Errors  int `json:"error_count"`

	// SuccessRate is Success/Total as a fraction in [0, 1].
	// Defined as 0 when Total is 0.
	SuccessRate float64 `json:"success_rate"`

	// Durations in seconds. Avg is meaningful only when Total > 0.
	AvgDuration float64 `json:"avg_duration"`
	MinDuration float64 `json:"min_duration"`
	MaxDuration float64 `json:"max_duration"`

	// MinID/MaxID identify the records reported as min/max. When several
	// records share the extreme duration, the smallest id wins, so repeated
	// computations over the same data report the same record.
	MinID int64 `json:"min_id,omitempty"`
	MaxID int64 `json:"max_id,omitempty"`

	FirstCall time.Time `json:"first_call"`
	LastCall  time.Time `json:"last_call"`

	// ErrorTypes maps error type name to occurrence count.
	ErrorTypes map[string]int `json:"error_types,omitempty"`
}

// Engine computes aggregates over the record store.
type Engine struct {
	store *store.Store
}

// New creates a statistics engine reading from s.
func New(s *store.Store) *Engine {
	return &Engine{store: s}
}

// Compute reduces the records matching the filter to an Aggregate.
// Single pass; the heavy lifting of filtering is delegated to the store.
func (e *Engine) Compute(ctx context.Context, f store.Filter) (Aggregate, error) {
	records, err := e.store.Query(ctx, f)
	if err != nil {
		return Aggregate{}, err
	}
	return Reduce(records), nil
}

// Reduce folds a record set into an Aggregate. Exposed separately so callers
// holding an already-queried record set can aggregate without a second trip
// to the store.
func Reduce(records []*record.Record) Aggregate {
	agg := Aggregate{ErrorTypes: map[string]int{}}

	var sum float64
	for _, r := range records {
		agg.Total++

		switch r.Status {
		case record.StatusSuccess:
			agg.Success++
		case record.StatusError:
			agg.Errors++
			if r.ErrorType != "" {
				agg.ErrorTypes[r.ErrorType]++
			}
		}

		sum += r.Duration
		if agg.Total == 1 || r.Duration < agg.MinDuration ||
			(r.Duration == agg.MinDuration && r.ID < agg.MinID) {
			agg.MinDuration = r.Duration
			agg.MinID = r.ID
		}
		if agg.Total == 1 || r.Duration > agg.MaxDuration ||
			(r.Duration == agg.MaxDuration && r.ID < agg.MaxID) {
			agg.MaxDuration = r.Duration
			agg.MaxID = r.ID
		}

		if agg.FirstCall.IsZero() || r.CreatedAt.Before(agg.FirstCall) {
			agg.FirstCall = r.CreatedAt
		}
		if r.CreatedAt.After(agg.LastCall) {
			agg.LastCall = r.CreatedAt
		}
	}

	if agg.Total > 0 {
		agg.SuccessRate = float64(agg.Success) / float64(agg.Total)
		agg.AvgDuration = sum / float64(agg.Total)
	}
	if len(agg.ErrorTypes) == 0 {
		agg.ErrorTypes = nil
	}
	return agg
}

// ErrorTypeStats describes one error type across the whole store.
type ErrorTypeStats struct {
	Count       int     `json:"count"`
	AvgDuration float64 `json:"avg_duration"`
}

// ErrorBreakdown aggregates every error record by error type: occurrence
// count and average duration per type.
func (e *Engine) ErrorBreakdown(ctx context.Context) (map[string]ErrorTypeStats, error) {
	records, err := e.store.Query(ctx, store.Filter{Status: record.StatusError})
	if err != nil {
		return nil, err
	}

	sums := map[string]float64{}
	counts := map[string]int{}
	for _, r := range records {
		counts[r.ErrorType]++
		sums[r.ErrorType] += r.Duration
	}

	out := make(map[string]ErrorTypeStats, len(counts))
	for typ, n := range counts {
		out[typ] = ErrorTypeStats{Count: n, AvgDuration: sums[typ] / float64(n)}
	}
	return out, nil
}
