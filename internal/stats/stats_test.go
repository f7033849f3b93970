package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/funckeeper/internal/record"
	"github.com/roach88/funckeeper/internal/store"
)

func setupEngine(t *testing.T) (*Engine, *store.Store) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return New(s), s
}

func insert(t *testing.T, s *store.Store, funcName string, status record.Status, duration float64, errType string) int64 {
	t.Helper()
	rec := &record.Record{
		WrapID:    "w",
		FuncName:  funcName,
		Args:      "[]",
		Kwargs:    "{}",
		Status:    status,
		StartTime: time.Now(),
		Duration:  duration,
	}
	if status == record.StatusSuccess {
		rec.ReturnValue = "null"
	} else {
		rec.ErrorType = errType
		rec.ErrorMessage = "boom"
	}
	id, err := s.Insert(context.Background(), rec)
	require.NoError(t, err)
	return id
}

func TestCompute_EmptyStore(t *testing.T) {
	e, _ := setupEngine(t)

	agg, err := e.Compute(context.Background(), store.Filter{})
	require.NoError(t, err)

	assert.Equal(t, 0, agg.Total)
	assert.Equal(t, 0.0, agg.SuccessRate, "success rate is defined as 0 for an empty set")
	assert.Equal(t, 0.0, agg.AvgDuration)
	assert.True(t, agg.FirstCall.IsZero())
}

func TestCompute_Counts(t *testing.T) {
	e, s := setupEngine(t)

	for i := 0; i < 9; i++ {
		insert(t, s, "my_func", record.StatusSuccess, 0.01, "")
	}
	insert(t, s, "other", record.StatusError, 0.5, "TimeoutError")

	agg, err := e.Compute(context.Background(), store.Filter{FuncName: "my_func"})
	require.NoError(t, err)

	assert.Equal(t, 9, agg.Total)
	assert.Equal(t, 9, agg.Success)
	assert.Equal(t, 0, agg.Errors)
	assert.Equal(t, 1.0, agg.SuccessRate)
}

func TestCompute_SuccessPlusErrorEqualsTotal(t *testing.T) {
	e, s := setupEngine(t)

	insert(t, s, "f", record.StatusSuccess, 0.1, "")
	insert(t, s, "f", record.StatusSuccess, 0.2, "")
	insert(t, s, "f", record.StatusError, 0.3, "ValueError")

	agg, err := e.Compute(context.Background(), store.Filter{})
	require.NoError(t, err)

	assert.Equal(t, agg.Total, agg.Success+agg.Errors)
	assert.InDelta(t, 2.0/3.0, agg.SuccessRate, 1e-9)
	assert.InDelta(t, 0.2, agg.AvgDuration, 1e-9)
}

func TestCompute_MinMaxDurations(t *testing.T) {
	e, s := setupEngine(t)

	insert(t, s, "f", record.StatusSuccess, 0.5, "")
	minID := insert(t, s, "f", record.StatusSuccess, 0.1, "")
	maxID := insert(t, s, "f", record.StatusSuccess, 0.9, "")

	agg, err := e.Compute(context.Background(), store.Filter{})
	require.NoError(t, err)

	assert.Equal(t, 0.1, agg.MinDuration)
	assert.Equal(t, minID, agg.MinID)
	assert.Equal(t, 0.9, agg.MaxDuration)
	assert.Equal(t, maxID, agg.MaxID)
}

func TestCompute_TieBreakSmallestID(t *testing.T) {
	e, s := setupEngine(t)

	first := insert(t, s, "f", record.StatusSuccess, 0.25, "")
	insert(t, s, "f", record.StatusSuccess, 0.25, "")
	insert(t, s, "f", record.StatusSuccess, 0.25, "")

	agg, err := e.Compute(context.Background(), store.Filter{})
	require.NoError(t, err)

	// All durations equal: both extremes report the smallest id.
	assert.Equal(t, first, agg.MinID)
	assert.Equal(t, first, agg.MaxID)
}

func TestCompute_ErrorTypeDistribution(t *testing.T) {
	e, s := setupEngine(t)

	insert(t, s, "f", record.StatusError, 0.1, "TimeoutError")
	insert(t, s, "f", record.StatusError, 0.2, "TimeoutError")
	insert(t, s, "f", record.StatusError, 0.3, "ValueError")

	agg, err := e.Compute(context.Background(), store.Filter{})
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"TimeoutError": 2, "ValueError": 1}, agg.ErrorTypes)
}

func TestCompute_FirstAndLastCall(t *testing.T) {
	e, s := setupEngine(t)

	insert(t, s, "f", record.StatusSuccess, 0.1, "")
	insert(t, s, "f", record.StatusSuccess, 0.1, "")

	agg, err := e.Compute(context.Background(), store.Filter{})
	require.NoError(t, err)

	assert.False(t, agg.FirstCall.IsZero())
	assert.False(t, agg.LastCall.Before(agg.FirstCall))
}

func TestErrorBreakdown(t *testing.T) {
	e, s := setupEngine(t)

	insert(t, s, "f", record.StatusError, 0.1, "TimeoutError")
	insert(t, s, "f", record.StatusError, 0.3, "TimeoutError")
	insert(t, s, "g", record.StatusError, 0.5, "ValueError")
	insert(t, s, "g", record.StatusSuccess, 0.5, "")

	breakdown, err := e.ErrorBreakdown(context.Background())
	require.NoError(t, err)

	require.Len(t, breakdown, 2)
	assert.Equal(t, 2, breakdown["TimeoutError"].Count)
	assert.InDelta(t, 0.2, breakdown["TimeoutError"].AvgDuration, 1e-9)
	assert.Equal(t, 1, breakdown["ValueError"].Count)
}
