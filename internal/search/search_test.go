package search

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

func insert(t *testing.T, s *store.Store, rec *record.Record) int64 {
	t.Helper()
	if rec.Args == "" {
		rec.Args = "[]"
	}
	if rec.Kwargs == "" {
		rec.Kwargs = "{}"
	}
	if rec.StartTime.IsZero() {
		rec.StartTime = time.Now()
	}
	id, err := s.Insert(context.Background(), rec)
	require.NoError(t, err)
	return id
}

func TestSearch_EmptyQueryReturnsAll(t *testing.T) {
	e, s := setupEngine(t)

	insert(t, s, &record.Record{FuncName: "a", Status: record.StatusSuccess, ReturnValue: "1"})
	insert(t, s, &record.Record{FuncName: "b", Status: record.StatusSuccess, ReturnValue: "2"})

	results, err := e.Search(context.Background(), Query{})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearch_OrderMostRecentFirst(t *testing.T) {
	e, s := setupEngine(t)

	first := insert(t, s, &record.Record{FuncName: "a", Status: record.StatusSuccess, ReturnValue: "1"})
	second := insert(t, s, &record.Record{FuncName: "b", Status: record.StatusSuccess, ReturnValue: "2"})

	results, err := e.Search(context.Background(), Query{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Same-second timestamps are possible; id desc breaks the tie either way.
	assert.Equal(t, second, results[0].ID)
	assert.Equal(t, first, results[1].ID)
}

func TestSearch_KeywordOverErrorMessage(t *testing.T) {
	e, s := setupEngine(t)

	insert(t, s, &record.Record{
		FuncName: "loader", Status: record.StatusError,
		ErrorType: "QueryError", ErrorMessage: "upstream REFUSED the connection",
	})
	insert(t, s, &record.Record{FuncName: "other", Status: record.StatusSuccess, ReturnValue: "1"})

	results, err := e.Search(context.Background(), Query{Keyword: "refused"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "loader", results[0].FuncName)
	assert.Contains(t, results[0].Error, "REFUSED")
	assert.Empty(t, results[0].ReturnValue)
}

func TestSearch_PredicatesCombineWithAND(t *testing.T) {
	e, s := setupEngine(t)

	insert(t, s, &record.Record{
		FuncName: "calc", Tags: []string{"math"},
		Status: record.StatusSuccess, ReturnValue: "12",
	})
	insert(t, s, &record.Record{
		FuncName: "calc", Tags: []string{"math"},
		Status: record.StatusError, ErrorType: "E", ErrorMessage: "boom",
	})
	insert(t, s, &record.Record{
		FuncName: "calc", Tags: []string{"io"},
		Status: record.StatusSuccess, ReturnValue: "7",
	})

	results, err := e.Search(context.Background(), Query{
		Keyword: "calc",
		Tags:    []string{"math"},
		Status:  record.StatusSuccess,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "12", results[0].ReturnValue)
}

func TestSearch_DateRange(t *testing.T) {
	e, s := setupEngine(t)

	insert(t, s, &record.Record{FuncName: "a", Status: record.StatusSuccess, ReturnValue: "1"})

	future := time.Now().Add(time.Hour)
	results, err := e.Search(context.Background(), Query{Since: future})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = e.Search(context.Background(), Query{Until: future})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSummarize_StatusGatesResultFields(t *testing.T) {
	success := Summarize(&record.Record{
		ID: 1, FuncName: "f", Status: record.StatusSuccess, ReturnValue: "42",
	})
	assert.Equal(t, "42", success.ReturnValue)
	assert.Empty(t, success.Error)

	failure := Summarize(&record.Record{
		ID: 2, FuncName: "f", Status: record.StatusError,
		ErrorType: "E", ErrorMessage: "boom",
	})
	assert.Equal(t, "boom", failure.Error)
	assert.Empty(t, failure.ReturnValue)
}
