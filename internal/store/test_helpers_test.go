package store

import (
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/roach88/funckeeper/internal/record"
)

// createTestStore creates a store backed by a temp database file.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// tickingClock returns a clock that advances one second per call, starting
// at a fixed instant. Deterministic created_at values for ordering tests.
func tickingClock(start time.Time) func() time.Time {
	var n int64
	return func() time.Time {
		return start.Add(time.Duration(atomic.AddInt64(&n, 1)-1) * time.Second)
	}
}

// successRecord builds a minimal success record.
func successRecord(funcName string, tags ...string) *record.Record {
	return &record.Record{
		WrapID:      "wrap-test",
		FuncName:    funcName,
		Tags:        record.NormalizeTags(tags),
		Args:        "[]",
		Kwargs:      "{}",
		Status:      record.StatusSuccess,
		ReturnValue: "1",
		StartTime:   time.Date(2024, 11, 27, 18, 0, 0, 0, time.UTC),
		Duration:    0.01,
	}
}

// errorRecord builds a minimal error record.
func errorRecord(funcName, errType, errMessage string) *record.Record {
	return &record.Record{
		WrapID:       "wrap-test",
		FuncName:     funcName,
		Args:         "[]",
		Kwargs:       "{}",
		Status:       record.StatusError,
		ErrorType:    errType,
		ErrorMessage: errMessage,
		StartTime:    time.Date(2024, 11, 27, 18, 0, 0, 0, time.UTC),
		Duration:     0.02,
	}
}
