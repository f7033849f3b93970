package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"

	"github.com/roach88/funckeeper/internal/record"
	"github.com/roach88/funckeeper/internal/search"
	"github.com/roach88/funckeeper/internal/stats"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func utcRenderer() *Renderer {
	return &Renderer{Loc: time.UTC}
}

func TestStatistics_Golden(t *testing.T) {
	agg := stats.Aggregate{
		Total:       10,
		Success:     9,
		Errors:      1,
		SuccessRate: 0.9,
		AvgDuration: 0.0815,
		MinDuration: 0.01,
		MaxDuration: 0.52,
		MinID:       3,
		MaxID:       7,
		FirstCall:   time.Date(2024, 11, 27, 18, 0, 0, 0, time.UTC),
		LastCall:    time.Date(2024, 11, 27, 18, 5, 0, 0, time.UTC),
		ErrorTypes:  map[string]int{"TimeoutError": 1},
	}

	var buf bytes.Buffer
	utcRenderer().Statistics(&buf, agg)

	newGoldie(t).Assert(t, "statistics", buf.Bytes())
}

func TestStatistics_Empty(t *testing.T) {
	var buf bytes.Buffer
	utcRenderer().Statistics(&buf, stats.Aggregate{})
	assert.Equal(t, "No records matched.\n", buf.String())
}

func TestSummaries_Golden(t *testing.T) {
	results := []search.Summary{
		{
			ID:          12,
			FuncName:    "add",
			Docstring:   "add returns the sum of two integers.",
			Tags:        []string{"calc", "math"},
			Status:      record.StatusSuccess,
			CalledAt:    time.Date(2024, 11, 27, 18, 13, 47, 0, time.UTC),
			Duration:    0.0042,
			Args:        "[5,7]",
			Kwargs:      "{}",
			ReturnValue: "12",
		},
		{
			ID:       11,
			FuncName: "divide",
			Status:   record.StatusError,
			CalledAt: time.Date(2024, 11, 27, 18, 13, 40, 0, time.UTC),
			Duration: 0.0008,
			Args:     "[10,0]",
			Kwargs:   "{}",
			Error:    "division by zero",
		},
	}

	var buf bytes.Buffer
	utcRenderer().Summaries(&buf, results)

	newGoldie(t).Assert(t, "summaries", buf.Bytes())
}

func TestSummaries_Empty(t *testing.T) {
	var buf bytes.Buffer
	utcRenderer().Summaries(&buf, nil)
	assert.Equal(t, "No matching records.\n", buf.String())
}

func TestDetail_Golden(t *testing.T) {
	rec := &record.Record{
		ID:           11,
		WrapID:       "wrap-1",
		FuncName:     "divide",
		ModulePath:   "/src/calc/calc.go",
		Source:       "func divide(a, b int) (int, error) {\n\treturn a / b, nil\n}",
		Docstring:    "divide returns a/b.",
		Dependencies: []string{"errors", "fmt"},
		Tags:         []string{"calc", "math"},
		Args:         "[10,0]",
		Kwargs:       "{}",
		Status:       record.StatusError,
		ErrorType:    "runtime.Error",
		ErrorMessage: "runtime error: integer divide by zero",
		ErrorCause:   "integer divide by zero",
		Duration:     0.0008,
		StartTime:    time.Date(2024, 11, 27, 18, 13, 40, 0, time.UTC),
		CreatedAt:    time.Date(2024, 11, 27, 18, 13, 40, 0, time.UTC),
	}

	var buf bytes.Buffer
	utcRenderer().Detail(&buf, rec)

	newGoldie(t).Assert(t, "detail", buf.Bytes())
}

func TestFunctionInfo(t *testing.T) {
	rec := &record.Record{
		ID:           5,
		FuncName:     "divide",
		ModulePath:   "/src/calc/calc.go",
		Source:       "func divide(a, b int) (int, error) {\n\treturn a / b, nil\n}",
		Docstring:    "divide returns a/b.",
		Dependencies: []string{"errors", "fmt"},
		Status:       record.StatusSuccess,
	}

	var buf bytes.Buffer
	utcRenderer().FunctionInfo(&buf, rec)

	want := "=== Function info: divide ===\n" +
		"Source file: /src/calc/calc.go\n" +
		"\nSource:\n" +
		"func divide(a, b int) (int, error) {\n\treturn a / b, nil\n}\n" +
		"\nDocumentation:\ndivide returns a/b.\n" +
		"\nDependencies:\n- errors\n- fmt\n"
	assert.Equal(t, want, buf.String())
}

func TestFunctionInfo_PartialMetadata(t *testing.T) {
	var buf bytes.Buffer
	utcRenderer().FunctionInfo(&buf, &record.Record{FuncName: "opaque"})

	assert.Equal(t, "=== Function info: opaque ===\n", buf.String())
}

func TestErrorBreakdown(t *testing.T) {
	var buf bytes.Buffer
	utcRenderer().ErrorBreakdown(&buf, map[string]stats.ErrorTypeStats{
		"ValueError":   {Count: 1, AvgDuration: 0.5},
		"TimeoutError": {Count: 2, AvgDuration: 0.2},
	})

	want := "=== Error breakdown ===\n" +
		"- TimeoutError: 2 (avg 0.2000s)\n" +
		"- ValueError: 1 (avg 0.5000s)\n"
	assert.Equal(t, want, buf.String())
}

func TestFormatCallArgs(t *testing.T) {
	assert.Equal(t, "(none)", formatCallArgs("[]", "{}"))
	assert.Equal(t, "[1,2]", formatCallArgs("[1,2]", "{}"))
	assert.Equal(t, `[1] {"verbose":true}`, formatCallArgs("[1]", `{"verbose":true}`))
}
