package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/roach88/funckeeper/internal/record"
)

// Filter selects a subset of execution records. Zero-valued fields are
// inactive; active predicates combine with logical AND.
type Filter struct {
	// FuncName restricts to records of one wrapped function.
	FuncName string

	// Status restricts to exactly one outcome.
	Status record.Status

	// Tags restricts to records whose tag set intersects the given labels
	// (any-of semantics). Matching is exact label equality via json_each,
	// never substring: tag "math" does not match tag "mathematics".
	Tags []string

	// Keyword matches case-insensitively as a substring of func_name,
	// source, docstring or error_message.
	Keyword string

	// Since/Until bound created_at inclusively. Zero times are open ends.
	Since time.Time
	Until time.Time

	// Limit caps the result set. Zero means no limit.
	Limit int
}

// compile converts the filter into a parameterized WHERE clause.
// Values are always bound through placeholders, never interpolated.
func (f Filter) compile() (string, []any) {
	var conds []string
	var params []any

	if f.FuncName != "" {
		conds = append(conds, "func_name = ?")
		params = append(params, f.FuncName)
	}

	if f.Status != "" {
		conds = append(conds, "status = ?")
		params = append(params, string(f.Status))
	}

	// Requested tags go through the same normalization as stored tags so the
	// equality comparison is apples to apples.
	if tags := record.NormalizeTags(f.Tags); len(tags) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(tags)), ", ")
		conds = append(conds, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM json_each(execution_records.tags) WHERE json_each.value IN (%s))",
			placeholders))
		for _, t := range tags {
			params = append(params, t)
		}
	}

	if f.Keyword != "" {
		pattern := likePattern(f.Keyword)
		conds = append(conds, `(func_name LIKE ? ESCAPE '\'
			OR source LIKE ? ESCAPE '\'
			OR docstring LIKE ? ESCAPE '\'
			OR error_message LIKE ? ESCAPE '\')`)
		params = append(params, pattern, pattern, pattern, pattern)
	}

	if !f.Since.IsZero() {
		conds = append(conds, "created_at >= ?")
		params = append(params, f.Since.UTC().Format(timeLayout))
	}

	if !f.Until.IsZero() {
		conds = append(conds, "created_at <= ?")
		params = append(params, f.Until.UTC().Format(timeLayout))
	}

	if len(conds) == 0 {
		return "1 = 1", nil
	}
	return strings.Join(conds, " AND "), params
}

// likePattern builds a %keyword% LIKE pattern with SQL wildcards in the
// keyword itself escaped, so a literal "%" or "_" matches literally.
func likePattern(keyword string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(keyword)
	return "%" + escaped + "%"
}

// orderClause is the store's default ordering contract: most recent write
// first, id descending on created_at ties. Every query uses it so results
// are deterministic and reproducible.
const orderClause = " ORDER BY created_at DESC, id DESC"
