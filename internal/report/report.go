// Package report renders records, summaries and aggregates as plain text.
// Field labels are fixed English strings, independent of the host locale.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/roach88/funckeeper/internal/record"
	"github.com/roach88/funckeeper/internal/search"
	"github.com/roach88/funckeeper/internal/stats"
)

const timeFormat = "2006-01-02 15:04:05 MST"

// Renderer writes textual reports. Loc controls how timestamps are
// displayed; stored records are UTC.
type Renderer struct {
	Loc *time.Location
}

func (r *Renderer) location() *time.Location {
	if r == nil || r.Loc == nil {
		return time.Local
	}
	return r.Loc
}

func (r *Renderer) formatTime(t time.Time) string {
	return t.In(r.location()).Format(timeFormat)
}

// Statistics writes the human-readable summary of an aggregate.
func (r *Renderer) Statistics(w io.Writer, agg stats.Aggregate) {
	if agg.Total == 0 {
		fmt.Fprintln(w, "No records matched.")
		return
	}

	fmt.Fprintln(w, "=== Function statistics ===")
	fmt.Fprintf(w, "Total calls: %d\n", agg.Total)
	fmt.Fprintf(w, "Success count: %d\n", agg.Success)
	fmt.Fprintf(w, "Error count: %d\n", agg.Errors)
	fmt.Fprintf(w, "Success rate: %.2f%%\n", agg.SuccessRate*100)
	fmt.Fprintf(w, "Average duration: %.4fs\n", agg.AvgDuration)
	fmt.Fprintf(w, "Min duration: %.4fs (record %d)\n", agg.MinDuration, agg.MinID)
	fmt.Fprintf(w, "Max duration: %.4fs (record %d)\n", agg.MaxDuration, agg.MaxID)
	fmt.Fprintf(w, "First call: %s\n", r.formatTime(agg.FirstCall))
	fmt.Fprintf(w, "Last call: %s\n", r.formatTime(agg.LastCall))

	if len(agg.ErrorTypes) > 0 {
		fmt.Fprintln(w, "\nError type distribution:")
		for _, typ := range sortedKeys(agg.ErrorTypes) {
			fmt.Fprintf(w, "- %s: %d\n", typ, agg.ErrorTypes[typ])
		}
	}
}

// Summaries writes a numbered list of search results.
func (r *Renderer) Summaries(w io.Writer, results []search.Summary) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No matching records.")
		return
	}

	fmt.Fprintf(w, "Found %d records:\n", len(results))
	for i, s := range results {
		fmt.Fprintf(w, "\n--- Record %d ---\n", i+1)
		fmt.Fprintf(w, "Record ID: %d\n", s.ID)
		fmt.Fprintf(w, "Function: %s\n", s.FuncName)
		if s.Docstring != "" {
			fmt.Fprintf(w, "Documentation: %s\n", s.Docstring)
		}
		if len(s.Tags) > 0 {
			fmt.Fprintf(w, "Tags: %s\n", strings.Join(s.Tags, ", "))
		}
		fmt.Fprintf(w, "Called at: %s\n", r.formatTime(s.CalledAt))
		fmt.Fprintf(w, "Duration: %.4fs\n", s.Duration)
		fmt.Fprintf(w, "Arguments: %s\n", formatCallArgs(s.Args, s.Kwargs))
		if s.Status == record.StatusSuccess {
			fmt.Fprintf(w, "Return value: %s\n", s.ReturnValue)
		} else {
			fmt.Fprintf(w, "Error: %s\n", s.Error)
		}
	}
}

// Detail writes the full record, section by section.
func (r *Renderer) Detail(w io.Writer, rec *record.Record) {
	fmt.Fprintf(w, "Record ID: %d\n", rec.ID)

	fmt.Fprintln(w, "\n=== Function ===")
	fmt.Fprintf(w, "Name: %s\n", rec.FuncName)
	if rec.ModulePath != "" {
		fmt.Fprintf(w, "Source file: %s\n", rec.ModulePath)
	}
	if rec.Docstring != "" {
		fmt.Fprintf(w, "Documentation: %s\n", rec.Docstring)
	}
	if rec.Source != "" {
		fmt.Fprintf(w, "\nSource:\n%s\n", rec.Source)
	}

	fmt.Fprintln(w, "\n=== Execution ===")
	fmt.Fprintf(w, "Called at: %s\n", r.formatTime(rec.CreatedAt))
	fmt.Fprintf(w, "Duration: %.4fs\n", rec.Duration)
	fmt.Fprintf(w, "Status: %s\n", rec.Status)
	fmt.Fprintf(w, "Arguments: %s\n", formatCallArgs(rec.Args, rec.Kwargs))

	if rec.Status == record.StatusSuccess {
		fmt.Fprintf(w, "Return value: %s\n", rec.ReturnValue)
	} else {
		fmt.Fprintln(w, "\n=== Error ===")
		fmt.Fprintf(w, "Type: %s\n", rec.ErrorType)
		fmt.Fprintf(w, "Message: %s\n", rec.ErrorMessage)
		if rec.ErrorCause != "" {
			fmt.Fprintf(w, "Cause: %s\n", rec.ErrorCause)
		}
		if rec.ErrorStack != "" {
			fmt.Fprintf(w, "\nStack:\n%s\n", rec.ErrorStack)
		}
	}

	if len(rec.Dependencies) > 0 {
		fmt.Fprintln(w, "\n=== Dependencies ===")
		for _, dep := range rec.Dependencies {
			fmt.Fprintf(w, "- %s\n", dep)
		}
	}

	if len(rec.Tags) > 0 {
		fmt.Fprintf(w, "\n=== Tags ===\n%s\n", strings.Join(rec.Tags, ", "))
	}
}

// FunctionInfo writes the wrap-time capture of one function: its source
// text, documentation and dependency list, taken from a single record.
func (r *Renderer) FunctionInfo(w io.Writer, rec *record.Record) {
	fmt.Fprintf(w, "=== Function info: %s ===\n", rec.FuncName)
	if rec.ModulePath != "" {
		fmt.Fprintf(w, "Source file: %s\n", rec.ModulePath)
	}
	if rec.Source != "" {
		fmt.Fprintf(w, "\nSource:\n%s\n", rec.Source)
	}
	if rec.Docstring != "" {
		fmt.Fprintf(w, "\nDocumentation:\n%s\n", rec.Docstring)
	}
	if len(rec.Dependencies) > 0 {
		fmt.Fprintln(w, "\nDependencies:")
		for _, dep := range rec.Dependencies {
			fmt.Fprintf(w, "- %s\n", dep)
		}
	}
}

// ErrorBreakdown writes the per-error-type aggregation, sorted by type name.
func (r *Renderer) ErrorBreakdown(w io.Writer, breakdown map[string]stats.ErrorTypeStats) {
	if len(breakdown) == 0 {
		fmt.Fprintln(w, "No error records.")
		return
	}

	fmt.Fprintln(w, "=== Error breakdown ===")
	keys := make([]string, 0, len(breakdown))
	for k := range breakdown {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, typ := range keys {
		st := breakdown[typ]
		fmt.Fprintf(w, "- %s: %d (avg %.4fs)\n", typ, st.Count, st.AvgDuration)
	}
}

// formatCallArgs joins the serialized positional and keyword arguments,
// hiding the empty placeholders.
func formatCallArgs(args, kwargs string) string {
	parts := []string{}
	if args != "" && args != "[]" {
		parts = append(parts, args)
	}
	if kwargs != "" && kwargs != "{}" {
		parts = append(parts, kwargs)
	}
	if len(parts) == 0 {
		return "(none)"
	}
	return strings.Join(parts, " ")
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
