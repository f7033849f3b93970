package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/funckeeper/internal/record"
	"github.com/roach88/funckeeper/internal/search"
	"github.com/roach88/funckeeper/internal/stats"
)

// CSVExporter renders reports as CSV tables.
type CSVExporter struct {
	Loc *time.Location
}

func (e *CSVExporter) formatTime(t time.Time) string {
	loc := e.Loc
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(exportTimeFormat)
}

func (e *CSVExporter) ExportDetail(w io.Writer, rec *record.Record) error {
	cw := csv.NewWriter(w)

	rows := [][]string{
		{"Field", "Value"},
		{"Record ID", strconv.FormatInt(rec.ID, 10)},
		{"Function", rec.FuncName},
		{"Source file", rec.ModulePath},
		{"Documentation", rec.Docstring},
		{"Tags", strings.Join(rec.Tags, ", ")},
		{"Status", string(rec.Status)},
		{"Called at", e.formatTime(rec.CreatedAt)},
		{"Duration", fmt.Sprintf("%.4fs", rec.Duration)},
		{"Arguments", rec.Args},
		{"Keyword arguments", rec.Kwargs},
	}
	if rec.Status == record.StatusSuccess {
		rows = append(rows, []string{"Return value", rec.ReturnValue})
	} else {
		rows = append(rows,
			[]string{"Error type", rec.ErrorType},
			[]string{"Error message", rec.ErrorMessage},
		)
		if rec.ErrorCause != "" {
			rows = append(rows, []string{"Error cause", rec.ErrorCause})
		}
	}

	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

func (e *CSVExporter) ExportStatistics(w io.Writer, agg stats.Aggregate) error {
	cw := csv.NewWriter(w)

	rows := [][]string{
		{"Total calls", "Success count", "Error count", "Success rate",
			"Average duration", "Min duration", "Max duration", "First call", "Last call"},
		{
			strconv.Itoa(agg.Total),
			strconv.Itoa(agg.Success),
			strconv.Itoa(agg.Errors),
			fmt.Sprintf("%.2f%%", agg.SuccessRate*100),
			fmt.Sprintf("%.4fs", agg.AvgDuration),
			fmt.Sprintf("%.4fs", agg.MinDuration),
			fmt.Sprintf("%.4fs", agg.MaxDuration),
			e.formatTime(agg.FirstCall),
			e.formatTime(agg.LastCall),
		},
	}

	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

func (e *CSVExporter) ExportList(w io.Writer, items []search.Summary) error {
	cw := csv.NewWriter(w)

	rows := [][]string{
		{"Record ID", "Function", "Documentation", "Called at", "Duration", "Arguments", "Result"},
	}
	for _, s := range items {
		result := s.ReturnValue
		if s.Status == record.StatusError {
			result = s.Error
		}
		rows = append(rows, []string{
			strconv.FormatInt(s.ID, 10),
			s.FuncName,
			s.Docstring,
			e.formatTime(s.CalledAt),
			fmt.Sprintf("%.4fs", s.Duration),
			s.Args,
			result,
		})
	}

	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}
