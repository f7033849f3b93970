package export

import (
	"io"
	"time"

	"github.com/roach88/funckeeper/internal/record"
	"github.com/roach88/funckeeper/internal/report"
	"github.com/roach88/funckeeper/internal/search"
	"github.com/roach88/funckeeper/internal/stats"
)

// TextExporter renders reports as plain text, reusing the same renderer
// that backs the interactive output.
type TextExporter struct {
	Loc *time.Location
}

func (e *TextExporter) renderer() *report.Renderer {
	return &report.Renderer{Loc: e.Loc}
}

func (e *TextExporter) ExportDetail(w io.Writer, rec *record.Record) error {
	e.renderer().Detail(w, rec)
	return nil
}

func (e *TextExporter) ExportStatistics(w io.Writer, agg stats.Aggregate) error {
	e.renderer().Statistics(w, agg)
	return nil
}

func (e *TextExporter) ExportList(w io.Writer, items []search.Summary) error {
	e.renderer().Summaries(w, items)
	return nil
}
