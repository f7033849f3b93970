// Package export turns query results into report artifacts on disk.
//
// The gateway owns the binding contract: which data shape belongs to which
// export type, the deterministic file naming scheme, and the atomic write.
// Rendering is delegated to Exporter implementations (HTML by default, CSV
// and plain text as alternatives).
package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/funckeeper/internal/record"
	"github.com/roach88/funckeeper/internal/search"
	"github.com/roach88/funckeeper/internal/stats"
)

// Type selects what kind of report to produce.
type Type string

const (
	TypeDetail     Type = "detail"     // a single full record
	TypeStatistics Type = "statistics" // an aggregate
	TypeList       Type = "list"       // an ordered list of summaries
)

// Format selects the output markup.
type Format string

const (
	FormatHTML Format = "html"
	FormatCSV  Format = "csv"
	FormatText Format = "txt"
)

// ExportError reports an invalid export request: unknown type, unknown
// format, or data whose shape does not match the export type.
type ExportError struct {
	Type   Type
	Reason string
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %q: %s", e.Type, e.Reason)
}

// Exporter renders one of the three data shapes into a writer.
type Exporter interface {
	ExportDetail(w io.Writer, rec *record.Record) error
	ExportStatistics(w io.Writer, agg stats.Aggregate) error
	ExportList(w io.Writer, items []search.Summary) error
}

// Gateway writes report files with deterministic names.
type Gateway struct {
	// Format selects the exporter; zero value means HTML.
	Format Format

	// Loc controls timestamp display and the timestamp in file names.
	Loc *time.Location

	// Now overrides the wall clock, for tests.
	Now func() time.Time
}

// New creates a gateway producing files in the given format.
func New(format Format, loc *time.Location) *Gateway {
	return &Gateway{Format: format, Loc: loc}
}

// Export renders data and writes it under outputDir, creating the directory
// if needed. The file name is funckeeper_<type>_<timestamp>.<ext> with the
// timestamp to the second; collisions within one second are not
// disambiguated. Returns the path of the written file.
func (g *Gateway) Export(data any, typ Type, outputDir string) (string, error) {
	exporter, ext, err := g.exporter()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	switch typ {
	case TypeDetail:
		rec, ok := asRecord(data)
		if !ok {
			return "", &ExportError{Type: typ, Reason: fmt.Sprintf("expected a record, got %T", data)}
		}
		err = exporter.ExportDetail(&buf, rec)
	case TypeStatistics:
		agg, ok := asAggregate(data)
		if !ok {
			return "", &ExportError{Type: typ, Reason: fmt.Sprintf("expected a statistics aggregate, got %T", data)}
		}
		err = exporter.ExportStatistics(&buf, agg)
	case TypeList:
		items, ok := data.([]search.Summary)
		if !ok {
			return "", &ExportError{Type: typ, Reason: fmt.Sprintf("expected a summary list, got %T", data)}
		}
		err = exporter.ExportList(&buf, items)
	default:
		return "", &ExportError{Type: typ, Reason: "unknown export type"}
	}
	if err != nil {
		return "", fmt.Errorf("render %s export: %w", typ, err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	name := fmt.Sprintf("funckeeper_%s_%s.%s", typ, g.now().In(g.location()).Format("20060102_150405"), ext)
	path := filepath.Join(outputDir, name)

	// Write-then-rename so a crash mid-write never leaves a half report
	// under the final name.
	tmp := path + "." + uuid.NewString() + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("finalize export: %w", err)
	}

	return path, nil
}

func (g *Gateway) exporter() (Exporter, string, error) {
	format := g.Format
	if format == "" {
		format = FormatHTML
	}
	switch format {
	case FormatHTML:
		return &HTMLExporter{Loc: g.location()}, "html", nil
	case FormatCSV:
		return &CSVExporter{Loc: g.location()}, "csv", nil
	case FormatText:
		return &TextExporter{Loc: g.location()}, "txt", nil
	default:
		return nil, "", &ExportError{Reason: fmt.Sprintf("unknown format %q", format)}
	}
}

func (g *Gateway) location() *time.Location {
	if g.Loc == nil {
		return time.Local
	}
	return g.Loc
}

func (g *Gateway) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

func asRecord(data any) (*record.Record, bool) {
	switch v := data.(type) {
	case *record.Record:
		return v, v != nil
	case record.Record:
		return &v, true
	default:
		return nil, false
	}
}

func asAggregate(data any) (stats.Aggregate, bool) {
	switch v := data.(type) {
	case stats.Aggregate:
		return v, true
	case *stats.Aggregate:
		if v == nil {
			return stats.Aggregate{}, false
		}
		return *v, true
	default:
		return stats.Aggregate{}, false
	}
}
