package export

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/roach88/funckeeper/internal/record"
	"github.com/roach88/funckeeper/internal/search"
	"github.com/roach88/funckeeper/internal/stats"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	detailTmpl = mustParse("detail.html.tmpl")
	statsTmpl  = mustParse("statistics.html.tmpl")
	listTmpl   = mustParse("list.html.tmpl")
)

func mustParse(name string) *template.Template {
	return template.Must(template.ParseFS(templateFS,
		"templates/layout.html.tmpl", "templates/"+name))
}

// HTMLExporter renders reports as standalone HTML documents.
type HTMLExporter struct {
	Loc *time.Location
}

const exportTimeFormat = "2006-01-02 15:04:05 MST"

func (e *HTMLExporter) formatTime(t time.Time) string {
	loc := e.Loc
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(exportTimeFormat)
}

type detailPage struct {
	Title     string
	Record    *record.Record
	IsSuccess bool
	CalledAt  string
	Duration  string
	Tags      string
}

func (e *HTMLExporter) ExportDetail(w io.Writer, rec *record.Record) error {
	page := detailPage{
		Title:     "Function execution detail",
		Record:    rec,
		IsSuccess: rec.Status == record.StatusSuccess,
		CalledAt:  e.formatTime(rec.CreatedAt),
		Duration:  fmt.Sprintf("%.4fs", rec.Duration),
		Tags:      strings.Join(rec.Tags, ", "),
	}
	return detailTmpl.ExecuteTemplate(w, "layout", page)
}

type errorTypeRow struct {
	Type  string
	Count int
}

type statsPage struct {
	Title       string
	Agg         stats.Aggregate
	SuccessRate string
	Avg         string
	Min         string
	Max         string
	First       string
	Last        string
	ErrorTypes  []errorTypeRow
}

func (e *HTMLExporter) ExportStatistics(w io.Writer, agg stats.Aggregate) error {
	page := statsPage{
		Title:       "Function statistics",
		Agg:         agg,
		SuccessRate: fmt.Sprintf("%.2f%%", agg.SuccessRate*100),
		Avg:         fmt.Sprintf("%.4fs", agg.AvgDuration),
		Min:         fmt.Sprintf("%.4fs", agg.MinDuration),
		Max:         fmt.Sprintf("%.4fs", agg.MaxDuration),
		First:       e.formatTime(agg.FirstCall),
		Last:        e.formatTime(agg.LastCall),
	}
	for _, typ := range sortedErrorTypes(agg.ErrorTypes) {
		page.ErrorTypes = append(page.ErrorTypes, errorTypeRow{Type: typ, Count: agg.ErrorTypes[typ]})
	}
	return statsTmpl.ExecuteTemplate(w, "layout", page)
}

type listItem struct {
	search.Summary
	Index     int
	IsSuccess bool
	CalledAt  string
	Elapsed   string
}

type listPage struct {
	Title string
	Items []listItem
}

func (e *HTMLExporter) ExportList(w io.Writer, items []search.Summary) error {
	page := listPage{Title: "Function execution list"}
	for i, s := range items {
		page.Items = append(page.Items, listItem{
			Summary:   s,
			Index:     i + 1,
			IsSuccess: s.Status == record.StatusSuccess,
			CalledAt:  e.formatTime(s.CalledAt),
			Elapsed:   fmt.Sprintf("%.4fs", s.Duration),
		})
	}
	return listTmpl.ExecuteTemplate(w, "layout", page)
}

func sortedErrorTypes(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
