// Package export writes project records as JSON, CSV or XLSX.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/a3tai/infratrack/internal/extract"
)

// Format names an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatJSON, FormatCSV, FormatXLSX}
}

// ParseFormat accepts a format name in any case.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported export format: %q", s)
}

const (
	ColumnProjectID  = "project_id"
	ColumnStatusFlag = "status_flag"
	ColumnSourceFile = "source_file"
)

// Columns returns the output column order.
func Columns() []string {
	cols := []string{ColumnProjectID}
	for _, k := range extract.Fields() {
		cols = append(cols, string(k))
	}
	return append(cols, ColumnStatusFlag, ColumnSourceFile)
}

// Entry is one exported row.
type Entry struct {
	Record     extract.Record
	SourceFile string
}

// values returns the entry's cells in Columns order. Absent fields are nil.
func (e Entry) values() []any {
	rec := e.Record
	vals := []any{rec.ProjectID}
	for _, k := range extract.Fields() {
		vals = append(vals, rec.Get(k))
	}
	var source any
	if e.SourceFile != "" {
		source = e.SourceFile
	}
	return append(vals, rec.StatusFlag, source)
}

// Write encodes entries in the given format.
func Write(w io.Writer, format Format, entries []Entry) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, entries)
	case FormatCSV:
		return WriteCSV(w, entries)
	case FormatXLSX:
		return WriteXLSX(w, entries)
	default:
		return fmt.Errorf("unsupported export format: %q", format)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
