// Package document holds the decoded form of a progress report (page text
// plus table grids) and the decoders that produce it.
package document

import (
	"errors"
	"strings"
)

var (
	// ErrDecodeFailed marks a document that could not be turned into text
	// and tables at all.
	ErrDecodeFailed = errors.New("document could not be decoded")

	// ErrNoContent is returned when decoding succeeded but yielded neither
	// text nor tables. It wraps ErrDecodeFailed.
	ErrNoContent = &noContentError{}
)

type noContentError struct{}

func (e *noContentError) Error() string { return "document has no extractable content" }
func (e *noContentError) Unwrap() error { return ErrDecodeFailed }

// Cell is a single table cell. A nil Cell is a cell the decoder could not
// fill, which is distinct from an empty string.
type Cell = *string

// Row is an ordered sequence of cells. Rows in the same table may have
// different lengths.
type Row []Cell

// Table is an ordered sequence of rows with no assumed header.
type Table []Row

// Content is everything the field extractor sees of one document.
type Content struct {
	// Text is the concatenated page text in page order, newline separated.
	Text string `json:"text"`
	// Tables are all table grids found in the document, in document order.
	Tables []Table `json:"tables"`
}

// IsEmpty reports whether the content carries neither text nor tables.
func (c Content) IsEmpty() bool {
	return strings.TrimSpace(c.Text) == "" && len(c.Tables) == 0
}

// Str returns a Cell holding s.
func Str(s string) Cell {
	return &s
}

// NewRow builds a row of non-nil cells.
func NewRow(cells ...string) Row {
	row := make(Row, len(cells))
	for i, c := range cells {
		row[i] = Str(c)
	}
	return row
}

// Value returns the cell text and whether the cell was present.
func (r Row) Value(i int) (string, bool) {
	if i < 0 || i >= len(r) || r[i] == nil {
		return "", false
	}
	return *r[i], true
}
