package document

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

const (
	// defaultCellGap is the horizontal gap, in points, that separates two
	// cells of the same row.
	defaultCellGap = 12.0

	// wordGapRatio of the font size separates two words of the same cell.
	wordGapRatio    = 0.2
	defaultFontSize = 12.0
)

// PDFDecoder reads page text and table grids from a PDF file.
type PDFDecoder struct {
	maxFileSize int64
	cellGap     float64
}

// NewPDFDecoder creates a PDF decoder with the given size limit.
func NewPDFDecoder(maxFileSize int64) *PDFDecoder {
	return &PDFDecoder{
		maxFileSize: maxFileSize,
		cellGap:     defaultCellGap,
	}
}

// Decode implements Decoder. Pages are read in order; a page that fails to
// decode is skipped rather than failing the document.
func (d *PDFDecoder) Decode(ctx context.Context, path string) (*Content, error) {
	info, err := statInput(path, d.maxFileSize)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(extensionOf(info.Name()), ExtPDF) {
		return nil, fmt.Errorf("%w: file is not a PDF: %s", ErrDecodeFailed, path)
	}

	if err := preflight(path); err != nil {
		return nil, err
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open PDF: %v", ErrDecodeFailed, err)
	}
	defer f.Close()

	var (
		text   strings.Builder
		tables []Table
	)
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, ok := d.readPage(reader, pageNum)
		if !ok {
			continue
		}
		text.WriteString(page.text)
		tables = append(tables, assembleTables(page.rows)...)
	}

	content := &Content{Text: text.String(), Tables: tables}
	if content.IsEmpty() {
		return nil, ErrNoContent
	}
	return content, nil
}

// preflight rejects files pdfcpu cannot make sense of even in relaxed mode.
func preflight(path string) error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.ValidateFile(path, conf); err != nil {
		return fmt.Errorf("%w: invalid PDF file: %v", ErrDecodeFailed, err)
	}
	if n, err := api.PageCountFile(path); err != nil || n == 0 {
		return fmt.Errorf("%w: PDF has no pages: %s", ErrDecodeFailed, path)
	}
	return nil
}

// pageContent is what one page contributes to a document.
type pageContent struct {
	text string
	rows [][]string
}

// readPage returns the page text, one line per row, and its rows of cells
// top to bottom. Text placed with Td instead of Tm carries no coordinates
// in GetTextByRow; such a page falls back to the plain text stream and
// yields no rows.
func (d *PDFDecoder) readPage(reader *pdf.Reader, pageNum int) (content pageContent, ok bool) {
	defer func() {
		// Malformed content streams panic inside the parser.
		if recover() != nil {
			content, ok = pageContent{}, false
		}
	}()

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return pageContent{}, false
	}

	byRow, err := page.GetTextByRow()
	if err != nil {
		return pageContent{}, false
	}

	if !positioned(byRow) {
		plain, err := page.GetPlainText(nil)
		if err != nil {
			return pageContent{}, false
		}
		if plain != "" && !strings.HasSuffix(plain, "\n") {
			plain += "\n"
		}
		return pageContent{text: plain}, true
	}

	sort.SliceStable(byRow, func(i, j int) bool {
		return byRow[i].Position > byRow[j].Position
	})

	var text strings.Builder
	for _, r := range byRow {
		runs := make([]textRun, 0, len(r.Content))
		for _, t := range r.Content {
			runs = append(runs, textRun{X: t.X, W: t.W, FontSize: t.FontSize, S: t.S})
		}
		cells := splitCells(runs, d.cellGap)
		if len(cells) == 0 {
			continue
		}
		content.rows = append(content.rows, cells)
		text.WriteString(strings.Join(cells, " "))
		text.WriteByte('\n')
	}
	content.text = text.String()
	return content, true
}

// positioned reports whether any text run on the page has a coordinate.
// An empty page counts as positioned.
func positioned(rows pdf.Rows) bool {
	if len(rows) == 0 {
		return true
	}
	for _, r := range rows {
		for _, t := range r.Content {
			if t.X != 0 || t.Y != 0 {
				return true
			}
		}
	}
	return false
}

// textRun is one positioned piece of text on a row.
type textRun struct {
	X, W     float64
	FontSize float64
	S        string
}

// splitCells joins the runs of one row into cells, starting a new cell
// wherever the gap to the previous run exceeds cellGap.
func splitCells(runs []textRun, cellGap float64) []string {
	if len(runs) == 0 {
		return nil
	}
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].X < runs[j].X })

	var (
		cells   []string
		current strings.Builder
		prevEnd float64
	)
	flush := func() {
		if cell := strings.TrimSpace(current.String()); cell != "" {
			cells = append(cells, cell)
		}
		current.Reset()
	}

	for i, r := range runs {
		if i > 0 {
			gap := r.X - prevEnd
			switch {
			case gap > cellGap:
				flush()
			case gap > wordGap(r.FontSize):
				current.WriteByte(' ')
			}
		}
		current.WriteString(r.S)
		prevEnd = r.X + r.W
	}
	flush()
	return cells
}

func wordGap(fontSize float64) float64 {
	if fontSize <= 0 {
		fontSize = defaultFontSize
	}
	return fontSize * wordGapRatio
}

// assembleTables groups consecutive multi-cell rows into tables. A row with
// a single cell is treated as prose and ends the current table.
func assembleTables(rows [][]string) []Table {
	var (
		tables  []Table
		current Table
	)
	for _, cells := range rows {
		if len(cells) < 2 {
			if len(current) > 0 {
				tables = append(tables, current)
				current = nil
			}
			continue
		}
		current = append(current, NewRow(cells...))
	}
	if len(current) > 0 {
		tables = append(tables, current)
	}
	return tables
}
