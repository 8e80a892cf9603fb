// Package pdftest writes small single-page PDF reports for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Positioning selects how a text run is placed on the page.
type Positioning int

const (
	// Matrix places each run with a Tm text matrix, which keeps absolute
	// coordinates for every run.
	Matrix Positioning = iota
	// Offset places each run with a Td line offset.
	Offset
)

// Run is one piece of text at a page coordinate, in points from the
// bottom left corner.
type Run struct {
	X, Y float64
	Text string
}

// Build returns a one-page PDF showing runs in Helvetica 12.
func Build(pos Positioning, runs ...Run) []byte {
	var stream strings.Builder
	for _, r := range runs {
		place := fmt.Sprintf("1 0 0 1 %g %g Tm", r.X, r.Y)
		if pos == Offset {
			place = fmt.Sprintf("%g %g Td", r.X, r.Y)
		}
		fmt.Fprintf(&stream, "BT /F1 12 Tf %s (%s) Tj ET\n", place, escape(r.Text))
	}

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] " +
			"/Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", stream.Len(), stream.String()),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

// Write builds a PDF into dir/name and returns its path.
func Write(t *testing.T, dir, name string, pos Positioning, runs ...Run) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, Build(pos, runs...), 0o644))
	return path
}

// RingRoad is a report with a title line and a two-row figures table.
func RingRoad() []Run {
	return []Run{
		{X: 72, Y: 720, Text: "Project: Ring Road"},
		{X: 72, Y: 690, Text: "Physical Progress"},
		{X: 300, Y: 690, Text: "58.2%"},
		{X: 72, Y: 660, Text: "Planned Cost"},
		{X: 300, Y: 660, Text: "Rs. 1,200"},
	}
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
