package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes a header row and one row per entry. Absent fields are
// empty cells.
func WriteCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns()); err != nil {
		return fmt.Errorf("csv header: %w", err)
	}
	for _, e := range entries {
		if err := cw.Write(csvRecord(e)); err != nil {
			return fmt.Errorf("csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csv flush: %w", err)
	}
	return nil
}

func csvRecord(e Entry) []string {
	vals := e.values()
	out := make([]string, len(vals))
	for i, v := range vals {
		switch x := v.(type) {
		case nil:
		case float64:
			out[i] = formatFloat(x)
		case string:
			out[i] = x
		default:
			out[i] = fmt.Sprint(x)
		}
	}
	return out
}
