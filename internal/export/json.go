package export

import (
	"encoding/json"
	"fmt"
	"io"
)

// jsonRow fixes the key order of an exported object.
type jsonRow struct {
	ProjectID         string   `json:"project_id"`
	ProjectName       *string  `json:"project_name"`
	Sector            *string  `json:"sector"`
	ReportMonth       *string  `json:"report_month"`
	State             *string  `json:"state"`
	District          *string  `json:"district"`
	PhysicalProgress  *float64 `json:"physical_progress_percent"`
	FinancialProgress *float64 `json:"financial_progress_percent"`
	PlannedCost       *float64 `json:"planned_cost_crore"`
	Expenditure       *float64 `json:"expenditure_till_date_crore"`
	StatusFlag        string   `json:"status_flag"`
	SourceFile        *string  `json:"source_file"`
}

func newJSONRow(e Entry) jsonRow {
	r := e.Record
	row := jsonRow{
		ProjectID:         r.ProjectID,
		ProjectName:       r.ProjectName,
		Sector:            r.Sector,
		ReportMonth:       r.ReportMonth,
		State:             r.State,
		District:          r.District,
		PhysicalProgress:  r.PhysicalProgress,
		FinancialProgress: r.FinancialProgress,
		PlannedCost:       r.PlannedCost,
		Expenditure:       r.Expenditure,
		StatusFlag:        r.StatusFlag,
	}
	if e.SourceFile != "" {
		source := e.SourceFile
		row.SourceFile = &source
	}
	return row
}

// MarshalEntry returns one entry as an indented JSON object.
func MarshalEntry(e Entry) ([]byte, error) {
	return json.MarshalIndent(newJSONRow(e), "", "  ")
}

// MarshalEntries returns entries as an indented JSON array.
func MarshalEntries(entries []Entry) ([]byte, error) {
	rows := make([]jsonRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, newJSONRow(e))
	}
	return json.MarshalIndent(rows, "", "  ")
}

// WriteJSON writes a single entry as an object and anything else as an
// array, indented, with absent fields as null.
func WriteJSON(w io.Writer, entries []Entry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	var v any
	if len(entries) == 1 {
		v = newJSONRow(entries[0])
	} else {
		rows := make([]jsonRow, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, newJSONRow(e))
		}
		v = rows
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json write: %w", err)
	}
	return nil
}
