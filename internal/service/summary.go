package service

import (
	"fmt"

	"github.com/a3tai/infratrack/internal/extract"
)

// Completeness values.
const (
	CompletenessEmpty    = "empty"
	CompletenessPartial  = "partial"
	CompletenessComplete = "complete"
)

// Completeness tells a record with no source fields apart from partial and
// complete ones.
func Completeness(rec extract.Record) string {
	switch n := rec.FilledCount(); {
	case n == 0:
		return CompletenessEmpty
	case n == len(extract.Fields()):
		return CompletenessComplete
	default:
		return CompletenessPartial
	}
}

// Summary is a one-line description of a record.
func Summary(rec extract.Record) string {
	name := "(unnamed project)"
	if v, ok := rec.Text(extract.FieldProjectName); ok {
		name = v
	}
	if Completeness(rec) == CompletenessEmpty {
		return fmt.Sprintf("%s %s: no data extracted", rec.ProjectID, name)
	}
	return fmt.Sprintf("%s %s: %d/%d fields (%s), status %s",
		rec.ProjectID, name, rec.FilledCount(), len(extract.Fields()), Completeness(rec), rec.StatusFlag)
}

// Missing lists the source fields a record lacks, in field order.
func Missing(rec extract.Record) []extract.FieldKey {
	var missing []extract.FieldKey
	for _, k := range extract.Fields() {
		if !rec.Has(k) {
			missing = append(missing, k)
		}
	}
	return missing
}
