package extract

import (
	"strings"

	"github.com/a3tai/infratrack/internal/document"
)

// TableRule binds a row label substring to the field it fills. A nil
// Normalize parses percent fields with ParsePercentage and the rest with
// ParseCurrency.
type TableRule struct {
	Label     string
	Field     FieldKey
	Normalize Normalizer
}

// DefaultTableRules returns the label rules for the numeric fields, in the
// order they are tried against each row.
func DefaultTableRules() []TableRule {
	rules := []TableRule{
		{Label: "Physical Progress", Field: FieldPhysicalProgress},
		{Label: "Financial Progress", Field: FieldFinancialProgress},
		{Label: "Planned Cost", Field: FieldPlannedCost},
		{Label: "Expenditure", Field: FieldExpenditureTillNow},
	}
	for i := range rules {
		rules[i].Normalize = normalizerFor(rules[i].Field)
	}
	return rules
}

// normalize falls back to the field's own normalizer when the rule sets
// none.
func (r TableRule) normalize(raw string) (float64, bool) {
	if r.Normalize == nil {
		return normalizerFor(r.Field)(raw)
	}
	return r.Normalize(raw)
}

// emptyTokens are cell values that stand for "no value".
var emptyTokens = map[string]bool{
	"-":   true,
	"":    true,
	"NA":  true,
	"N/A": true,
}

// scanTables fills numeric fields from labeled table rows. Tables and rows
// are visited in document order and a filled field is never overwritten,
// so the first matching row wins.
func scanTables(b *builder, tables []document.Table, rules []TableRule) {
	for _, table := range tables {
		for _, row := range table {
			if len(row) < 2 {
				continue
			}
			label, _ := row.Value(0)
			label = strings.ToLower(strings.TrimSpace(label))

			for _, rule := range rules {
				if b.filled(rule.Field) || !strings.Contains(label, strings.ToLower(rule.Label)) {
					continue
				}
				raw, ok := firstValue(row)
				if !ok {
					continue
				}
				if v, ok := rule.normalize(raw); ok {
					b.setNumber(rule.Field, v)
				}
			}
		}
	}
}

// firstValue returns the first cell after the label that is not a
// placeholder.
func firstValue(row document.Row) (string, bool) {
	for i := 1; i < len(row); i++ {
		v, ok := row.Value(i)
		if !ok || emptyTokens[strings.TrimSpace(v)] {
			continue
		}
		return v, true
	}
	return "", false
}

// ScanTables runs the table stage alone and returns the partial record.
func ScanTables(tables []document.Table, rules []TableRule) Record {
	var b builder
	scanTables(&b, tables, rules)
	return b.rec
}
