package extract

import (
	"regexp"
	"strings"
)

// NarrativeRule recovers one field from the document text. Pattern must
// have exactly one capture group holding the raw value; only the first
// match in the text is used. A rule without a Pattern never matches.
type NarrativeRule struct {
	Field   FieldKey
	Pattern *regexp.Regexp

	// StopAtLabel drops a trailing captured word that is immediately
	// followed by a colon, the next label on the same line.
	StopAtLabel bool

	// Normalize parses numeric fields. When nil, numeric fields use the
	// normalizer their name implies. Ignored for text fields.
	Normalize Normalizer
}

// DefaultNarrativeRules returns the text patterns for every field.
//
// The numeric patterns run from the label to the nearest following
// percentage or amount, across line breaks. When a label occurs more than
// once, or an unrelated number sits between a label and its value, they
// capture the wrong number.
func DefaultNarrativeRules() []NarrativeRule {
	return []NarrativeRule{
		{Field: FieldProjectName, Pattern: regexp.MustCompile(`(?i)(?:Project Name|Project)\s*:\s*(.+)`)},
		{Field: FieldSector, Pattern: regexp.MustCompile(`(?i)Sector\s*:\s*(.+)`)},
		{Field: FieldReportMonth, Pattern: regexp.MustCompile(`(?i)(?:Report Month|Date)\s*:\s*(.+)`)},
		{Field: FieldState, Pattern: regexp.MustCompile(`(?i)State\s*:\s*([a-z][a-z \t]*)`), StopAtLabel: true},
		{Field: FieldDistrict, Pattern: regexp.MustCompile(`(?i)District\s*:\s*([a-z][a-z \t]*)`), StopAtLabel: true},
		{
			Field:     FieldPhysicalProgress,
			Pattern:   regexp.MustCompile(`(?is)Physical Progress.*?(\d+(?:\.\d+)?)%`),
			Normalize: ParsePercentage,
		},
		{
			Field:     FieldFinancialProgress,
			Pattern:   regexp.MustCompile(`(?is)Financial Progress.*?(\d+(?:\.\d+)?)%`),
			Normalize: ParsePercentage,
		},
		{
			Field:     FieldPlannedCost,
			Pattern:   regexp.MustCompile(`(?is)Planned Cost.*?(?:Rs\.?|INR)\s*([\d.,]+)`),
			Normalize: ParseCurrency,
		},
		{
			Field:     FieldExpenditureTillNow,
			Pattern:   regexp.MustCompile(`(?is)Expenditure.*?(?:Rs\.?|INR)\s*([\d.,]+)`),
			Normalize: ParseCurrency,
		},
	}
}

// scanNarrative fills the fields still unset after the table stage.
func scanNarrative(b *builder, text string, rules []NarrativeRule) {
	if text == "" {
		return
	}
	for _, rule := range rules {
		if b.filled(rule.Field) {
			continue
		}
		raw, ok := rule.capture(text)
		if !ok {
			continue
		}
		if rule.Field.IsNumeric() {
			norm := rule.Normalize
			if norm == nil {
				norm = normalizerFor(rule.Field)
			}
			if v, ok := norm(raw); ok {
				b.setNumber(rule.Field, v)
			}
			continue
		}
		b.setText(rule.Field, raw)
	}
}

func (r NarrativeRule) capture(text string) (string, bool) {
	if r.Pattern == nil {
		return "", false
	}
	loc := r.Pattern.FindStringSubmatchIndex(text)
	if len(loc) < 4 || loc[2] < 0 {
		return "", false
	}
	raw := text[loc[2]:loc[3]]
	if r.StopAtLabel && loc[3] < len(text) && text[loc[3]] == ':' {
		raw = dropLastWord(raw)
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

func dropLastWord(s string) string {
	s = strings.TrimRight(s, " \t")
	if i := strings.LastIndexAny(s, " \t"); i >= 0 {
		return s[:i]
	}
	return ""
}

// ScanNarrative runs the narrative stage alone and returns the partial
// record.
func ScanNarrative(text string, rules []NarrativeRule) Record {
	var b builder
	scanNarrative(&b, text, rules)
	return b.rec
}
