// Package extract turns decoded report content into a project record.
//
// Numeric fields are read from labeled table rows first and from the
// narrative text only when no table row supplied them. Text fields come
// from the narrative text alone. Every field is filled at most once and a
// missing or unparsable value leaves the field empty; extraction never
// fails.
package extract

import (
	"time"

	"github.com/a3tai/infratrack/internal/document"
)

// Extractor runs the extraction pipeline. It holds only immutable rules
// and is safe for concurrent use.
type Extractor struct {
	tableRules     []TableRule
	narrativeRules []NarrativeRule
	now            func() time.Time
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithTableRules replaces the table label rules.
func WithTableRules(rules []TableRule) Option {
	return func(e *Extractor) {
		e.tableRules = append([]TableRule(nil), rules...)
	}
}

// WithNarrativeRules replaces the narrative text rules.
func WithNarrativeRules(rules []NarrativeRule) Option {
	return func(e *Extractor) {
		e.narrativeRules = append([]NarrativeRule(nil), rules...)
	}
}

// WithClock sets the clock used for the fallback project id.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		e.now = now
	}
}

// New creates an Extractor with the default rules.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		tableRules:     DefaultTableRules(),
		narrativeRules: DefaultNarrativeRules(),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract builds the record for one document.
func (e *Extractor) Extract(doc document.Content) Record {
	var b builder

	scanTables(&b, doc.Tables, e.tableRules)
	scanNarrative(&b, doc.Text, e.narrativeRules)

	rec := b.rec
	rec.ProjectID = ProjectID(rec.ProjectName, e.now)
	rec.StatusFlag = StatusFlag(rec.PhysicalProgress, rec.Expenditure, rec.PlannedCost)
	return rec
}
