package extract

import "strings"

// FieldKey names one value slot of a Record.
type FieldKey string

const (
	FieldProjectName        FieldKey = "project_name"
	FieldSector             FieldKey = "sector"
	FieldReportMonth        FieldKey = "report_month"
	FieldState              FieldKey = "state"
	FieldDistrict           FieldKey = "district"
	FieldPhysicalProgress   FieldKey = "physical_progress_percent"
	FieldFinancialProgress  FieldKey = "financial_progress_percent"
	FieldPlannedCost        FieldKey = "planned_cost_crore"
	FieldExpenditureTillNow FieldKey = "expenditure_till_date_crore"
)

// Fields returns every FieldKey in record order.
func Fields() []FieldKey {
	return []FieldKey{
		FieldProjectName,
		FieldSector,
		FieldReportMonth,
		FieldState,
		FieldDistrict,
		FieldPhysicalProgress,
		FieldFinancialProgress,
		FieldPlannedCost,
		FieldExpenditureTillNow,
	}
}

// IsPercent reports whether the field holds a percentage.
func (k FieldKey) IsPercent() bool {
	return strings.HasSuffix(string(k), "percent")
}

// IsNumeric reports whether the field holds a number rather than text.
func (k FieldKey) IsNumeric() bool {
	switch k {
	case FieldPhysicalProgress, FieldFinancialProgress, FieldPlannedCost, FieldExpenditureTillNow:
		return true
	}
	return false
}

// Status flag values.
const (
	StatusOnTrack     = "ON_TRACK"
	StatusDelayed     = "DELAYED"
	StatusCostOverrun = "COST_OVERRUN"

	statusSeparator = " | "
)

// Record is the structured result of one extraction. Source fields are nil
// when no strategy found them; ProjectID and StatusFlag are always set.
type Record struct {
	ProjectName       *string  `json:"project_name"`
	Sector            *string  `json:"sector"`
	ReportMonth       *string  `json:"report_month"`
	State             *string  `json:"state"`
	District          *string  `json:"district"`
	PhysicalProgress  *float64 `json:"physical_progress_percent"`
	FinancialProgress *float64 `json:"financial_progress_percent"`
	PlannedCost       *float64 `json:"planned_cost_crore"`
	Expenditure       *float64 `json:"expenditure_till_date_crore"`

	ProjectID  string `json:"project_id"`
	StatusFlag string `json:"status_flag"`
}

// Text returns a text field value.
func (r *Record) Text(k FieldKey) (string, bool) {
	slot := r.textSlot(k)
	if slot == nil || *slot == nil {
		return "", false
	}
	return **slot, true
}

// Number returns a numeric field value.
func (r *Record) Number(k FieldKey) (float64, bool) {
	slot := r.numberSlot(k)
	if slot == nil || *slot == nil {
		return 0, false
	}
	return **slot, true
}

// Get returns the value of k as a string or float64, or nil when absent.
func (r *Record) Get(k FieldKey) any {
	if k.IsNumeric() {
		if v, ok := r.Number(k); ok {
			return v
		}
		return nil
	}
	if v, ok := r.Text(k); ok {
		return v
	}
	return nil
}

// Has reports whether k is filled.
func (r *Record) Has(k FieldKey) bool {
	return r.Get(k) != nil
}

// FilledCount returns how many source fields are filled.
func (r *Record) FilledCount() int {
	n := 0
	for _, k := range Fields() {
		if r.Has(k) {
			n++
		}
	}
	return n
}

func (r *Record) textSlot(k FieldKey) **string {
	switch k {
	case FieldProjectName:
		return &r.ProjectName
	case FieldSector:
		return &r.Sector
	case FieldReportMonth:
		return &r.ReportMonth
	case FieldState:
		return &r.State
	case FieldDistrict:
		return &r.District
	}
	return nil
}

func (r *Record) numberSlot(k FieldKey) **float64 {
	switch k {
	case FieldPhysicalProgress:
		return &r.PhysicalProgress
	case FieldFinancialProgress:
		return &r.FinancialProgress
	case FieldPlannedCost:
		return &r.PlannedCost
	case FieldExpenditureTillNow:
		return &r.Expenditure
	}
	return nil
}

// builder is the working record threaded through the extraction stages.
// Every slot is written at most once.
type builder struct {
	rec Record
}

func (b *builder) filled(k FieldKey) bool {
	return b.rec.Has(k)
}

func (b *builder) setText(k FieldKey, v string) bool {
	slot := b.rec.textSlot(k)
	if slot == nil || *slot != nil {
		return false
	}
	*slot = &v
	return true
}

func (b *builder) setNumber(k FieldKey, v float64) bool {
	slot := b.rec.numberSlot(k)
	if slot == nil || *slot != nil {
		return false
	}
	*slot = &v
	return true
}
