package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/infratrack/internal/document"
)

func TestScanTables_SimpleParameterTable(t *testing.T) {
	tables := []document.Table{{
		document.NewRow("Parameter", "Value", "Unit"),
		document.NewRow("Physical Progress", "45.5", "%"),
		document.NewRow("Financial Progress", "42.0", "%"),
		document.NewRow("Planned Cost", "1500.00", "Rs. Crore"),
		document.NewRow("Expenditure Till Date", "750.00", "Rs. Crore"),
		document.NewRow("Delay Status", "Moderate", "-"),
	}}

	rec := ScanTables(tables, DefaultTableRules())

	require.NotNil(t, rec.PhysicalProgress)
	require.NotNil(t, rec.FinancialProgress)
	require.NotNil(t, rec.PlannedCost)
	require.NotNil(t, rec.Expenditure)
	assert.Equal(t, 45.5, *rec.PhysicalProgress)
	assert.Equal(t, 42.0, *rec.FinancialProgress)
	assert.Equal(t, 1500.0, *rec.PlannedCost)
	assert.Equal(t, 750.0, *rec.Expenditure)
}

func TestScanTables_FirstMatchingRowWins(t *testing.T) {
	tables := []document.Table{
		{
			document.NewRow("Overall Physical Progress", "-", "58.2%", "On Track"),
		},
		{
			document.NewRow("Component", "Weightage", "Physical Progress (%)", "Remarks"),
			document.NewRow("Physical Progress (Civil)", "40%", "42.5%", "Delayed"),
		},
	}

	rec := ScanTables(tables, DefaultTableRules())

	require.NotNil(t, rec.PhysicalProgress)
	assert.Equal(t, 58.2, *rec.PhysicalProgress)
}

func TestScanTables_SkipsPlaceholderCells(t *testing.T) {
	tables := []document.Table{{
		{document.Str("Planned Cost"), nil, document.Str(" - "), document.Str("NA"), document.Str("Rs. 900")},
	}}

	rec := ScanTables(tables, DefaultTableRules())

	require.NotNil(t, rec.PlannedCost)
	assert.Equal(t, 900.0, *rec.PlannedCost)
}

func TestScanTables_AllPlaceholdersLeaveFieldEmpty(t *testing.T) {
	tables := []document.Table{{
		document.NewRow("Physical Progress", "-", "NA"),
		document.NewRow("Expenditure", "N/A", ""),
	}}

	rec := ScanTables(tables, DefaultTableRules())

	assert.Nil(t, rec.PhysicalProgress)
	assert.Nil(t, rec.Expenditure)
}

func TestScanTables_UnparsableValueLetsLaterRowFill(t *testing.T) {
	tables := []document.Table{{
		document.NewRow("Planned Cost", "to be revised"),
		document.NewRow("Planned Cost (Revised)", "Rs. 1,200 Crore"),
	}}

	rec := ScanTables(tables, DefaultTableRules())

	require.NotNil(t, rec.PlannedCost)
	assert.Equal(t, 1200.0, *rec.PlannedCost)
}

func TestScanTables_IgnoresUnrelatedAndShortRows(t *testing.T) {
	tables := []document.Table{
		{
			document.NewRow("Department", "Headcount", "Attendance %"),
			document.NewRow("Civil Eng", "45", "92%"),
		},
		{
			document.NewRow("Physical Progress"),
			{nil, document.Str("30%")},
			{},
		},
	}

	rec := ScanTables(tables, DefaultTableRules())

	assert.Equal(t, 0, rec.FilledCount())
}

func TestScanTables_LabelMatchIsCaseInsensitive(t *testing.T) {
	tables := []document.Table{{
		document.NewRow("  FINANCIAL PROGRESS  ", "61%"),
	}}

	rec := ScanTables(tables, DefaultTableRules())

	require.NotNil(t, rec.FinancialProgress)
	assert.Equal(t, 61.0, *rec.FinancialProgress)
}

func TestScanTables_CustomRules(t *testing.T) {
	rules := []TableRule{
		{Label: "Sanctioned Cost", Field: FieldPlannedCost, Normalize: ParseCurrency},
	}
	tables := []document.Table{{
		document.NewRow("Planned Cost", "100"),
		document.NewRow("Sanctioned Cost", "Rs. 250"),
	}}

	rec := ScanTables(tables, rules)

	require.NotNil(t, rec.PlannedCost)
	assert.Equal(t, 250.0, *rec.PlannedCost)
}
