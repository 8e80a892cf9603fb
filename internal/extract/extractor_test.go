package extract

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/infratrack/internal/document"
)

const complexReportText = `MINISTRY OF INFRASTRUCTURE DEVELOPMENT
MONTHLY PROGRESS MONITORING REPORT
Date: February 14, 2024
Project: Metro Rail Corridor Phase-II (Green Line)
Zone: North-Central Region
1. Executive Summary
The Metro Rail Corridor Phase-II project is a critical infrastructure initiative aimed at decongesting the northern districts.
1.1 Project Identification
Project Name : Metro Rail Corridor Phase-II
Project ID : MRC-PH2-2024-001
Sector : Urban Transport / Rail
State : Karnataka
District : Bengaluru Urban
Report Month : February 2024
1.2 Financial Overview
The total Planned Cost for this project was revised to Rs. 12,500 Crore following the approval of the supplementary budget.
As of this month, the cumulative Expenditure stands at Rs. 4,200.50 Crore.
1.3 Team Attendance (Last Month)
Department Headcount Attendance %
Civil Eng 45 92%
2. Detailed Physical Progress
Component Weightage Physical Progress (%) Remarks
Land Acquisition 20% 95.0% Almost Complete
Overall Physical Progress - 58.2% On Track
`

func complexReport() document.Content {
	return document.Content{
		Text: complexReportText,
		Tables: []document.Table{
			{
				document.NewRow("Project Name", ": Metro Rail Corridor Phase-II"),
				document.NewRow("Project ID", ": MRC-PH2-2024-001"),
				document.NewRow("Sector", ": Urban Transport / Rail"),
			},
			{
				document.NewRow("Department", "Headcount", "Attendance %"),
				document.NewRow("Civil Eng", "45", "92%"),
				document.NewRow("Electrical", "30", "88%"),
			},
			{
				document.NewRow("Component", "Weightage", "Physical Progress (%)", "Remarks"),
				document.NewRow("Land Acquisition", "20%", "95.0%", "Almost Complete"),
				document.NewRow("Civil Works (Viaduct)", "40%", "42.5%", "Delayed due to rain"),
				document.NewRow("Overall Physical Progress", "-", "58.2%", "On Track"),
			},
		},
	}
}

func TestExtract_ComplexReport(t *testing.T) {
	rec := New(WithClock(fixedClock(1))).Extract(complexReport())

	assertText(t, "Metro Rail Corridor Phase-II (Green Line)", rec.ProjectName)
	assertText(t, "Urban Transport / Rail", rec.Sector)
	assertText(t, "February 14, 2024", rec.ReportMonth)
	assertText(t, "Karnataka", rec.State)
	assertText(t, "Bengaluru Urban", rec.District)
	assertNumber(t, 58.2, rec.PhysicalProgress)
	assertNumber(t, 12500, rec.PlannedCost)
	assertNumber(t, 4200.5, rec.Expenditure)
	assert.Nil(t, rec.FinancialProgress)

	assert.Equal(t, "PROJ-739308", rec.ProjectID)
	assert.Equal(t, StatusOnTrack, rec.StatusFlag)
}

func TestExtract_SimpleReportIsDelayed(t *testing.T) {
	doc := document.Content{
		Text: sampleOverview,
		Tables: []document.Table{{
			document.NewRow("Parameter", "Value", "Unit"),
			document.NewRow("Physical Progress", "45.5", "%"),
			document.NewRow("Financial Progress", "42.0", "%"),
			document.NewRow("Planned Cost", "1500.00", "Rs. Crore"),
			document.NewRow("Expenditure Till Date", "750.00", "Rs. Crore"),
		}},
	}

	rec := New().Extract(doc)

	assert.Equal(t, 9, rec.FilledCount())
	assert.Equal(t, "PROJ-27BA22", rec.ProjectID)
	assert.Equal(t, StatusDelayed, rec.StatusFlag)
}

func TestExtract_TableTakesPrecedenceOverText(t *testing.T) {
	doc := document.Content{
		Text: "Physical Progress as reported by the contractor is 99%.",
		Tables: []document.Table{{
			document.NewRow("Physical Progress", "58.2%"),
		}},
	}

	rec := New().Extract(doc)

	assertNumber(t, 58.2, rec.PhysicalProgress)
}

func TestExtract_TextFillsWhatTablesMiss(t *testing.T) {
	doc := document.Content{
		Text: "Planned Cost is Rs. 12,500 Crore and Expenditure is Rs. 4,200.50 Crore.",
		Tables: []document.Table{{
			document.NewRow("Planned Cost", "-", "NA"),
		}},
	}

	rec := New().Extract(doc)

	assertNumber(t, 12500, rec.PlannedCost)
	assertNumber(t, 4200.5, rec.Expenditure)
	assert.Equal(t, StatusOnTrack, rec.StatusFlag)
}

func TestExtract_WithoutTablesNarrativePicksNearestPercentage(t *testing.T) {
	doc := complexReport()
	doc.Tables = nil

	rec := New().Extract(doc)

	// The first label is the section heading; the nearest percentage after
	// it is the weightage column of the first component.
	assertNumber(t, 20, rec.PhysicalProgress)
	assert.Equal(t, StatusDelayed, rec.StatusFlag)
}

func TestExtract_CostOverrun(t *testing.T) {
	doc := document.Content{
		Tables: []document.Table{{
			document.NewRow("Planned Cost", "1,000"),
			document.NewRow("Expenditure", "1,250.5"),
			document.NewRow("Physical Progress", "30%"),
		}},
	}

	rec := New().Extract(doc)

	assert.Equal(t, "DELAYED | COST_OVERRUN", rec.StatusFlag)
}

func TestExtract_EmptyDocument(t *testing.T) {
	rec := New(WithClock(fixedClock(1700000000))).Extract(document.Content{})

	assert.Equal(t, 0, rec.FilledCount())
	assert.Equal(t, "UNK-1700000000", rec.ProjectID)
	assert.Equal(t, StatusOnTrack, rec.StatusFlag)
}

func TestExtract_IsIdempotent(t *testing.T) {
	e := New()
	doc := complexReport()

	first := e.Extract(doc)
	second := e.Extract(doc)

	require.Equal(t, first, second)
}

func TestExtract_CustomNarrativeRules(t *testing.T) {
	e := New(WithNarrativeRules(DefaultNarrativeRules()[:1]), WithTableRules(nil))
	doc := document.Content{
		Text:   "Project: Ring Road\nSector: Roads",
		Tables: []document.Table{{document.NewRow("Physical Progress", "10%")}},
	}

	rec := e.Extract(doc)

	assertText(t, "Ring Road", rec.ProjectName)
	assert.Nil(t, rec.Sector)
	assert.Nil(t, rec.PhysicalProgress)
}

func TestRecord_Get(t *testing.T) {
	rec := New().Extract(complexReport())

	assert.Equal(t, "Karnataka", rec.Get(FieldState))
	assert.Equal(t, 58.2, rec.Get(FieldPhysicalProgress))
	assert.Nil(t, rec.Get(FieldFinancialProgress))
	assert.Nil(t, rec.Get(FieldKey("unknown")))
}

func TestExtract_RulesWithoutNormalizer(t *testing.T) {
	e := New(
		WithTableRules([]TableRule{
			{Label: "Sanctioned Cost", Field: FieldPlannedCost},
			{Label: "Works Progress", Field: FieldPhysicalProgress},
		}),
		WithNarrativeRules([]NarrativeRule{
			{Field: FieldProjectName},
			{Field: FieldExpenditureTillNow, Pattern: regexp.MustCompile(`(?i)Spent\s*:\s*(.+)`)},
		}),
	)
	doc := document.Content{
		Text: "Project: Ring Road\nSpent: Rs. 1,250.5 Crore\n",
		Tables: []document.Table{{
			document.NewRow("Sanctioned Cost", "Rs. 1,000 Crore"),
			document.NewRow("Works Progress", "approx. 64.5 %"),
		}},
	}

	var rec Record
	require.NotPanics(t, func() { rec = e.Extract(doc) })

	assertNumber(t, 1000, rec.PlannedCost)
	assertNumber(t, 64.5, rec.PhysicalProgress)
	assertNumber(t, 1250.5, rec.Expenditure)
	assert.Nil(t, rec.ProjectName)
	assert.Equal(t, StatusCostOverrun, rec.StatusFlag)
}
