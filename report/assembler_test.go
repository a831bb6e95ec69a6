package report_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payslip-engine/attendance"
	"github.com/warp/payslip-engine/calendar"
	"github.com/warp/payslip-engine/core"
	"github.com/warp/payslip-engine/ledger"
	"github.com/warp/payslip-engine/payroll"
	"github.com/warp/payslip-engine/report"
)

// marchInput builds a complete slip input for March 2024 with 180h worked
// against 208h required.
func marchInput(t *testing.T) report.Input {
	t.Helper()
	month, err := core.NewYearMonth(2024, 3)
	require.NoError(t, err)

	late := "00:00"
	recs, err := attendance.ClassifyAll([]attendance.RawRecord{
		{Date: "2024-03-01", Status: "Present", PunchInTime: "09:00", PunchOutTime: "18:00", HoursWorked: "09:00", LateIn: &late},
		{Date: "2024-03-02", Status: "Saturday"},
		{Date: "2024-03-03", Status: "Sunday"},
		{Date: "2024-03-04", Status: "Absent"},
	})
	require.NoError(t, err)

	summary, err := attendance.Summarize(month, recs, core.Hours(208))
	require.NoError(t, err)

	cfg := payroll.SalaryConfig{
		MonthlyGrossSalary:         decimal.NewFromInt(40000),
		WorkingHoursPerDayRequired: decimal.NewFromInt(8),
		CompanyWorkingDays:         decimal.NewFromInt(26),
		CompanyWorkingHours:        decimal.NewFromInt(208),
	}
	pay, err := payroll.Compute(core.Hours(180), cfg)
	require.NoError(t, err)

	l, err := ledger.Build([]ledger.MonthEvents{{
		Month:      month,
		Credit:     decimal.RequireFromString("1.5"),
		DebitDates: []core.Date{core.NewDate(2024, 3, 5), core.NewDate(2024, 3, 18)},
	}})
	require.NoError(t, err)

	grid := calendar.GridFor(month)

	joining := core.NewDate(2021, 7, 12)
	return report.Input{
		Company: report.Company{Name: "Acme Technologies", LogoURL: "https://example.com/logo.png"},
		Employee: report.Employee{
			ID:          "EMP-042",
			Name:        "Asha Rao",
			Designation: "Engineer",
			Joining:     &joining,
			Mobile:      "9876543210",
		},
		Period:   month,
		Summary:  summary,
		Payroll:  pay,
		Ledger:   l.Slice(month),
		Calendar: attendance.Overlay(grid, recs),
		Payment:  report.Payment{TransactionID: "TXN-1001"},
	}
}

func TestAssemble_SectionOrder(t *testing.T) {
	doc := report.Assemble(marchInput(t))

	require.Len(t, doc.Sections, len(report.SectionOrder))
	for i, id := range report.SectionOrder {
		assert.Equal(t, id, doc.Sections[i].ID)
	}
	assert.Equal(t, "Salary Slip (March 2024)", doc.Title)
}

func TestAssemble_Idempotent(t *testing.T) {
	// GIVEN: identical inputs
	// WHEN: assembling twice
	// THEN: the two documents are deeply equal
	in := marchInput(t)
	first := report.Assemble(in)
	second := report.Assemble(in)
	assert.Equal(t, first, second)
}

func TestAssemble_SalarySections(t *testing.T) {
	doc := report.Assemble(marchInput(t))

	breakdown := doc.Section(report.SectionSalaryBreakdown)
	require.NotNil(t, breakdown)
	require.NotNil(t, breakdown.Table)
	assert.Equal(t, []string{"Monthly Gross Salary", "₹40000.00"}, breakdown.Table.Rows[0])
	assert.Equal(t, []string{"Total Deduction (3.5 × ₹1538.46)", "-₹5384.62"}, breakdown.Table.Rows[1])
	assert.Equal(t, []string{"Net Salary", "₹34615.38"}, breakdown.Table.Footer)

	v, ok := breakdown.Field("Net Payable (Net Salary)")
	require.True(t, ok)
	assert.Equal(t, "₹34615.38", v)
	v, _ = breakdown.Field("Amount in Words")
	assert.Equal(t, "Rupees Thirty Four Thousand Six Hundred Fifteen and Thirty Eight Paise Only", v)

	explain := doc.Section(report.SectionDeductionExplanation)
	require.NotNil(t, explain)
	v, _ = explain.Field("Deduction Days")
	assert.Equal(t, "28 / 8 = 3.5", v)
	v, _ = explain.Field("Amount Deducted")
	assert.Equal(t, "3.5 × ₹1538.46 = ₹5384.62", v)
	_, capped := explain.Field("Deduction Cap")
	assert.False(t, capped)
}

func TestAssemble_AmountPaidOverridesNetPayable(t *testing.T) {
	in := marchInput(t)
	paid := decimal.RequireFromString("34000")
	in.Payment.AmountPaid = &paid

	doc := report.Assemble(in)
	breakdown := doc.Section(report.SectionSalaryBreakdown)
	v, _ := breakdown.Field("Net Payable (Net Salary)")
	assert.Equal(t, "₹34000.00", v)
	v, _ = breakdown.Field("Amount in Words")
	assert.Equal(t, "Rupees Thirty Four Thousand Only", v)

	// The computed net salary row is unchanged
	assert.Equal(t, "₹34615.38", breakdown.Table.Footer[1])
}

func TestAssemble_HeaderAndSummary(t *testing.T) {
	doc := report.Assemble(marchInput(t))

	header := doc.Section(report.SectionHeader)
	require.NotNil(t, header)
	v, _ := header.Field("Date of Joining")
	assert.Equal(t, "12 Jul 2021", v)
	v, _ = header.Field("Department")
	assert.Equal(t, "-", v)
	v, _ = header.Field("Transaction ID")
	assert.Equal(t, "TXN-1001", v)

	summary := doc.Section(report.SectionAttendanceSummary)
	require.NotNil(t, summary)
	v, _ = summary.Field("Weekly Off")
	assert.Equal(t, "2", v)
	v, _ = summary.Field("Average Punch In")
	assert.Equal(t, "09:00 AM", v)
	v, _ = summary.Field("Average Punch Out")
	assert.Equal(t, "06:00 PM", v)
}

func TestAssemble_LeaveLedgerAndCalendar(t *testing.T) {
	doc := report.Assemble(marchInput(t))

	ledgerSec := doc.Section(report.SectionLeaveLedger)
	require.NotNil(t, ledgerSec)
	require.Len(t, ledgerSec.Table.Rows, 3)
	assert.Equal(t, []string{"01 Mar 2024", "Credited", "1.5", "1.5"}, ledgerSec.Table.Rows[0])
	assert.Equal(t, []string{"18 Mar 2024", "Debited", "1", "-0.5"}, ledgerSec.Table.Rows[2])
	v, _ := ledgerSec.Field("Closing Balance")
	assert.Equal(t, "-0.5", v)

	cal := doc.Section(report.SectionCalendar)
	require.NotNil(t, cal)
	require.NotNil(t, cal.Calendar)
	assert.Equal(t, []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}, cal.Calendar.Weekdays)
	require.Len(t, cal.Calendar.Weeks, 6)

	// March 2024 starts on a Friday
	first := cal.Calendar.Weeks[0][5]
	assert.Equal(t, 1, first.Day)
	assert.Equal(t, "Present", first.Status)
	assert.Equal(t, "09:00", first.PunchIn)
	assert.Equal(t, "18:00", first.PunchOut)
	assert.Equal(t, "09:00", first.Hours)
	assert.Equal(t, report.CalendarDay{}, cal.Calendar.Weeks[0][0])

	// Unrecorded day keeps only its number
	assert.Equal(t, report.CalendarDay{Day: 20}, cal.Calendar.Weeks[3][3])

	footer := doc.Section(report.SectionFooter)
	require.NotNil(t, footer)
	assert.Equal(t, report.DefaultFooter, footer.Text)
}
