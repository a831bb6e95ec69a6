package report

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/warp/payslip-engine/attendance"
	"github.com/warp/payslip-engine/calendar"
	"github.com/warp/payslip-engine/core"
	"github.com/warp/payslip-engine/ledger"
	"github.com/warp/payslip-engine/payroll"
)

// DefaultFooter is printed at the bottom of every slip unless the company
// overrides it.
const DefaultFooter = "This is a digitally generated document and does not require a signature or seal."

// DefaultCurrencySymbol prefixes money values.
const DefaultCurrencySymbol = "₹"

// =============================================================================
// INPUT
// =============================================================================

type Company struct {
	Name           string `json:"name" yaml:"name"`
	LogoURL        string `json:"logoUrl,omitempty" yaml:"logoUrl"`
	CurrencySymbol string `json:"currencySymbol,omitempty" yaml:"currencySymbol"`
	Footer         string `json:"footer,omitempty" yaml:"footer"`
}

type Employee struct {
	ID          core.EmployeeID `json:"id"`
	Name        string          `json:"name"`
	Designation string          `json:"designation,omitempty"`
	Department  string          `json:"department,omitempty"`
	Joining     *core.Date      `json:"joining,omitempty"`
	Mobile      string          `json:"mobile,omitempty"`
}

// Payment records what was actually paid out. AmountPaid overrides the
// computed net payable on the slip when set.
type Payment struct {
	TransactionID string           `json:"transactionId,omitempty"`
	AmountPaid    *decimal.Decimal `json:"amountPaid,omitempty"`
}

// Input carries every already-computed piece the slip shows.
type Input struct {
	Company  Company
	Employee Employee
	Period   core.YearMonth
	Summary  attendance.Summary
	Payroll  payroll.Result
	Ledger   ledger.Statement
	Calendar attendance.Matrix
	Payment  Payment
}

// =============================================================================
// ASSEMBLE
// =============================================================================

// Assemble builds the slip document. It performs no computation beyond
// formatting and is deterministic.
func Assemble(in Input) Document {
	f := formatter{symbol: in.Company.CurrencySymbol}
	if f.symbol == "" {
		f.symbol = DefaultCurrencySymbol
	}
	period := in.Period.Title()

	return Document{
		Title: fmt.Sprintf("Salary Slip (%s)", period),
		Sections: []Section{
			header(in, f),
			salaryBreakdown(in, f, period),
			deductionExplanation(in, f, period),
			attendanceSummary(in, period),
			leaveLedger(in, period),
			calendarSection(in, period),
			footer(in),
		},
	}
}

func header(in Input, f formatter) Section {
	joining := "-"
	if in.Employee.Joining != nil {
		joining = in.Employee.Joining.DisplayString()
	}
	return Section{
		ID:    SectionHeader,
		Title: in.Company.Name,
		Fields: []Field{
			{"Company", in.Company.Name},
			{"Logo", in.Company.LogoURL},
			{"Employee Name", in.Employee.Name},
			{"Designation", orDash(in.Employee.Designation)},
			{"Department", orDash(in.Employee.Department)},
			{"Date of Joining", joining},
			{"Mobile Number", orDash(in.Employee.Mobile)},
			{"Transaction ID", orDash(in.Payment.TransactionID)},
			{"Employee ID", string(in.Employee.ID)},
			{"Monthly Gross Salary", f.money(in.Payroll.GrossSalary.Value)},
		},
	}
}

func salaryBreakdown(in Input, f formatter, period string) Section {
	p := in.Payroll
	netPayable := p.NetPayable.Value
	if in.Payment.AmountPaid != nil {
		netPayable = *in.Payment.AmountPaid
	}
	return Section{
		ID:    SectionSalaryBreakdown,
		Title: fmt.Sprintf("Payment & Salary (%s)", period),
		Table: &Table{
			Columns: []string{"Description", "Amount"},
			Rows: [][]string{
				{"Monthly Gross Salary", f.money(p.GrossSalary.Value)},
				{
					fmt.Sprintf("Total Deduction (%s × %s)", num(p.DeductionDays), f.money(p.DailySalary.Value)),
					"-" + f.money(p.TotalDeduction.Value),
				},
			},
			Footer: []string{"Net Salary", f.money(p.NetPayable.Value)},
		},
		Fields: []Field{
			{"Net Payable (Net Salary)", f.money(netPayable)},
			{"Amount in Words", payroll.AmountInWords(netPayable)},
		},
	}
}

func deductionExplanation(in Input, f formatter, period string) Section {
	p := in.Payroll
	fields := []Field{
		{"Required Working Hours", num(p.RequiredHours)},
		{"Worked Hours", num(p.HoursWorked)},
		{"Shortfall Hours", num(p.HoursShortfall)},
		{"Deduction Days", fmt.Sprintf("%s / %s = %s", num(p.HoursShortfall), num(p.WorkingHoursPerDay), num(p.RawDeductionDays))},
		{"Amount Deducted", fmt.Sprintf("%s × %s = %s", num(p.DeductionDays), f.money(p.DailySalary.Value), f.money(p.TotalDeduction.Value))},
	}
	if p.Capped {
		fields = append(fields, Field{"Deduction Cap", fmt.Sprintf("capped at %s working days", num(p.WorkingDays))})
	}
	return Section{
		ID:     SectionDeductionExplanation,
		Title:  fmt.Sprintf("Salary Deduction Calculation (%s)", period),
		Fields: fields,
	}
}

func attendanceSummary(in Input, period string) Section {
	s := in.Summary
	c := s.Counts
	return Section{
		ID:    SectionAttendanceSummary,
		Title: fmt.Sprintf("Attendance Summary (%s)", period),
		Fields: []Field{
			{"Total Days", strconv.Itoa(s.TotalDays)},
			{"Present", strconv.Itoa(c.Present)},
			{"Half Day", strconv.Itoa(c.HalfDay)},
			{"Absent", strconv.Itoa(c.Absent)},
			{"Leave", strconv.Itoa(c.OnLeave)},
			{"Comp Off", strconv.Itoa(c.CompOff)},
			{"Weekly Off", strconv.Itoa(c.WeeklyOffs())},
			{"Holiday", strconv.Itoa(c.Holiday)},
			{"Unknown", strconv.Itoa(c.Unknown)},
			{"Late In Days", strconv.Itoa(s.LateInDays)},
			{"Average Punch In", clock(s.AveragePunchIn)},
			{"Average Punch Out", clock(s.AveragePunchOut)},
		},
	}
}

func leaveLedger(in Input, period string) Section {
	st := in.Ledger
	rows := make([][]string, 0, len(st.Entries))
	for _, e := range st.Entries {
		rows = append(rows, []string{e.Date.DisplayString(), string(e.Type), num(e.Count), num(e.RunningBalance)})
	}
	return Section{
		ID:    SectionLeaveLedger,
		Title: fmt.Sprintf("Leave Ledger (%s)", period),
		Fields: []Field{
			{"Opening Balance", num(st.Opening)},
			{"Credited", num(st.Credited)},
			{"Debited", num(st.Debited)},
			{"Closing Balance", num(st.Closing)},
		},
		Table: &Table{
			Columns: []string{"Date", "Type", "Count", "Balance"},
			Rows:    rows,
		},
	}
}

func calendarSection(in Input, period string) Section {
	weeks := make([][]CalendarDay, 0, len(in.Calendar.Weeks))
	for _, w := range in.Calendar.Weeks {
		row := make([]CalendarDay, 0, len(w))
		for _, cell := range w {
			row = append(row, calendarDay(cell))
		}
		weeks = append(weeks, row)
	}
	p := in.Payroll
	return Section{
		ID:    SectionCalendar,
		Title: fmt.Sprintf("Attendance (%s)", period),
		Calendar: &CalendarBlock{
			Weekdays: append([]string(nil), calendar.Weekdays[:]...),
			Weeks:    weeks,
		},
		Fields: []Field{
			{"Total Working Days", num(p.WorkingDays) + " Days"},
			{"Required Working Hours", num(p.RequiredHours)},
			{"Worked Hours", num(p.HoursWorked)},
			{"Shortfall Hours", num(p.HoursShortfall)},
		},
	}
}

func calendarDay(cell attendance.DayCell) CalendarDay {
	if cell.IsEmpty() {
		return CalendarDay{}
	}
	day := CalendarDay{Day: cell.Day}
	if !cell.Recorded {
		return day
	}
	day.Status = string(cell.Status)
	day.Category = string(cell.Category)
	day.PunchIn = core.OptionalTimeString(cell.PunchIn)
	day.PunchOut = core.OptionalTimeString(cell.PunchOut)
	if cell.HoursWorked > 0 {
		day.Hours = core.FormatDuration(cell.HoursWorked)
	}
	return day
}

func footer(in Input) Section {
	text := in.Company.Footer
	if text == "" {
		text = DefaultFooter
	}
	return Section{ID: SectionFooter, Text: text}
}

// =============================================================================
// FORMATTING
// =============================================================================

type formatter struct {
	symbol string
}

func (f formatter) money(v decimal.Decimal) string {
	if v.IsNegative() {
		return "-" + f.symbol + v.Neg().StringFixed(core.CurrencyPrecision)
	}
	return f.symbol + v.StringFixed(core.CurrencyPrecision)
}

// num renders hours and days with at most two decimals ("3.5", "28").
func num(a core.Amount) string {
	return a.Round(2).String()
}

func clock(t *core.TimeOfDay) string {
	if t == nil {
		return "-"
	}
	return t.Clock()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
