/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Domain results carry
  decimal amounts with units; responses flatten them to strings so clients
  never see float rounding.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

INPUT WIRE FORMATS:
  Attendance records and leave months keep the field names of the mobile
  app export (attendanceDate, punchInTime, leavesAdded, ...). See
  attendance.RawRecord and ledger.RawMonth.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/salary.go: SalaryPolicyJSON
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/payslip-engine/attendance"
	"github.com/warp/payslip-engine/calendar"
	"github.com/warp/payslip-engine/core"
	"github.com/warp/payslip-engine/factory"
	"github.com/warp/payslip-engine/ledger"
	"github.com/warp/payslip-engine/payroll"
	"github.com/warp/payslip-engine/report"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// SlipRequest is a complete, store-free slip generation payload.
type SlipRequest struct {
	Company    *report.Company        `json:"company,omitempty"`
	Employee   report.Employee        `json:"employee"`
	Month      string                 `json:"month"`
	Attendance []attendance.RawRecord `json:"attendance"`
	Leaves     []ledger.RawMonth      `json:"leaves"`
	Salary     payroll.SalaryConfig   `json:"salary"`
	Payment    report.Payment         `json:"payment"`
}

// LedgerRequest builds a ledger from months of leave events.
type LedgerRequest struct {
	Months []ledger.RawMonth `json:"months"`
	// Month optionally selects the statement to return alongside.
	Month string `json:"month,omitempty"`
}

// PayrollRequest computes the deduction for a month's worked hours.
type PayrollRequest struct {
	HoursWorked decimal.Decimal      `json:"hours_worked"`
	Salary      payroll.SalaryConfig `json:"salary"`
}

// ClassifyRequest classifies raw records and summarizes them for month.
// RequiredHours defaults to the company profile's salary defaults.
type ClassifyRequest struct {
	Month         string                 `json:"month"`
	Records       []attendance.RawRecord `json:"records"`
	RequiredHours *decimal.Decimal       `json:"required_hours,omitempty"`
}

// AttendanceUploadRequest upserts an employee's records by date.
type AttendanceUploadRequest struct {
	Records []attendance.RawRecord `json:"records"`
}

// SalaryRequest sets an employee's salary config, either directly or by
// resolving a salary policy against Month. Zero policy fields fall back to
// the company profile defaults.
type SalaryRequest struct {
	payroll.SalaryConfig
	Policy *factory.SalaryPolicyJSON `json:"policy,omitempty"`
	Month  string                    `json:"month,omitempty"`
}

// LoadScenarioRequest is the request to load a demo scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// AccrualRequest credits leave for one month. Month defaults to the
// current month.
type AccrualRequest struct {
	Month string `json:"month,omitempty"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// SlipDTO is a generated slip: the document plus every computed value.
type SlipDTO struct {
	EmployeeID core.EmployeeID `json:"employee_id"`
	Month      string          `json:"month"`
	Records    []RecordDTO     `json:"records"`
	Summary    SummaryDTO      `json:"summary"`
	Statement  StatementDTO    `json:"statement"`
	Payroll    PayrollDTO      `json:"payroll"`
	Grid       GridDTO         `json:"grid"`
	Document   report.Document `json:"document"`
	Warnings   []core.Warning  `json:"warnings"`
}

// RecordDTO is one classified attendance day.
type RecordDTO struct {
	Date        string         `json:"date"`
	Status      string         `json:"status"`
	Category    string         `json:"category"`
	PunchIn     string         `json:"punch_in,omitempty"`
	PunchOut    string         `json:"punch_out,omitempty"`
	HoursWorked string         `json:"hours_worked"`
	LateIn      string         `json:"late_in,omitempty"`
	Punctuality string         `json:"punctuality"`
	Warnings    []core.Warning `json:"warnings,omitempty"`
}

// SummaryDTO is the month's attendance summary.
type SummaryDTO struct {
	Month           string            `json:"month"`
	TotalDays       int               `json:"total_days"`
	Counts          attendance.Counts `json:"counts"`
	WeeklyOffs      int               `json:"weekly_offs"`
	LateInDays      int               `json:"late_in_days"`
	RequiredHours   string            `json:"required_hours"`
	WorkedHours     string            `json:"worked_hours"`
	ShortfallHours  string            `json:"shortfall_hours"`
	AveragePunchIn  string            `json:"average_punch_in,omitempty"`
	AveragePunchOut string            `json:"average_punch_out,omitempty"`
	Warnings        []core.Warning    `json:"warnings,omitempty"`
}

// EntryDTO is one ledger row.
type EntryDTO struct {
	Date           string `json:"date"`
	Month          string `json:"month"`
	Type           string `json:"type"`
	Count          string `json:"count"`
	RunningBalance string `json:"running_balance"`
}

// LedgerDTO is a full leave ledger.
type LedgerDTO struct {
	Entries       []EntryDTO     `json:"entries"`
	TotalCredited string         `json:"total_credited"`
	TotalDebited  string         `json:"total_debited"`
	FinalBalance  string         `json:"final_balance"`
	Overview      OverviewDTO    `json:"overview"`
	Statement     *StatementDTO  `json:"statement,omitempty"`
	Warnings      []core.Warning `json:"warnings,omitempty"`
}

// OverviewDTO feeds the leave balance ring.
type OverviewDTO struct {
	Credited          string `json:"credited"`
	Taken             string `json:"taken"`
	Balance           string `json:"balance"`
	RemainingFraction string `json:"remaining_fraction"`
}

// StatementDTO is one month's slice of the ledger.
type StatementDTO struct {
	Month    string     `json:"month"`
	Opening  string     `json:"opening"`
	Entries  []EntryDTO `json:"entries"`
	Credited string     `json:"credited"`
	Debited  string     `json:"debited"`
	Closing  string     `json:"closing"`
}

// PayrollDTO is the payroll result. Currency values carry two decimals;
// hours and days are unrounded.
type PayrollDTO struct {
	GrossSalary        string         `json:"gross_salary"`
	RequiredHours      string         `json:"required_hours"`
	HoursWorked        string         `json:"hours_worked"`
	HoursShortfall     string         `json:"hours_shortfall"`
	DeductionDays      string         `json:"deduction_days"`
	RawDeductionDays   string         `json:"raw_deduction_days"`
	Capped             bool           `json:"capped"`
	WorkingHoursPerDay string         `json:"working_hours_per_day"`
	WorkingDays        string         `json:"working_days"`
	DailySalary        string         `json:"daily_salary"`
	TotalDeduction     string         `json:"total_deduction"`
	NetPayable         string         `json:"net_payable"`
	NetPayableInWords  string         `json:"net_payable_in_words"`
	Warnings           []core.Warning `json:"warnings,omitempty"`
}

// ClassifyResponse returns classified records with their summary.
type ClassifyResponse struct {
	Records []RecordDTO `json:"records"`
	Summary SummaryDTO  `json:"summary"`
}

// GridDTO is a calendar month; padding cells are 0.
type GridDTO struct {
	Month    string   `json:"month"`
	Title    string   `json:"title"`
	Weekdays []string `json:"weekdays"`
	Weeks    [][]int  `json:"weeks"`
}

// SalaryDTO echoes a stored salary config with its derived required hours.
type SalaryDTO struct {
	payroll.SalaryConfig
	RequiredHours string `json:"required_hours"`
}

// ScenarioDTO describes a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AccrualRunDTO reports one accrual run.
type AccrualRunDTO struct {
	Month    string `json:"month"`
	Credited int    `json:"credited"`
	Skipped  int    `json:"skipped"`
	Failed   int    `json:"failed"`
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toRecordDTO(r attendance.Record) RecordDTO {
	dto := RecordDTO{
		Date:        r.Date.String(),
		Status:      string(r.Status),
		Category:    string(r.Category),
		PunchIn:     core.OptionalTimeString(r.PunchIn),
		PunchOut:    core.OptionalTimeString(r.PunchOut),
		HoursWorked: core.FormatDuration(r.HoursWorked),
		Punctuality: r.Punctuality.Label(),
		Warnings:    r.Warnings,
	}
	if r.LateIn != nil {
		dto.LateIn = core.FormatDuration(*r.LateIn)
	}
	return dto
}

func toRecordDTOs(records []attendance.Record) []RecordDTO {
	out := make([]RecordDTO, len(records))
	for i, r := range records {
		out[i] = toRecordDTO(r)
	}
	return out
}

func toSummaryDTO(s attendance.Summary) SummaryDTO {
	return SummaryDTO{
		Month:           s.Month.String(),
		TotalDays:       s.TotalDays,
		Counts:          s.Counts,
		WeeklyOffs:      s.Counts.WeeklyOffs(),
		LateInDays:      s.LateInDays,
		RequiredHours:   s.RequiredHours.String(),
		WorkedHours:     s.WorkedHours.String(),
		ShortfallHours:  s.ShortfallHours.String(),
		AveragePunchIn:  core.OptionalTimeString(s.AveragePunchIn),
		AveragePunchOut: core.OptionalTimeString(s.AveragePunchOut),
		Warnings:        s.Warnings,
	}
}

func toEntryDTOs(entries []ledger.Entry) []EntryDTO {
	out := make([]EntryDTO, len(entries))
	for i, e := range entries {
		out[i] = EntryDTO{
			Date:           e.Date.String(),
			Month:          e.Month.String(),
			Type:           string(e.Type),
			Count:          e.Count.String(),
			RunningBalance: e.RunningBalance.String(),
		}
	}
	return out
}

func toLedgerDTO(l ledger.Ledger) LedgerDTO {
	ov := l.Overview()
	return LedgerDTO{
		Entries:       toEntryDTOs(l.Entries),
		TotalCredited: l.TotalCredited.String(),
		TotalDebited:  l.TotalDebited.String(),
		FinalBalance:  l.FinalBalance.String(),
		Overview: OverviewDTO{
			Credited:          ov.Credited.String(),
			Taken:             ov.Debited.String(),
			Balance:           ov.Balance.String(),
			RemainingFraction: ov.RemainingFraction.StringFixed(4),
		},
		Warnings: l.Warnings,
	}
}

func toStatementDTO(s ledger.Statement) StatementDTO {
	return StatementDTO{
		Month:    s.Month.String(),
		Opening:  s.Opening.String(),
		Entries:  toEntryDTOs(s.Entries),
		Credited: s.Credited.String(),
		Debited:  s.Debited.String(),
		Closing:  s.Closing.String(),
	}
}

func toPayrollDTO(r payroll.Result) PayrollDTO {
	return PayrollDTO{
		GrossSalary:        r.GrossSalary.Fixed(core.CurrencyPrecision),
		RequiredHours:      r.RequiredHours.String(),
		HoursWorked:        r.HoursWorked.String(),
		HoursShortfall:     r.HoursShortfall.String(),
		DeductionDays:      r.DeductionDays.String(),
		RawDeductionDays:   r.RawDeductionDays.String(),
		Capped:             r.Capped,
		WorkingHoursPerDay: r.WorkingHoursPerDay.String(),
		WorkingDays:        r.WorkingDays.String(),
		DailySalary:        r.DailySalary.Fixed(core.CurrencyPrecision),
		TotalDeduction:     r.TotalDeduction.Fixed(core.CurrencyPrecision),
		NetPayable:         r.NetPayable.Fixed(core.CurrencyPrecision),
		NetPayableInWords:  payroll.AmountInWords(r.NetPayable.Value),
		Warnings:           r.Warnings,
	}
}

func toGridDTO(g calendar.Grid) GridDTO {
	weeks := make([][]int, len(g.Weeks))
	for i, w := range g.Weeks {
		row := make([]int, calendar.DaysPerWeek)
		for j, c := range w {
			row[j] = c.Day
		}
		weeks[i] = row
	}
	return GridDTO{
		Month:    g.Month.String(),
		Title:    g.Month.Title(),
		Weekdays: calendar.Weekdays[:],
		Weeks:    weeks,
	}
}
