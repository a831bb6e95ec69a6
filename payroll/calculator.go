package payroll

import (
	"fmt"

	"github.com/warp/payslip-engine/attendance"
	"github.com/warp/payslip-engine/core"
)

// =============================================================================
// RESULT
// =============================================================================

// Result is the payroll outcome for one employee and month.
type Result struct {
	GrossSalary    core.Amount
	RequiredHours  core.Amount
	HoursWorked    core.Amount
	HoursShortfall core.Amount

	// DeductionDays is capped at the company's working days. RawDeductionDays
	// is the uncapped quotient; the two differ only when Capped is set.
	DeductionDays    core.Amount
	RawDeductionDays core.Amount
	Capped           bool

	WorkingHoursPerDay core.Amount
	WorkingDays        core.Amount
	DailySalary        core.Amount
	TotalDeduction     core.Amount
	NetPayable         core.Amount

	Warnings []core.Warning
}

// Flagged reports whether the result carries an inconsistent-configuration
// warning.
func (r Result) Flagged() bool {
	for _, w := range r.Warnings {
		if w.Kind == core.InconsistentConfiguration {
			return true
		}
	}
	return false
}

// =============================================================================
// CALCULATOR
// =============================================================================

// ComputeDeduction applies cfg to the hours recorded in summary.
func ComputeDeduction(summary attendance.Summary, cfg SalaryConfig) (Result, error) {
	return Compute(summary.WorkedHours, cfg)
}

// Compute derives the deduction from a worked-hours total. The config is
// validated first; a zero divisor fails with core.ErrDivisionByZero before
// any arithmetic runs.
func Compute(hoursWorked core.Amount, cfg SalaryConfig) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	if hoursWorked.IsNegative() {
		return Result{}, &core.ArgumentError{Field: "hoursWorked", Value: hoursWorked.String(), Reason: "must not be negative"}
	}

	gross := core.NewAmountFromDecimal(cfg.MonthlyGrossSalary, core.UnitCurrency)
	perDay := core.NewAmountFromDecimal(cfg.WorkingHoursPerDayRequired, core.UnitHours)
	workingDays := core.NewAmountFromDecimal(cfg.CompanyWorkingDays, core.UnitDays)
	required := cfg.RequiredHours()
	worked := core.NewAmountFromDecimal(hoursWorked.Value, core.UnitHours)

	shortfall := required.Sub(worked).Max(required.Zero())
	rawDays := core.NewAmountFromDecimal(shortfall.Value.Div(perDay.Value), core.UnitDays)
	daily := gross.Div(workingDays.Value)

	res := Result{
		GrossSalary:        gross,
		RequiredHours:      required,
		HoursWorked:        worked,
		HoursShortfall:     shortfall,
		DeductionDays:      rawDays,
		RawDeductionDays:   rawDays,
		WorkingHoursPerDay: perDay,
		WorkingDays:        workingDays,
		DailySalary:        daily,
	}

	if rawDays.GreaterThan(workingDays) {
		res.DeductionDays = workingDays
		res.Capped = true
		res.Warnings = append(res.Warnings, core.Warning{
			Kind: core.InconsistentConfiguration,
			Code: "deduction_days_capped",
			Message: fmt.Sprintf("deduction of %s days exceeds %s working days; capped",
				rawDays.Round(2), workingDays),
		})
	}

	res.TotalDeduction = daily.Mul(res.DeductionDays.Value).RoundCurrency()
	res.NetPayable = gross.Sub(res.TotalDeduction)

	if res.NetPayable.IsNegative() {
		res.Warnings = append(res.Warnings, core.Warning{
			Kind:    core.InconsistentConfiguration,
			Code:    "negative_net_payable",
			Message: fmt.Sprintf("net payable %s is below zero", res.NetPayable.Fixed(core.CurrencyPrecision)),
		})
	}
	return res, nil
}
