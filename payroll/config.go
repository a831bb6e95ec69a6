/*
Package payroll derives the monthly salary deduction from attendance
shortfall.

PURPOSE:
  Given the hours an employee worked in a month and the company's salary
  configuration, compute how many days' pay to withhold and what is left
  to pay out.

CALCULATION:
  shortfall     = max(0, companyWorkingHours - hoursWorked)
  deductionDays = shortfall / workingHoursPerDayRequired
  dailySalary   = monthlyGrossSalary / companyWorkingDays
  deduction     = round(deductionDays * dailySalary, 2)
  netPayable    = monthlyGrossSalary - deduction

  Hours and days stay unrounded until the final currency rounding.

EXAMPLE:
  208h required, 180h worked, 8h/day, 40000 gross, 26 working days:
  shortfall 28h, 3.5 days at 1538.46/day, deduction 5384.62,
  net payable 34615.38.

SEE ALSO:
  - calculator.go: ComputeDeduction
  - words.go: Amount in words for the slip
*/
package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/payslip-engine/core"
)

// =============================================================================
// SALARY CONFIG
// =============================================================================

// SalaryConfig holds the per-employee constants for one month.
type SalaryConfig struct {
	MonthlyGrossSalary         decimal.Decimal `json:"monthlyGrossSalary" yaml:"monthlyGrossSalary"`
	WorkingHoursPerDayRequired decimal.Decimal `json:"workingHoursPerDayRequired" yaml:"workingHoursPerDayRequired"`
	CompanyWorkingDays         decimal.Decimal `json:"companyWorkingDays" yaml:"companyWorkingDays"`

	// CompanyWorkingHours is the required total for the month. Zero means
	// CompanyWorkingDays * WorkingHoursPerDayRequired.
	CompanyWorkingHours decimal.Decimal `json:"companyWorkingHours" yaml:"companyWorkingHours"`
}

// Validate rejects configurations the calculator cannot divide by, and
// negative values. It is the only place divisors are checked.
func (c SalaryConfig) Validate() error {
	if c.WorkingHoursPerDayRequired.IsZero() {
		return &core.ZeroDivisorError{Field: "workingHoursPerDayRequired"}
	}
	if c.CompanyWorkingDays.IsZero() {
		return &core.ZeroDivisorError{Field: "companyWorkingDays"}
	}
	checks := []struct {
		field string
		value decimal.Decimal
	}{
		{"monthlyGrossSalary", c.MonthlyGrossSalary},
		{"workingHoursPerDayRequired", c.WorkingHoursPerDayRequired},
		{"companyWorkingDays", c.CompanyWorkingDays},
		{"companyWorkingHours", c.CompanyWorkingHours},
	}
	for _, chk := range checks {
		if chk.value.IsNegative() {
			return &core.ArgumentError{Field: chk.field, Value: chk.value.String(), Reason: "must not be negative"}
		}
	}
	return nil
}

// RequiredHours returns CompanyWorkingHours, or the product of working days
// and hours per day when it is unset.
func (c SalaryConfig) RequiredHours() core.Amount {
	if c.CompanyWorkingHours.IsZero() {
		return core.NewAmountFromDecimal(c.CompanyWorkingDays.Mul(c.WorkingHoursPerDayRequired), core.UnitHours)
	}
	return core.NewAmountFromDecimal(c.CompanyWorkingHours, core.UnitHours)
}
