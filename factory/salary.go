/*
Package factory provides JSON to Go salary policy conversion.

PURPOSE:
  Converts JSON salary policy definitions into payroll.SalaryConfig values
  for a given month. HR defines the policy once ("8h a day, Sundays off")
  and the factory works out the month's working days and hours.

JSON SCHEMA:
  {
    "id": "standard",
    "name": "Standard (Sundays off)",
    "monthly_gross": 40000,
    "hours_per_day": 8,
    "weekly_offs": ["sunday"],
    "working_days": 0,
    "working_hours": 0
  }

  working_days = 0 derives the count from the month's calendar minus the
  weekly offs. working_hours = 0 leaves the required hours to the payroll
  default (working days x hours per day).

USAGE:
  f := NewSalaryFactory()
  policy, err := f.ParsePolicy(StandardJSON("standard", 40000))
  cfg := policy.ForMonth(march)

SEE ALSO:
  - payroll/config.go: SalaryConfig and its validation
  - presets.go: Ready-made policies
*/
package factory

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payslip-engine/core"
	"github.com/warp/payslip-engine/payroll"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// SalaryPolicyJSON is the JSON representation of a salary policy.
type SalaryPolicyJSON struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	MonthlyGross decimal.Decimal `json:"monthly_gross"`
	HoursPerDay  decimal.Decimal `json:"hours_per_day"`
	WeeklyOffs   []string        `json:"weekly_offs,omitempty"`
	WorkingDays  decimal.Decimal `json:"working_days,omitempty"`
	WorkingHours decimal.Decimal `json:"working_hours,omitempty"`
}

// SalaryPolicy is a validated policy.
type SalaryPolicy struct {
	ID           string
	Name         string
	MonthlyGross decimal.Decimal
	HoursPerDay  decimal.Decimal
	WeeklyOffs   []time.Weekday
	WorkingDays  decimal.Decimal // zero: derive per month
	WorkingHours decimal.Decimal // zero: days x hours per day
}

// =============================================================================
// SALARY FACTORY
// =============================================================================

type SalaryFactory struct{}

func NewSalaryFactory() *SalaryFactory {
	return &SalaryFactory{}
}

// ParsePolicy parses a JSON string into a SalaryPolicy.
func (f *SalaryFactory) ParsePolicy(jsonStr string) (*SalaryPolicy, error) {
	var pj SalaryPolicyJSON
	if err := json.Unmarshal([]byte(jsonStr), &pj); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return f.FromJSON(pj)
}

// FromJSON validates pj and converts it.
func (f *SalaryFactory) FromJSON(pj SalaryPolicyJSON) (*SalaryPolicy, error) {
	if pj.ID == "" {
		return nil, &core.ArgumentError{Field: "id", Reason: "is required"}
	}
	if !pj.HoursPerDay.IsPositive() {
		return nil, &core.ZeroDivisorError{Field: "hours_per_day"}
	}
	for field, v := range map[string]decimal.Decimal{
		"monthly_gross": pj.MonthlyGross,
		"working_days":  pj.WorkingDays,
		"working_hours": pj.WorkingHours,
	} {
		if v.IsNegative() {
			return nil, &core.ArgumentError{Field: field, Value: v.String(), Reason: "must not be negative"}
		}
	}

	offs := make([]time.Weekday, 0, len(pj.WeeklyOffs))
	seen := make(map[time.Weekday]bool)
	for _, s := range pj.WeeklyOffs {
		wd, err := parseWeekday(s)
		if err != nil {
			return nil, err
		}
		if !seen[wd] {
			seen[wd] = true
			offs = append(offs, wd)
		}
	}
	if len(offs) == 7 {
		return nil, &core.ArgumentError{Field: "weekly_offs", Reason: "leaves no working days"}
	}

	return &SalaryPolicy{
		ID:           pj.ID,
		Name:         pj.Name,
		MonthlyGross: pj.MonthlyGross,
		HoursPerDay:  pj.HoursPerDay,
		WeeklyOffs:   offs,
		WorkingDays:  pj.WorkingDays,
		WorkingHours: pj.WorkingHours,
	}, nil
}

// ToJSON converts a policy back to its JSON form.
func (f *SalaryFactory) ToJSON(p *SalaryPolicy) SalaryPolicyJSON {
	offs := make([]string, 0, len(p.WeeklyOffs))
	for _, wd := range p.WeeklyOffs {
		offs = append(offs, strings.ToLower(wd.String()))
	}
	return SalaryPolicyJSON{
		ID:           p.ID,
		Name:         p.Name,
		MonthlyGross: p.MonthlyGross,
		HoursPerDay:  p.HoursPerDay,
		WeeklyOffs:   offs,
		WorkingDays:  p.WorkingDays,
		WorkingHours: p.WorkingHours,
	}
}

// =============================================================================
// MONTHLY CONFIG
// =============================================================================

// ForMonth resolves the policy against month's calendar.
func (p *SalaryPolicy) ForMonth(month core.YearMonth) payroll.SalaryConfig {
	days := p.WorkingDays
	if days.IsZero() {
		days = decimal.NewFromInt(int64(WorkingDaysIn(month, p.WeeklyOffs)))
	}
	return payroll.SalaryConfig{
		MonthlyGrossSalary:         p.MonthlyGross,
		WorkingHoursPerDayRequired: p.HoursPerDay,
		CompanyWorkingDays:         days,
		CompanyWorkingHours:        p.WorkingHours,
	}
}

// WorkingDaysIn counts the days of month that are not weekly offs.
func WorkingDaysIn(month core.YearMonth, weeklyOffs []time.Weekday) int {
	off := make(map[time.Weekday]bool, len(weeklyOffs))
	for _, wd := range weeklyOffs {
		off[wd] = true
	}
	n := 0
	for _, d := range month.Days() {
		if !off[d.Weekday()] {
			n++
		}
	}
	return n
}

func parseWeekday(s string) (time.Weekday, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		name := strings.ToLower(wd.String())
		if key == name || key == name[:3] {
			return wd, nil
		}
	}
	return 0, &core.ArgumentError{Field: "weekly_offs", Value: s, Reason: "unknown weekday"}
}
