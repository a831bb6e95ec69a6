/*
ledger.go - Running leave balance

PURPOSE:
  Turns per-month leave events (one credit on the 1st, then one debit per
  leave day taken) into a chronological ledger with a running balance.
  The ledger is derived: it is rebuilt from events on every request and
  never edited in place.

CRITICAL INVARIANTS:
  1. ORDERED: Each month's credit precedes that month's debits, which
     follow in ascending date order. Months are taken in input order.
  2. BALANCED: RunningBalance[i] = RunningBalance[i-1] ± Count[i], starting
     from zero, and the final balance equals TotalCredited - TotalDebited.
  3. NEGATIVE IS VALID: Over-leave produces a negative balance; it is
     reported, not rejected.

EXAMPLE FLOW:
  March credit 1.5, leave on the 5th and 18th:

  2024-03-01  Credited  1.5   1.5
  2024-03-05  Debited   1     0.5
  2024-03-18  Debited   1    -0.5

DATA INTEGRITY:
  A debit dated outside its month is kept in the ledger (so totals still
  reconcile) and flagged with a DataIntegrity warning.

SEE ALSO:
  - balance.go: Point-in-time balances, monthly statements and overview
*/
package ledger

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/payslip-engine/core"
)

// =============================================================================
// INPUT - Leave events grouped by month
// =============================================================================

// MonthEvents holds one month's credit and the dates leave was taken.
type MonthEvents struct {
	Month      core.YearMonth
	Credit     decimal.Decimal
	DebitDates []core.Date
}

// RawMonth is the wire form: {"month":"2024-03","leavesAdded":1.5,"leaveDates":[...]}.
type RawMonth struct {
	Month       string          `json:"month"`
	LeavesAdded decimal.Decimal `json:"leavesAdded"`
	LeaveDates  []string        `json:"leaveDates"`
}

// ParseMonths validates wire-form months. Dates and months must be ISO
// formatted and credits must not be negative.
func ParseMonths(raws []RawMonth) ([]MonthEvents, error) {
	out := make([]MonthEvents, 0, len(raws))
	for i, raw := range raws {
		month, err := core.ParseYearMonth(raw.Month)
		if err != nil {
			return nil, fmt.Errorf("month %d: %w", i, err)
		}
		dates := make([]core.Date, 0, len(raw.LeaveDates))
		for _, s := range raw.LeaveDates {
			d, err := core.ParseDate(s)
			if err != nil {
				return nil, fmt.Errorf("month %s: %w", month, err)
			}
			dates = append(dates, d)
		}
		out = append(out, MonthEvents{Month: month, Credit: raw.LeavesAdded, DebitDates: dates})
	}
	return out, nil
}

// =============================================================================
// ENTRY - One ledger row
// =============================================================================

type EntryType string

const (
	Credited EntryType = "Credited"
	Debited  EntryType = "Debited"
)

// Entry is one credit or debit with the balance after applying it.
// Count is always positive; the sign comes from Type.
type Entry struct {
	Date           core.Date
	Month          core.YearMonth
	Type           EntryType
	Count          core.Amount
	RunningBalance core.Amount
}

// Signed returns Count with the sign implied by Type.
func (e Entry) Signed() core.Amount {
	if e.Type == Debited {
		return e.Count.Neg()
	}
	return e.Count
}

// Ledger is the full chronological ledger for one employee.
type Ledger struct {
	Entries       []Entry
	TotalCredited core.Amount
	TotalDebited  core.Amount
	FinalBalance  core.Amount
	Warnings      []core.Warning
}

// =============================================================================
// BUILD
// =============================================================================

var oneDay = core.NewAmountFromInt(1, core.UnitDays)

// Build produces the ledger. months must already be in chronological order;
// that is the caller's precondition and is not checked here.
func Build(months []MonthEvents) (Ledger, error) {
	var (
		balance  = core.NewAmountFromInt(0, core.UnitDays)
		credited = balance
		debited  = balance
		entries  = make([]Entry, 0, len(months))
		warnings []core.Warning
	)

	for _, m := range months {
		if err := m.Month.Validate(); err != nil {
			return Ledger{}, err
		}
		if m.Credit.IsNegative() {
			return Ledger{}, &core.ArgumentError{
				Field:  "leavesAdded",
				Value:  m.Credit.String(),
				Reason: fmt.Sprintf("credit for %s must not be negative", m.Month),
			}
		}

		credit := core.NewAmountFromDecimal(m.Credit, core.UnitDays)
		balance = balance.Add(credit)
		credited = credited.Add(credit)
		entries = append(entries, Entry{
			Date:           m.Month.FirstDay(),
			Month:          m.Month,
			Type:           Credited,
			Count:          credit,
			RunningBalance: balance,
		})

		dates := make([]core.Date, len(m.DebitDates))
		copy(dates, m.DebitDates)
		sort.SliceStable(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

		for _, d := range dates {
			if !m.Month.Contains(d) {
				warnings = append(warnings, core.Warning{
					Kind:    core.DataIntegrity,
					Code:    "debit_outside_month",
					Message: fmt.Sprintf("leave date is not in %s", m.Month),
					Date:    d.String(),
				})
			}
			balance = balance.Sub(oneDay)
			debited = debited.Add(oneDay)
			entries = append(entries, Entry{
				Date:           d,
				Month:          m.Month,
				Type:           Debited,
				Count:          oneDay,
				RunningBalance: balance,
			})
		}
	}

	return Ledger{
		Entries:       entries,
		TotalCredited: credited,
		TotalDebited:  debited,
		FinalBalance:  balance,
		Warnings:      warnings,
	}, nil
}
