package ledger

import (
	"github.com/shopspring/decimal"
	"github.com/warp/payslip-engine/core"
)

// =============================================================================
// POINT-IN-TIME BALANCE
// =============================================================================

// BalanceAt returns the running balance after the last entry dated on or
// before at. Entries are replayed in ledger order, not re-sorted.
func (l Ledger) BalanceAt(at core.Date) core.Amount {
	balance := core.NewAmountFromInt(0, core.UnitDays)
	for _, e := range l.Entries {
		if e.Date.After(at) {
			break
		}
		balance = e.RunningBalance
	}
	return balance
}

// =============================================================================
// MONTHLY STATEMENT - What one payslip shows
// =============================================================================

// Statement is the part of the ledger belonging to one month.
type Statement struct {
	Month    core.YearMonth
	Opening  core.Amount
	Entries  []Entry
	Credited core.Amount
	Debited  core.Amount
	Closing  core.Amount
}

// Slice returns the entries grouped under month together with the balance
// carried in and out. A month with no entries yields an empty statement
// whose opening and closing balances are equal.
func (l Ledger) Slice(month core.YearMonth) Statement {
	zero := core.NewAmountFromInt(0, core.UnitDays)
	st := Statement{Month: month, Opening: zero, Credited: zero, Debited: zero}

	started := false
	for _, e := range l.Entries {
		if e.Month != month {
			if !started && e.Month.Before(month) {
				st.Opening = e.RunningBalance
			}
			if started {
				break
			}
			continue
		}
		started = true
		st.Entries = append(st.Entries, e)
		switch e.Type {
		case Credited:
			st.Credited = st.Credited.Add(e.Count)
		case Debited:
			st.Debited = st.Debited.Add(e.Count)
		}
	}

	st.Closing = st.Opening.Add(st.Credited).Sub(st.Debited)
	return st
}

// =============================================================================
// OVERVIEW - Balance summary for display
// =============================================================================

// Overview summarizes the whole ledger. RemainingFraction is the share of
// credited leave still available, clamped to [0, 1].
type Overview struct {
	Credited          core.Amount
	Debited           core.Amount
	Balance           core.Amount
	RemainingFraction decimal.Decimal
}

func (l Ledger) Overview() Overview {
	ov := Overview{
		Credited:          l.TotalCredited,
		Debited:           l.TotalDebited,
		Balance:           l.FinalBalance,
		RemainingFraction: decimal.Zero,
	}
	if !l.TotalCredited.IsPositive() || !l.FinalBalance.IsPositive() {
		return ov
	}
	frac := l.FinalBalance.Value.Div(l.TotalCredited.Value)
	if frac.GreaterThan(decimal.NewFromInt(1)) {
		frac = decimal.NewFromInt(1)
	}
	ov.RemainingFraction = frac
	return ov
}
