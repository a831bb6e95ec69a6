/*
Package core provides the shared value types for the payslip engine.

PURPOSE:
  Every computation package (calendar, attendance, ledger, payroll, report)
  speaks in the same small vocabulary: calendar dates, year-months,
  times of day and decimal quantities with a unit. Keeping them here lets
  the leaf packages stay independent of each other.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A quantity with a unit (e.g., 1.5 days, 28 hours, 40000 INR)
  - Warning: A soft, non-fatal anomaly attached to a result

DESIGN PRINCIPLES:
  1. Immutability: Values are copied, never mutated in place
  2. Precision: Uses decimal.Decimal so money and hours never drift
  3. Explicit inputs: No package-level mutable state

SEE ALSO:
  - time.go: Date, YearMonth and TimeOfDay
  - errors.go: Error taxonomy (hard failures vs. warnings)
*/
package core

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Quantity with unit
// =============================================================================

type Amount struct {
	Value decimal.Decimal
	Unit  Unit
}

type Unit string

const (
	UnitDays     Unit = "days"
	UnitHours    Unit = "hours"
	UnitCurrency Unit = "currency"
)

// CurrencyPrecision is the number of decimal places money is rounded to.
const CurrencyPrecision int32 = 2

func NewAmount(value float64, unit Unit) Amount {
	return Amount{Value: decimal.NewFromFloat(value), Unit: unit}
}

func NewAmountFromInt(value int, unit Unit) Amount {
	return Amount{Value: decimal.NewFromInt(int64(value)), Unit: unit}
}

func NewAmountFromDecimal(value decimal.Decimal, unit Unit) Amount {
	return Amount{Value: value, Unit: unit}
}

func Days(value float64) Amount  { return NewAmount(value, UnitDays) }
func Hours(value float64) Amount { return NewAmount(value, UnitHours) }
func Money(value float64) Amount { return NewAmount(value, UnitCurrency) }

func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (a Amount) Zero() Amount                 { return Amount{Value: decimal.Zero, Unit: a.Unit} }
func (a Amount) Add(b Amount) Amount          { return Amount{Value: a.Value.Add(b.Value), Unit: a.Unit} }
func (a Amount) Sub(b Amount) Amount          { return Amount{Value: a.Value.Sub(b.Value), Unit: a.Unit} }
func (a Amount) Mul(s decimal.Decimal) Amount { return Amount{Value: a.Value.Mul(s), Unit: a.Unit} }
func (a Amount) Div(s decimal.Decimal) Amount { return Amount{Value: a.Value.Div(s), Unit: a.Unit} }
func (a Amount) Neg() Amount                  { return Amount{Value: a.Value.Neg(), Unit: a.Unit} }
func (a Amount) IsNegative() bool             { return a.Value.IsNegative() }
func (a Amount) IsZero() bool                 { return a.Value.IsZero() }
func (a Amount) IsPositive() bool             { return a.Value.IsPositive() }
func (a Amount) GreaterThan(b Amount) bool    { return a.Value.GreaterThan(b.Value) }
func (a Amount) LessThan(b Amount) bool       { return a.Value.LessThan(b.Value) }
func (a Amount) Equal(b Amount) bool          { return a.Value.Equal(b.Value) && a.Unit == b.Unit }

func (a Amount) Min(b Amount) Amount {
	if a.LessThan(b) {
		return a
	}
	return b
}

func (a Amount) Max(b Amount) Amount {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// Round rounds half away from zero to the given number of places.
func (a Amount) Round(places int32) Amount {
	return Amount{Value: a.Value.Round(places), Unit: a.Unit}
}

// RoundCurrency rounds to CurrencyPrecision.
func (a Amount) RoundCurrency() Amount { return a.Round(CurrencyPrecision) }

// String renders the value without trailing zeros ("1.5", "-0.5", "28").
func (a Amount) String() string { return a.Value.String() }

// Fixed renders the value with exactly places decimals ("5384.62").
func (a Amount) Fixed(places int32) string { return a.Value.StringFixed(places) }

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string

// =============================================================================
// WARNING - Soft anomaly attached to a result
// =============================================================================

type WarningKind string

const (
	// DataIntegrity flags input data that does not line up (a debit outside
	// its month, status counts that miss days, duplicate dates).
	DataIntegrity WarningKind = "data_integrity"

	// InconsistentConfiguration flags a configuration whose results are
	// arithmetically valid but violate payroll policy (negative net pay).
	InconsistentConfiguration WarningKind = "inconsistent_configuration"
)

// Warning is surfaced with a result instead of aborting the computation.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Date    string      `json:"date,omitempty"`
}

func (w Warning) String() string {
	if w.Date != "" {
		return string(w.Kind) + "/" + w.Code + " (" + w.Date + "): " + w.Message
	}
	return string(w.Kind) + "/" + w.Code + ": " + w.Message
}

// HasWarning reports whether any warning in ws carries the given code.
func HasWarning(ws []Warning, code string) bool {
	for _, w := range ws {
		if w.Code == code {
			return true
		}
	}
	return false
}
