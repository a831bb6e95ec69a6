package payroll

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ones = []string{
		"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
		"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
		"Seventeen", "Eighteen", "Nineteen",
	}
	tens = []string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}
)

// indian scale, largest first
var scales = []struct {
	value int64
	name  string
}{
	{10000000, "Crore"},
	{100000, "Lakh"},
	{1000, "Thousand"},
	{100, "Hundred"},
}

// AmountInWords spells a rupee amount using Indian numbering, e.g.
// 34615.38 -> "Rupees Thirty Four Thousand Six Hundred Fifteen and Thirty
// Eight Paise Only". The amount is rounded to paise first. Negative amounts
// are prefixed with "Minus".
func AmountInWords(amount decimal.Decimal) string {
	amount = amount.Round(2)
	prefix := ""
	if amount.IsNegative() {
		prefix = "Minus "
		amount = amount.Neg()
	}

	rupees := amount.IntPart()
	paise := amount.Sub(decimal.NewFromInt(rupees)).Mul(decimal.NewFromInt(100)).IntPart()

	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString("Rupees ")
	if rupees == 0 {
		b.WriteString("Zero")
	} else {
		b.WriteString(spell(rupees))
	}
	if paise > 0 {
		b.WriteString(" and ")
		b.WriteString(spell(paise))
		b.WriteString(" Paise")
	}
	b.WriteString(" Only")
	return b.String()
}

// spell writes n > 0 in words. Crores recurse so amounts above 99 crore
// read "One Hundred Crore" rather than overflowing the table.
func spell(n int64) string {
	var parts []string
	for _, s := range scales {
		if n >= s.value {
			parts = append(parts, spell(n/s.value), s.name)
			n %= s.value
		}
	}
	if n > 0 {
		parts = append(parts, belowHundred(n))
	}
	return strings.Join(parts, " ")
}

func belowHundred(n int64) string {
	if n < 20 {
		return ones[n]
	}
	if n%10 == 0 {
		return tens[n/10]
	}
	return tens[n/10] + " " + ones[n%10]
}
