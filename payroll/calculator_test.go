package payroll_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payslip-engine/attendance"
	"github.com/warp/payslip-engine/core"
	"github.com/warp/payslip-engine/payroll"
)

func standardConfig() payroll.SalaryConfig {
	return payroll.SalaryConfig{
		MonthlyGrossSalary:         decimal.NewFromInt(40000),
		WorkingHoursPerDayRequired: decimal.NewFromInt(8),
		CompanyWorkingDays:         decimal.NewFromInt(26),
		CompanyWorkingHours:        decimal.NewFromInt(208),
	}
}

// =============================================================================
// DEDUCTION ARITHMETIC
// =============================================================================

func TestCompute_ShortfallDeduction(t *testing.T) {
	// GIVEN: 208h required, 180h worked, 8h/day, 40000 gross, 26 days
	// WHEN: computing the deduction
	// THEN: 28h short = 3.5 days at 1538.46/day = 5384.62 deducted
	res, err := payroll.Compute(core.Hours(180), standardConfig())
	require.NoError(t, err)

	assert.Equal(t, "28", res.HoursShortfall.String())
	assert.Equal(t, "3.5", res.DeductionDays.String())
	assert.Equal(t, "1538.46", res.DailySalary.Fixed(2))
	assert.Equal(t, "5384.62", res.TotalDeduction.Fixed(2))
	assert.Equal(t, "34615.38", res.NetPayable.Fixed(2))
	assert.False(t, res.Capped)
	assert.Empty(t, res.Warnings)
}

func TestComputeDeduction_UsesSummaryHours(t *testing.T) {
	summary := attendance.Summary{WorkedHours: core.Hours(180)}
	res, err := payroll.ComputeDeduction(summary, standardConfig())
	require.NoError(t, err)
	assert.Equal(t, "34615.38", res.NetPayable.Fixed(2))
}

func TestCompute_ShortfallNeverNegative(t *testing.T) {
	// For worked <= required the shortfall is the difference, otherwise 0.
	cfg := standardConfig()
	for _, worked := range []float64{0, 100, 207.5, 208, 208.25, 300} {
		res, err := payroll.Compute(core.Hours(worked), cfg)
		require.NoError(t, err)

		assert.False(t, res.HoursShortfall.IsNegative(), "worked=%v", worked)
		if worked <= 208 {
			expected := decimal.NewFromInt(208).Sub(decimal.NewFromFloat(worked))
			assert.True(t, expected.Equal(res.HoursShortfall.Value), "worked=%v", worked)
		} else {
			assert.True(t, res.HoursShortfall.IsZero(), "worked=%v", worked)
			assert.Equal(t, "40000.00", res.NetPayable.Fixed(2))
		}
	}
}

func TestCompute_FractionalDaysStayUnrounded(t *testing.T) {
	// 1h short at 8h/day is 0.125 days, not truncated to 0.
	res, err := payroll.Compute(core.Hours(207), standardConfig())
	require.NoError(t, err)

	assert.Equal(t, "0.125", res.DeductionDays.String())
	assert.Equal(t, "192.31", res.TotalDeduction.Fixed(2))
	assert.Equal(t, "39807.69", res.NetPayable.Fixed(2))
}

func TestCompute_DefaultRequiredHours(t *testing.T) {
	// CompanyWorkingHours unset: 26 days x 8h = 208h.
	cfg := standardConfig()
	cfg.CompanyWorkingHours = decimal.Zero

	res, err := payroll.Compute(core.Hours(180), cfg)
	require.NoError(t, err)
	assert.Equal(t, "208", res.RequiredHours.String())
	assert.Equal(t, "5384.62", res.TotalDeduction.Fixed(2))
}

// =============================================================================
// CONFIG BOUNDARY
// =============================================================================

func TestCompute_ZeroDivisorsRejected(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*payroll.SalaryConfig)
		field  string
	}{
		{"zero hours per day", func(c *payroll.SalaryConfig) { c.WorkingHoursPerDayRequired = decimal.Zero }, "workingHoursPerDayRequired"},
		{"zero working days", func(c *payroll.SalaryConfig) { c.CompanyWorkingDays = decimal.Zero }, "companyWorkingDays"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := standardConfig()
			tt.mutate(&cfg)

			_, err := payroll.Compute(core.Hours(180), cfg)
			require.ErrorIs(t, err, core.ErrDivisionByZero)

			var zde *core.ZeroDivisorError
			require.ErrorAs(t, err, &zde)
			assert.Equal(t, tt.field, zde.Field)
			assert.True(t, core.IsClientError(err))
		})
	}
}

func TestValidate_NegativeValues(t *testing.T) {
	cfg := standardConfig()
	cfg.MonthlyGrossSalary = decimal.NewFromInt(-1)
	assert.ErrorIs(t, cfg.Validate(), core.ErrInvalidArgument)

	cfg = standardConfig()
	cfg.CompanyWorkingHours = decimal.NewFromInt(-8)
	assert.ErrorIs(t, cfg.Validate(), core.ErrInvalidArgument)

	cfg = standardConfig()
	cfg.WorkingHoursPerDayRequired = decimal.NewFromInt(-8)
	assert.ErrorIs(t, cfg.Validate(), core.ErrInvalidArgument)
}

func TestCompute_NegativeHoursRejected(t *testing.T) {
	_, err := payroll.Compute(core.Hours(-1), standardConfig())
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

// =============================================================================
// INCONSISTENT CONFIGURATION
// =============================================================================

func TestCompute_DeductionDaysCapped(t *testing.T) {
	// GIVEN: required hours far above what the working days can cover
	// WHEN: nothing is worked
	// THEN: deduction days are capped at the working days and flagged
	cfg := standardConfig()
	cfg.CompanyWorkingHours = decimal.NewFromInt(400)

	res, err := payroll.Compute(core.Hours(0), cfg)
	require.NoError(t, err)

	assert.True(t, res.Capped)
	assert.Equal(t, "50", res.RawDeductionDays.String())
	assert.Equal(t, "26", res.DeductionDays.String())
	assert.Equal(t, "40000.00", res.TotalDeduction.Fixed(2))
	assert.Equal(t, "0.00", res.NetPayable.Fixed(2))
	assert.True(t, res.Flagged())
	assert.True(t, core.HasWarning(res.Warnings, "deduction_days_capped"))
	assert.False(t, core.HasWarning(res.Warnings, "negative_net_payable"))
}

// =============================================================================
// AMOUNT IN WORDS
// =============================================================================

func TestAmountInWords(t *testing.T) {
	cases := map[string]string{
		"34615.38":  "Rupees Thirty Four Thousand Six Hundred Fifteen and Thirty Eight Paise Only",
		"40000":     "Rupees Forty Thousand Only",
		"0":         "Rupees Zero Only",
		"0.5":       "Rupees Zero and Fifty Paise Only",
		"101":       "Rupees One Hundred One Only",
		"1234567":   "Rupees Twelve Lakh Thirty Four Thousand Five Hundred Sixty Seven Only",
		"210000000": "Rupees Twenty One Crore Only",
		"-12":       "Minus Rupees Twelve Only",
		"19.999":    "Rupees Twenty Only",
	}
	for in, want := range cases {
		assert.Equal(t, want, payroll.AmountInWords(decimal.RequireFromString(in)), in)
	}
}
