package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payslip-engine/config"
	"github.com/warp/payslip-engine/payroll"
)

const profileYAML = `
company:
  name: Acme Technologies
  logoUrl: https://example.com/logo.png
defaultSalary:
  workingHoursPerDay: 9
  workingDays: 24
leave:
  monthlyCredit: 2
`

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_PATH", "LOG_LEVEL", "CONFIG_FILE", "CORS_ORIGINS", "BATCH_LIMIT", "ACCRUAL_INTERVAL"} {
		t.Setenv(k, "")
	}

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 8, cfg.App.BatchLimit)
	assert.Equal(t, time.Hour, cfg.App.AccrualInterval)
	assert.Equal(t, []string{"*"}, cfg.App.CORSOrigins)
	assert.Equal(t, slog.LevelInfo, cfg.App.SlogLevel())
	assert.Equal(t, config.DefaultProfile(), cfg.Profile)
}

func TestLoad_EnvFileAndProfile(t *testing.T) {
	// GIVEN: a .env naming a YAML profile
	// WHEN: loading
	// THEN: env values and profile are both applied
	dir := t.TempDir()
	profile := filepath.Join(dir, "company.yaml")
	require.NoError(t, os.WriteFile(profile, []byte(profileYAML), 0o600))

	env := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(env, []byte(
		"PORT=9090\nLOG_LEVEL=debug\nCORS_ORIGINS=https://a.example, https://b.example\nCONFIG_FILE="+profile+"\n",
	), 0o600))

	// godotenv never overrides variables that are already set
	for _, k := range []string{"PORT", "LOG_LEVEL", "CORS_ORIGINS", "CONFIG_FILE", "BATCH_LIMIT"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := config.Load(env)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, slog.LevelDebug, cfg.App.SlogLevel())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.CORSOrigins)
	assert.Equal(t, "Acme Technologies", cfg.Profile.Company.Name)
	assert.Equal(t, "₹", cfg.Profile.Company.CurrencySymbol)
	assert.Equal(t, 9.0, cfg.Profile.DefaultSalary.WorkingHoursPerDay)
	assert.Equal(t, 2.0, cfg.Profile.Leave.MonthlyCredit)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "eighty")
	_, err := config.Load(filepath.Join(t.TempDir(), "none.env"))
	assert.Error(t, err)
}

func TestLoad_AccrualInterval(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("BATCH_LIMIT", "")
	t.Setenv("CONFIG_FILE", "")

	t.Setenv("ACCRUAL_INTERVAL", "0s")
	cfg, err := config.Load(filepath.Join(t.TempDir(), "none.env"))
	require.NoError(t, err)
	assert.Zero(t, cfg.App.AccrualInterval)

	t.Setenv("ACCRUAL_INTERVAL", "soon")
	_, err = config.Load(filepath.Join(t.TempDir(), "none.env"))
	assert.Error(t, err)
}

func TestParseProfile_Validation(t *testing.T) {
	_, err := config.ParseProfile([]byte("company:\n  name: \"\"\n"))
	assert.Error(t, err)

	_, err = config.ParseProfile([]byte("company:\n  name: X\ndefaultSalary:\n  workingDays: -1\n"))
	assert.Error(t, err)

	_, err = config.ParseProfile([]byte("company:\n  name: X\nleave:\n  monthlyCredit: -1\n"))
	assert.Error(t, err)

	_, err = config.ParseProfile([]byte("company: [not, a, map]"))
	assert.Error(t, err)
}

func TestApplyDefaults(t *testing.T) {
	p, err := config.ParseProfile([]byte(profileYAML))
	require.NoError(t, err)

	cfg := p.DefaultSalary.ApplyDefaults(payroll.SalaryConfig{MonthlyGrossSalary: decimal.NewFromInt(30000)})
	assert.Equal(t, "9", cfg.WorkingHoursPerDayRequired.String())
	assert.Equal(t, "24", cfg.CompanyWorkingDays.String())
	assert.True(t, cfg.CompanyWorkingHours.IsZero())
	assert.Equal(t, "216", cfg.RequiredHours().String())

	// Explicit values win
	cfg = p.DefaultSalary.ApplyDefaults(payroll.SalaryConfig{CompanyWorkingDays: decimal.NewFromInt(26)})
	assert.Equal(t, "26", cfg.CompanyWorkingDays.String())
}
