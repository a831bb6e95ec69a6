// Package config loads server settings from the environment (optionally
// seeded from a .env file) and the company profile from YAML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/warp/payslip-engine/payroll"
	"github.com/warp/payslip-engine/report"
)

type Config struct {
	App     AppConfig
	Profile Profile
}

// AppConfig holds process-level settings.
type AppConfig struct {
	Port        int
	Env         string
	DBPath      string
	LogLevel    string
	ConfigFile  string
	CORSOrigins []string
	BatchLimit  int

	// AccrualInterval is how often the leave accrual job runs; 0 disables it.
	AccrualInterval time.Duration
}

// Profile is the company profile read from YAML:
//
//	company:
//	  name: Acme Technologies
//	  logoUrl: https://example.com/logo.png
//	  currencySymbol: "₹"
//	defaultSalary:
//	  workingHoursPerDay: 8
//	  workingDays: 26
//	leave:
//	  monthlyCredit: 1.5
type Profile struct {
	Company       report.Company `yaml:"company"`
	DefaultSalary SalaryDefaults `yaml:"defaultSalary"`
	Leave         LeavePolicy    `yaml:"leave"`
}

// LeavePolicy drives the monthly leave accrual job.
type LeavePolicy struct {
	MonthlyCredit float64 `yaml:"monthlyCredit"`
}

// SalaryDefaults fill in salary configs that omit the company policy.
type SalaryDefaults struct {
	WorkingHoursPerDay float64 `yaml:"workingHoursPerDay"`
	WorkingDays        float64 `yaml:"workingDays"`
	WorkingHours       float64 `yaml:"workingHours"`
}

// DefaultProfile is used when no profile file is configured.
func DefaultProfile() Profile {
	return Profile{
		Company: report.Company{
			Name:           "Payslip Engine",
			CurrencySymbol: report.DefaultCurrencySymbol,
			Footer:         report.DefaultFooter,
		},
		DefaultSalary: SalaryDefaults{WorkingHoursPerDay: 8, WorkingDays: 26},
		Leave:         LeavePolicy{MonthlyCredit: 1.5},
	}
}

// Load reads envFiles (default ".env"; missing files are ignored), then the
// environment, then the YAML profile named by CONFIG_FILE.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}
	batch, err := strconv.Atoi(getEnv("BATCH_LIMIT", "8"))
	if err != nil || batch < 1 {
		return nil, fmt.Errorf("invalid BATCH_LIMIT %q", os.Getenv("BATCH_LIMIT"))
	}
	accrual, err := time.ParseDuration(getEnv("ACCRUAL_INTERVAL", "1h"))
	if err != nil || accrual < 0 {
		return nil, fmt.Errorf("invalid ACCRUAL_INTERVAL %q", os.Getenv("ACCRUAL_INTERVAL"))
	}

	cfg := &Config{
		App: AppConfig{
			Port:        port,
			Env:         getEnv("APP_ENV", "development"),
			DBPath:      getEnv("DB_PATH", ""),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			ConfigFile:  getEnv("CONFIG_FILE", ""),
			CORSOrigins: getEnvSlice("CORS_ORIGINS", []string{"*"}),
			BatchLimit:  batch,

			AccrualInterval: accrual,
		},
		Profile: DefaultProfile(),
	}

	if cfg.App.ConfigFile != "" {
		profile, err := LoadProfile(cfg.App.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg.Profile = profile
	}
	return cfg, nil
}

// LoadProfile reads a YAML company profile. Fields left out keep their
// DefaultProfile values.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}
	return ParseProfile(data)
}

func ParseProfile(data []byte) (Profile, error) {
	p := DefaultProfile()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parse profile: %w", err)
	}
	if p.Company.Name == "" {
		return Profile{}, errors.New("profile: company.name is required")
	}
	if p.DefaultSalary.WorkingHoursPerDay < 0 || p.DefaultSalary.WorkingDays < 0 || p.DefaultSalary.WorkingHours < 0 {
		return Profile{}, errors.New("profile: defaultSalary values must not be negative")
	}
	if p.Leave.MonthlyCredit < 0 {
		return Profile{}, errors.New("profile: leave.monthlyCredit must not be negative")
	}
	return p, nil
}

// ApplyDefaults fills zero policy fields of cfg from the profile. The
// gross salary is always the employee's own.
func (d SalaryDefaults) ApplyDefaults(cfg payroll.SalaryConfig) payroll.SalaryConfig {
	if cfg.WorkingHoursPerDayRequired.IsZero() {
		cfg.WorkingHoursPerDayRequired = decimal.NewFromFloat(d.WorkingHoursPerDay)
	}
	if cfg.CompanyWorkingDays.IsZero() {
		cfg.CompanyWorkingDays = decimal.NewFromFloat(d.WorkingDays)
	}
	if cfg.CompanyWorkingHours.IsZero() && d.WorkingHours > 0 {
		cfg.CompanyWorkingHours = decimal.NewFromFloat(d.WorkingHours)
	}
	return cfg
}

// SlogLevel maps LOG_LEVEL onto slog levels; unknown values mean info.
func (a AppConfig) SlogLevel() slog.Level {
	switch strings.ToLower(a.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
