package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout      = "2006-01-02"
	YearMonthLayout = "2006-01"
	DisplayLayout   = "02 Jan 2006"
)

// =============================================================================
// DATE - Calendar date at day granularity (UTC midnight)
// =============================================================================

type Date struct {
	Time time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO YYYY-MM-DD date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, &ArgumentError{Field: "date", Value: s, Reason: "expected YYYY-MM-DD"}
	}
	return Date{Time: t}, nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.Time.Before(other.Time) }
func (d Date) Equal(other Date) bool         { return d.Time.Equal(other.Time) }
func (d Date) After(other Date) bool         { return d.Time.After(other.Time) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{Time: d.Time.AddDate(0, 0, n)} }

// Properties
func (d Date) Year() int                { return d.Time.Year() }
func (d Date) Month() time.Month        { return d.Time.Month() }
func (d Date) Day() int                 { return d.Time.Day() }
func (d Date) Weekday() time.Weekday    { return d.Time.Weekday() }
func (d Date) IsZero() bool             { return d.Time.IsZero() }
func (d Date) YearMonth() YearMonth     { return YearMonth{Year: d.Year(), Month: d.Month()} }
func (d Date) String() string           { return d.Time.Format(DateLayout) }
func (d Date) DisplayString() string    { return d.Time.Format(DisplayLayout) }
func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// YEAR-MONTH - The period every computation is scoped to
// =============================================================================

type YearMonth struct {
	Year  int
	Month time.Month
}

// NewYearMonth validates month ∈ [1,12].
func NewYearMonth(year, month int) (YearMonth, error) {
	if month < 1 || month > 12 {
		return YearMonth{}, &ArgumentError{Field: "month", Value: strconv.Itoa(month), Reason: "must be between 1 and 12"}
	}
	if year < 1 || year > 9999 {
		return YearMonth{}, &ArgumentError{Field: "year", Value: strconv.Itoa(year), Reason: "must be between 1 and 9999"}
	}
	return YearMonth{Year: year, Month: time.Month(month)}, nil
}

// ParseYearMonth parses YYYY-MM.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse(YearMonthLayout, strings.TrimSpace(s))
	if err != nil {
		return YearMonth{}, &ArgumentError{Field: "month", Value: s, Reason: "expected YYYY-MM"}
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

func (ym YearMonth) Validate() error {
	_, err := NewYearMonth(ym.Year, int(ym.Month))
	return err
}

// FirstDay returns the 1st of the month.
func (ym YearMonth) FirstDay() Date { return NewDate(ym.Year, ym.Month, 1) }

// LastDay returns the last calendar day, Gregorian leap years included.
func (ym YearMonth) LastDay() Date {
	return Date{Time: time.Date(ym.Year, ym.Month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)}
}

func (ym YearMonth) DaysIn() int { return ym.LastDay().Day() }

func (ym YearMonth) Contains(d Date) bool {
	return d.Year() == ym.Year && d.Month() == ym.Month
}

func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

// Days returns every date of the month in order.
func (ym YearMonth) Days() []Date {
	n := ym.DaysIn()
	days := make([]Date, n)
	first := ym.FirstDay()
	for i := 0; i < n; i++ {
		days[i] = first.AddDays(i)
	}
	return days
}

func (ym YearMonth) String() string { return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month)) }

// Title returns e.g. "March 2024".
func (ym YearMonth) Title() string { return fmt.Sprintf("%s %d", ym.Month.String(), ym.Year) }

func (ym YearMonth) MarshalText() ([]byte, error) { return []byte(ym.String()), nil }

func (ym *YearMonth) UnmarshalText(b []byte) error {
	parsed, err := ParseYearMonth(string(b))
	if err != nil {
		return err
	}
	*ym = parsed
	return nil
}

// =============================================================================
// TIME OF DAY - Minutes since midnight, used for punches
// =============================================================================

type TimeOfDay struct {
	Minutes int
}

func NewTimeOfDay(hour, minute int) TimeOfDay { return TimeOfDay{Minutes: hour*60 + minute} }

// ParseTimeOfDay parses a 24-hour HH:MM clock time. An empty string means
// "no punch" and yields (nil, nil).
func ParseTimeOfDay(s string) (*TimeOfDay, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	h, m, err := splitHHMM(s)
	if err != nil || h > 23 {
		return nil, &ArgumentError{Field: "time", Value: s, Reason: "expected HH:MM (24-hour)"}
	}
	return &TimeOfDay{Minutes: h*60 + m}, nil
}

func (t TimeOfDay) Hour() int   { return t.Minutes / 60 }
func (t TimeOfDay) Minute() int { return t.Minutes % 60 }

func (t TimeOfDay) String() string { return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute()) }

// Clock renders a 12-hour time, e.g. "09:05 AM".
func (t TimeOfDay) Clock() string {
	h := t.Hour() % 12
	if h == 0 {
		h = 12
	}
	suffix := "AM"
	if t.Hour() >= 12 {
		suffix = "PM"
	}
	return fmt.Sprintf("%02d:%02d %s", h, t.Minute(), suffix)
}

// OptionalTimeString renders a possibly missing time as "" or HH:MM.
func OptionalTimeString(t *TimeOfDay) string {
	if t == nil {
		return ""
	}
	return t.String()
}

// =============================================================================
// DURATIONS
// =============================================================================

// ParseDuration parses an HH:MM duration. Hours are not capped at 23.
func ParseDuration(s string) (time.Duration, error) {
	h, m, err := splitHHMM(strings.TrimSpace(s))
	if err != nil {
		return 0, &ArgumentError{Field: "duration", Value: s, Reason: "expected HH:MM"}
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}

// FormatDuration renders a duration as HH:MM.
func FormatDuration(d time.Duration) string {
	total := int(d / time.Minute)
	sign := ""
	if total < 0 {
		sign = "-"
		total = -total
	}
	return fmt.Sprintf("%s%02d:%02d", sign, total/60, total%60)
}

// DurationHours converts a duration to decimal hours without rounding.
func DurationHours(d time.Duration) Amount {
	minutes := NewAmountFromInt(int(d/time.Minute), UnitHours)
	return minutes.Div(MustParseDecimal("60"))
}

func splitHHMM(s string) (int, int, error) {
	hs, ms, ok := strings.Cut(s, ":")
	if !ok || hs == "" || len(ms) != 2 {
		return 0, 0, fmt.Errorf("missing colon")
	}
	h, err := strconv.Atoi(hs)
	if err != nil || h < 0 {
		return 0, 0, fmt.Errorf("bad hours")
	}
	m, err := strconv.Atoi(ms)
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("bad minutes")
	}
	return h, m, nil
}
