package attendance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/payslip-engine/core"
)

// =============================================================================
// RAW RECORD - As supplied by the attendance API
// =============================================================================

// RawRecord is one day of attendance as it arrives over the wire.
// AttendanceDate is accepted as an alias of Date.
type RawRecord struct {
	Date           string   `json:"date,omitempty"`
	AttendanceDate string   `json:"attendanceDate,omitempty"`
	Status         string   `json:"status"`
	PunchInTime    string   `json:"punchInTime,omitempty"`
	PunchOutTime   string   `json:"punchOutTime,omitempty"`
	HoursWorked    RawHours `json:"hoursWorked,omitempty"`
	LateIn         *string  `json:"lateIn"`
}

// RawHours holds hoursWorked either as "HH:MM" or as decimal hours ("7.5").
// JSON numbers and strings are both accepted.
type RawHours string

func (h *RawHours) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*h = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*h = RawHours(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("hoursWorked: %w", err)
	}
	*h = RawHours(n.String())
	return nil
}

// Duration parses the raw value. Empty means zero.
func (h RawHours) Duration() (time.Duration, error) {
	s := strings.TrimSpace(string(h))
	if s == "" {
		return 0, nil
	}
	if strings.Contains(s, ":") {
		return core.ParseDuration(s)
	}
	hours, err := decimal.NewFromString(s)
	if err != nil || hours.IsNegative() {
		return 0, &core.ArgumentError{Field: "hoursWorked", Value: s, Reason: "expected HH:MM or non-negative hours"}
	}
	minutes := hours.Mul(decimal.NewFromInt(60)).Round(0).IntPart()
	return time.Duration(minutes) * time.Minute, nil
}

// =============================================================================
// RECORD - Normalized day
// =============================================================================

// Record is one classified calendar day for one employee.
type Record struct {
	Date        core.Date
	Status      Status
	PunchIn     *core.TimeOfDay
	PunchOut    *core.TimeOfDay
	HoursWorked time.Duration
	// LateIn is nil when lateness does not apply (e.g. absent).
	LateIn      *time.Duration
	Punctuality Punctuality
	Category    Category
	Warnings    []core.Warning
}

// Classify normalizes a raw record. Unknown statuses become StatusUnknown;
// malformed dates and times fail with core.ErrInvalidArgument.
func Classify(raw RawRecord) (Record, error) {
	dateStr := raw.Date
	if dateStr == "" {
		dateStr = raw.AttendanceDate
	}
	date, err := core.ParseDate(dateStr)
	if err != nil {
		return Record{}, err
	}

	punchIn, err := core.ParseTimeOfDay(raw.PunchInTime)
	if err != nil {
		return Record{}, fmt.Errorf("%s punchInTime: %w", date, err)
	}
	punchOut, err := core.ParseTimeOfDay(raw.PunchOutTime)
	if err != nil {
		return Record{}, fmt.Errorf("%s punchOutTime: %w", date, err)
	}
	hours, err := raw.HoursWorked.Duration()
	if err != nil {
		return Record{}, fmt.Errorf("%s: %w", date, err)
	}
	lateIn, punctuality, err := classifyLateIn(raw.LateIn)
	if err != nil {
		return Record{}, fmt.Errorf("%s lateIn: %w", date, err)
	}

	status := ParseStatus(raw.Status)
	rec := Record{
		Date:        date,
		Status:      status,
		PunchIn:     punchIn,
		PunchOut:    punchOut,
		HoursWorked: hours,
		LateIn:      lateIn,
		Punctuality: punctuality,
		Category:    status.Category(),
	}

	if !status.AllowsHours() && hours != 0 {
		rec.Warnings = append(rec.Warnings, core.Warning{
			Kind:    core.DataIntegrity,
			Code:    "hours_on_non_working_day",
			Message: fmt.Sprintf("%s recorded on a %s day; counted as zero", core.FormatDuration(hours), status),
			Date:    date.String(),
		})
		rec.HoursWorked = 0
	}
	return rec, nil
}

// ClassifyAll classifies records in input order and stops at the first
// malformed record.
func ClassifyAll(raws []RawRecord) ([]Record, error) {
	out := make([]Record, 0, len(raws))
	for i, raw := range raws {
		rec, err := Classify(raw)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func classifyLateIn(raw *string) (*time.Duration, Punctuality, error) {
	if raw == nil {
		return nil, NotApplicable, nil
	}
	s := strings.TrimSpace(*raw)
	if s == "" || s == "-" {
		return nil, NotApplicable, nil
	}
	d, err := core.ParseDuration(s)
	if err != nil {
		return nil, "", err
	}
	if d == 0 {
		return &d, OnTime, nil
	}
	return &d, Late, nil
}
