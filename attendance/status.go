// Package attendance normalizes raw per-day attendance into typed records
// and aggregates them into monthly summaries.
package attendance

import "strings"

// =============================================================================
// STATUS VOCABULARY
// =============================================================================

// Status is the fixed per-day attendance outcome.
type Status string

const (
	StatusPresent  Status = "Present"
	StatusAbsent   Status = "Absent"
	StatusHoliday  Status = "Holiday"
	StatusSunday   Status = "Sunday"
	StatusSaturday Status = "Saturday"
	StatusOnLeave  Status = "On Leave"
	StatusCompOff  Status = "Comp Off"
	StatusHalfDay  Status = "Half Day"
	StatusUnknown  Status = "Unknown"
)

// Statuses lists the vocabulary in report order.
var Statuses = []Status{
	StatusPresent,
	StatusAbsent,
	StatusHoliday,
	StatusSunday,
	StatusSaturday,
	StatusOnLeave,
	StatusCompOff,
	StatusHalfDay,
	StatusUnknown,
}

var statusByKey = map[string]Status{
	"present":  StatusPresent,
	"absent":   StatusAbsent,
	"holiday":  StatusHoliday,
	"sunday":   StatusSunday,
	"saturday": StatusSaturday,
	"onleave":  StatusOnLeave,
	"compoff":  StatusCompOff,
	"halfday":  StatusHalfDay,
	"unknown":  StatusUnknown,
}

// ParseStatus maps a raw status string onto the vocabulary. Matching ignores
// case, whitespace, '_' and '-'. Anything else is StatusUnknown.
func ParseStatus(raw string) Status {
	if s, ok := statusByKey[statusKey(raw)]; ok {
		return s
	}
	return StatusUnknown
}

func statusKey(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(raw) {
		switch r {
		case ' ', '\t', '_', '-':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// IsWeeklyOff reports Sunday and Saturday statuses.
func (s Status) IsWeeklyOff() bool { return s == StatusSunday || s == StatusSaturday }

// AllowsHours reports whether hours may be recorded against the status.
func (s Status) AllowsHours() bool { return s != StatusAbsent && s != StatusHoliday }

// =============================================================================
// DISPLAY CATEGORY
// =============================================================================

// Category groups statuses for display (legend, colour keys in renderers).
type Category string

const (
	CategoryPresent   Category = "present"
	CategoryAbsent    Category = "absent"
	CategoryHoliday   Category = "holiday"
	CategoryWeeklyOff Category = "weekly_off"
	CategoryLeave     Category = "leave"
	CategoryCompOff   Category = "comp_off"
	CategoryHalfDay   Category = "half_day"
	CategoryUnknown   Category = "unknown"
)

func (s Status) Category() Category {
	switch s {
	case StatusPresent:
		return CategoryPresent
	case StatusAbsent:
		return CategoryAbsent
	case StatusHoliday:
		return CategoryHoliday
	case StatusSunday, StatusSaturday:
		return CategoryWeeklyOff
	case StatusOnLeave:
		return CategoryLeave
	case StatusCompOff:
		return CategoryCompOff
	case StatusHalfDay:
		return CategoryHalfDay
	default:
		return CategoryUnknown
	}
}

// =============================================================================
// PUNCTUALITY - Three-way late-in classification
// =============================================================================

// Punctuality distinguishes "on time" from "not applicable"; the two must
// never collapse.
type Punctuality string

const (
	OnTime        Punctuality = "on_time"
	Late          Punctuality = "late"
	NotApplicable Punctuality = "not_applicable"
)

func (p Punctuality) Label() string {
	switch p {
	case OnTime:
		return "On Time"
	case Late:
		return "Late"
	default:
		return "-"
	}
}
