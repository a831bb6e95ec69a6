package attendance

import (
	"fmt"
	"sort"
	"time"

	"github.com/warp/payslip-engine/core"
)

// =============================================================================
// MONTHLY SUMMARY
// =============================================================================

// Counts holds one counter per status.
type Counts struct {
	Present  int `json:"present"`
	Absent   int `json:"absent"`
	Holiday  int `json:"holiday"`
	Sunday   int `json:"sunday"`
	Saturday int `json:"saturday"`
	OnLeave  int `json:"onLeave"`
	CompOff  int `json:"compOff"`
	HalfDay  int `json:"halfDay"`
	Unknown  int `json:"unknown"`
}

func (c *Counts) add(s Status) {
	switch s {
	case StatusPresent:
		c.Present++
	case StatusAbsent:
		c.Absent++
	case StatusHoliday:
		c.Holiday++
	case StatusSunday:
		c.Sunday++
	case StatusSaturday:
		c.Saturday++
	case StatusOnLeave:
		c.OnLeave++
	case StatusCompOff:
		c.CompOff++
	case StatusHalfDay:
		c.HalfDay++
	default:
		c.Unknown++
	}
}

// Of returns the counter for a status.
func (c Counts) Of(s Status) int {
	switch s {
	case StatusPresent:
		return c.Present
	case StatusAbsent:
		return c.Absent
	case StatusHoliday:
		return c.Holiday
	case StatusSunday:
		return c.Sunday
	case StatusSaturday:
		return c.Saturday
	case StatusOnLeave:
		return c.OnLeave
	case StatusCompOff:
		return c.CompOff
	case StatusHalfDay:
		return c.HalfDay
	default:
		return c.Unknown
	}
}

func (c Counts) Total() int {
	return c.Present + c.Absent + c.Holiday + c.Sunday + c.Saturday +
		c.OnLeave + c.CompOff + c.HalfDay + c.Unknown
}

// WeeklyOffs is Sundays plus Saturdays.
func (c Counts) WeeklyOffs() int { return c.Sunday + c.Saturday }

// Summary aggregates one employee's records for one month.
type Summary struct {
	Month           core.YearMonth
	TotalDays       int
	Counts          Counts
	LateInDays      int
	RequiredHours   core.Amount
	WorkedHours     core.Amount
	ShortfallHours  core.Amount
	AveragePunchIn  *core.TimeOfDay
	AveragePunchOut *core.TimeOfDay
	Warnings        []core.Warning
}

// Summarize aggregates the records that fall in month. requiredHours is the
// company's required working hours for the month.
//
// Records outside the month and repeated dates are skipped and flagged.
// If the status counts do not cover every day of the month the summary is
// still produced, with a data-integrity warning.
func Summarize(month core.YearMonth, records []Record, requiredHours core.Amount) (Summary, error) {
	if err := month.Validate(); err != nil {
		return Summary{}, err
	}
	if requiredHours.IsNegative() {
		return Summary{}, &core.ArgumentError{Field: "requiredHours", Value: requiredHours.String(), Reason: "must not be negative"}
	}

	ordered := make([]Record, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	var (
		counts    Counts
		warnings  []core.Warning
		worked    time.Duration
		lateDays  int
		seen      = make(map[string]bool, len(ordered))
		punchIns  []core.TimeOfDay
		punchOuts []core.TimeOfDay
	)

	for _, rec := range ordered {
		if !month.Contains(rec.Date) {
			warnings = append(warnings, core.Warning{
				Kind:    core.DataIntegrity,
				Code:    "record_outside_month",
				Message: fmt.Sprintf("record is not in %s; skipped", month),
				Date:    rec.Date.String(),
			})
			continue
		}
		if seen[rec.Date.String()] {
			warnings = append(warnings, core.Warning{
				Kind:    core.DataIntegrity,
				Code:    "duplicate_date",
				Message: "more than one status for the same date; later record skipped",
				Date:    rec.Date.String(),
			})
			continue
		}
		seen[rec.Date.String()] = true

		warnings = append(warnings, rec.Warnings...)
		counts.add(rec.Status)
		worked += rec.HoursWorked
		if rec.Punctuality == Late {
			lateDays++
		}
		if rec.PunchIn != nil {
			punchIns = append(punchIns, *rec.PunchIn)
		}
		if rec.PunchOut != nil {
			punchOuts = append(punchOuts, *rec.PunchOut)
		}
	}

	totalDays := month.DaysIn()
	if counts.Total() != totalDays {
		warnings = append(warnings, core.Warning{
			Kind:    core.DataIntegrity,
			Code:    "status_count_mismatch",
			Message: fmt.Sprintf("status counts cover %d of %d days in %s", counts.Total(), totalDays, month),
		})
	}

	workedHours := core.DurationHours(worked)
	shortfall := requiredHours.Sub(workedHours).Max(requiredHours.Zero())

	return Summary{
		Month:           month,
		TotalDays:       totalDays,
		Counts:          counts,
		LateInDays:      lateDays,
		RequiredHours:   requiredHours,
		WorkedHours:     workedHours,
		ShortfallHours:  shortfall,
		AveragePunchIn:  averageTime(punchIns),
		AveragePunchOut: averageTime(punchOuts),
		Warnings:        warnings,
	}, nil
}

// averageTime is the mean time of day rounded to the nearest minute.
func averageTime(times []core.TimeOfDay) *core.TimeOfDay {
	if len(times) == 0 {
		return nil
	}
	sum := 0
	for _, t := range times {
		sum += t.Minutes
	}
	n := len(times)
	return &core.TimeOfDay{Minutes: (sum + n/2) / n}
}
