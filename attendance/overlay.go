package attendance

import (
	"time"

	"github.com/warp/payslip-engine/calendar"
	"github.com/warp/payslip-engine/core"
)

// DayCell is a calendar slot with the day's attendance, if any.
// Empty padding cells have Day == 0.
type DayCell struct {
	Day         int
	Recorded    bool
	Status      Status
	Category    Category
	PunchIn     *core.TimeOfDay
	PunchOut    *core.TimeOfDay
	HoursWorked time.Duration
}

func (c DayCell) IsEmpty() bool { return c.Day == 0 }

// Matrix is the attendance calendar for one month.
type Matrix struct {
	Month core.YearMonth
	Weeks [][calendar.DaysPerWeek]DayCell
}

// Overlay places records on the grid. Days without a record stay
// unrecorded; records for other months are ignored. When a date repeats the
// first record wins, matching Summarize.
func Overlay(grid calendar.Grid, records []Record) Matrix {
	byDay := make(map[int]Record, len(records))
	for _, rec := range records {
		if !grid.Month.Contains(rec.Date) {
			continue
		}
		if _, dup := byDay[rec.Date.Day()]; dup {
			continue
		}
		byDay[rec.Date.Day()] = rec
	}

	weeks := make([][calendar.DaysPerWeek]DayCell, len(grid.Weeks))
	for r, week := range grid.Weeks {
		for c, cell := range week {
			if cell.IsEmpty() {
				continue
			}
			dc := DayCell{Day: cell.Day}
			if rec, ok := byDay[cell.Day]; ok {
				dc.Recorded = true
				dc.Status = rec.Status
				dc.Category = rec.Category
				dc.PunchIn = rec.PunchIn
				dc.PunchOut = rec.PunchOut
				dc.HoursWorked = rec.HoursWorked
			}
			weeks[r][c] = dc
		}
	}
	return Matrix{Month: grid.Month, Weeks: weeks}
}
