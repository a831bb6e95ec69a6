/*
Package calendar lays a month out as a week-aligned grid.

PURPOSE:
  The attendance calendar on a salary slip is a 7-column (Sun..Sat) table
  with one row per week. This package does only the calendar arithmetic;
  it knows nothing about attendance. Callers overlay their own per-day data
  on the populated cells (see attendance.Overlay).

LAYOUT RULES:
  - Day 1 sits in row 0 at the column of its weekday (Sunday = 0)
  - Days advance left to right, wrapping to the next row after Saturday
  - Slots before day 1 and after the last day are empty cells
  - Rows stop as soon as the last day is placed; a month spans 4 to 6 rows

EXAMPLE:
  February 2024 (leap year, starts Thursday):

    Sun Mon Tue Wed Thu Fri Sat
                      1   2   3
      4   5   6   7   8   9  10
     11  12  13  14  15  16  17
     18  19  20  21  22  23  24
     25  26  27  28  29

SEE ALSO:
  - core/time.go: YearMonth (days in month, leap years)
  - attendance/overlay.go: Fills cells with attendance
*/
package calendar

import (
	"time"

	"github.com/warp/payslip-engine/core"
)

const (
	DaysPerWeek = 7
	MaxWeeks    = 6
)

// Weekdays are the column headers, Sunday first.
var Weekdays = [DaysPerWeek]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Cell is one grid slot. Day is 0 for padding cells.
type Cell struct {
	Day  int
	Date core.Date
}

func (c Cell) IsEmpty() bool { return c.Day == 0 }

// Week is one row of the grid.
type Week [DaysPerWeek]Cell

// Grid is a month laid out as weeks.
type Grid struct {
	Month core.YearMonth
	Weeks []Week
}

// BuildMonthGrid returns the week-aligned grid for the given month.
// It fails with core.ErrInvalidArgument when month is outside [1,12].
func BuildMonthGrid(year, month int) (Grid, error) {
	ym, err := core.NewYearMonth(year, month)
	if err != nil {
		return Grid{}, err
	}
	return GridFor(ym), nil
}

// GridFor lays out an already validated month.
func GridFor(ym core.YearMonth) Grid {
	daysInMonth := ym.DaysIn()
	firstWeekday := int(ym.FirstDay().Weekday())

	weeks := make([]Week, 0, MaxWeeks)
	day := 1
	for row := 0; row < MaxWeeks && day <= daysInMonth; row++ {
		var week Week
		for col := 0; col < DaysPerWeek; col++ {
			if row == 0 && col < firstWeekday {
				continue
			}
			if day > daysInMonth {
				continue
			}
			week[col] = Cell{Day: day, Date: core.NewDate(ym.Year, ym.Month, day)}
			day++
		}
		weeks = append(weeks, week)
	}
	return Grid{Month: ym, Weeks: weeks}
}

// PopulatedCells returns the number of non-empty cells.
func (g Grid) PopulatedCells() int {
	n := 0
	for _, w := range g.Weeks {
		for _, c := range w {
			if !c.IsEmpty() {
				n++
			}
		}
	}
	return n
}

// Position returns the (row, column) of a day, or ok=false if the day is not
// in the grid.
func (g Grid) Position(day int) (row, col int, ok bool) {
	for r, w := range g.Weeks {
		for c, cell := range w {
			if cell.Day == day {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}

// =============================================================================
// MONTH NAMES
// =============================================================================

// MonthName returns the English month name for 1..12.
func MonthName(month int) (string, error) {
	if month < 1 || month > 12 {
		_, err := core.NewYearMonth(1, month)
		return "", err
	}
	return time.Month(month).String(), nil
}
