package factory

import "fmt"

// StandardJSON is a policy with 8-hour days and Sundays off; working days
// follow the calendar.
func StandardJSON(id string, monthlyGross float64) string {
	return fmt.Sprintf(`{
		"id": %q,
		"name": "Standard (Sundays off)",
		"monthly_gross": %v,
		"hours_per_day": 8,
		"weekly_offs": ["sunday"]
	}`, id, monthlyGross)
}

// FiveDayWeekJSON is a policy with 9-hour days and both weekend days off.
func FiveDayWeekJSON(id string, monthlyGross float64) string {
	return fmt.Sprintf(`{
		"id": %q,
		"name": "Five-day week",
		"monthly_gross": %v,
		"hours_per_day": 9,
		"weekly_offs": ["saturday", "sunday"]
	}`, id, monthlyGross)
}

// FixedMonthJSON pins the month to a fixed number of working days and
// required hours regardless of the calendar.
func FixedMonthJSON(id string, monthlyGross float64, days, hoursPerDay, requiredHours int) string {
	return fmt.Sprintf(`{
		"id": %q,
		"name": "Fixed %d-day month",
		"monthly_gross": %v,
		"hours_per_day": %d,
		"working_days": %d,
		"working_hours": %d
	}`, id, days, monthlyGross, hoursPerDay, days, requiredHours)
}
