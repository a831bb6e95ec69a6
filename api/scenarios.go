/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the store with realistic
	data for demos. Each scenario creates employees, salary configs,
	a month of attendance and a few months of leave history.

AVAILABLE SCENARIOS:

	shortfall:       Six-day week, 180 of 208 hours worked (3.5 days deducted)
	full-attendance: Five-day week, every required hour worked
	team:            Both employees above

HOW SCENARIOS WORK:
 1. Reset the store (clear all data)
 2. Create employees
 3. Resolve salary policies via the factory for the scenario month
 4. Add attendance for the scenario month
 5. Add monthly leave credits and leave taken

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "shortfall"}

	GET /api/employees/EMP-001/slips/2024-03

NOTE:

	Scenarios reset the store. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Slip and ledger endpoints
  - factory/presets.go: Salary policy definitions
*/
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payslip-engine/attendance"
	"github.com/warp/payslip-engine/core"
	"github.com/warp/payslip-engine/factory"
	"github.com/warp/payslip-engine/ledger"
	"github.com/warp/payslip-engine/report"
)

// ScenarioMonth is the month every scenario records attendance for.
var ScenarioMonth = core.YearMonth{Year: 2024, Month: time.March}

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "shortfall",
		Name:        "Hours Shortfall",
		Description: "Six-day week, 180 of 208 required hours worked, one absence and one leave day",
	},
	{
		ID:          "full-attendance",
		Name:        "Full Attendance",
		Description: "Five-day week with every required hour worked; no deduction",
	},
	{
		ID:          "team",
		Name:        "Team",
		Description: "Both employees, for batch generation and listing",
	},
}

var scenarioLoaders = map[string]func(ctx context.Context, h *Handler) error{
	"shortfall":       loadShortfallScenario,
	"full-attendance": loadFullAttendanceScenario,
	"team": func(ctx context.Context, h *Handler) error {
		if err := loadShortfallScenario(ctx, h); err != nil {
			return err
		}
		return loadFullAttendanceScenario(ctx, h)
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	current := h.currentScenario
	h.mu.RUnlock()

	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario resets the store and loads a scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if !decode(w, r, &req) {
		return
	}

	load, ok := scenarioLoaders[req.ScenarioID]
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", fmt.Errorf("scenario %q", req.ScenarioID))
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		h.fail(w, r, "Failed to reset store", err)
		return
	}
	if err := load(ctx, h); err != nil {
		h.fail(w, r, "Failed to load scenario", err)
		return
	}

	h.mu.Lock()
	h.currentScenario = req.ScenarioID
	h.mu.Unlock()

	employees, err := h.Store.ListEmployees(ctx)
	if err != nil {
		h.fail(w, r, "Failed to list employees", err)
		return
	}
	h.Logger.InfoContext(ctx, "scenario loaded", "scenario", req.ScenarioID, "employees", len(employees))

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"scenario":  req.ScenarioID,
		"month":     ScenarioMonth.String(),
		"employees": employees,
	})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// loadShortfallScenario: 26 working days of 8h (Sundays off) = 208h.
// 23 days present (20 x 8h + 3 x 6h40m = 180h), Holi on the 25th, one
// absence and one leave day. Deduction is 28h / 8 = 3.5 days.
func loadShortfallScenario(ctx context.Context, h *Handler) error {
	joined := core.NewDate(2022, time.June, 1)
	emp, err := h.Store.SaveEmployee(ctx, report.Employee{
		ID:          "EMP-001",
		Name:        "Asha Verma",
		Designation: "Software Engineer",
		Department:  "Engineering",
		Joining:     &joined,
		Mobile:      "+91 98765 43210",
	})
	if err != nil {
		return err
	}

	if err := h.savePolicy(ctx, emp.ID, factory.StandardJSON("standard", 40000)); err != nil {
		return err
	}

	short := map[int]bool{5: true, 14: true, 27: true}
	late := map[int]bool{4: true, 18: true}
	records := buildMonth(ScenarioMonth, func(d core.Date) attendance.RawRecord {
		switch {
		case d.Weekday() == time.Sunday:
			return offDay(d, attendance.StatusSunday)
		case d.Day() == 25:
			return offDay(d, attendance.StatusHoliday)
		case d.Day() == 12:
			return offDay(d, attendance.StatusAbsent)
		case d.Day() == 20:
			return offDay(d, attendance.StatusOnLeave)
		case short[d.Day()]:
			return workDay(d, "10:00", "16:40", "06:40", false)
		case late[d.Day()]:
			return workDay(d, "09:15", "17:15", "08:00", true)
		default:
			return workDay(d, "09:00", "17:00", "08:00", false)
		}
	})
	if err := h.Store.SaveAttendance(ctx, emp.ID, records); err != nil {
		return err
	}

	return saveLeaves(ctx, h, emp.ID, []ledger.MonthEvents{
		{Month: core.YearMonth{Year: 2024, Month: time.January}, Credit: decimal.NewFromFloat(1.5), DebitDates: []core.Date{core.NewDate(2024, time.January, 15)}},
		{Month: core.YearMonth{Year: 2024, Month: time.February}, Credit: decimal.NewFromFloat(1.5)},
		{Month: ScenarioMonth, Credit: decimal.NewFromFloat(1.5), DebitDates: []core.Date{core.NewDate(2024, time.March, 20)}},
	})
}

// loadFullAttendanceScenario: 21 weekdays of 9h = 189h, all worked.
func loadFullAttendanceScenario(ctx context.Context, h *Handler) error {
	joined := core.NewDate(2023, time.January, 9)
	emp, err := h.Store.SaveEmployee(ctx, report.Employee{
		ID:          "EMP-002",
		Name:        "Ravi Kumar",
		Designation: "Accountant",
		Department:  "Finance",
		Joining:     &joined,
	})
	if err != nil {
		return err
	}

	if err := h.savePolicy(ctx, emp.ID, factory.FiveDayWeekJSON("five-day", 45000)); err != nil {
		return err
	}

	records := buildMonth(ScenarioMonth, func(d core.Date) attendance.RawRecord {
		switch d.Weekday() {
		case time.Sunday:
			return offDay(d, attendance.StatusSunday)
		case time.Saturday:
			return offDay(d, attendance.StatusSaturday)
		default:
			return workDay(d, "09:00", "18:00", "09:00", false)
		}
	})
	if err := h.Store.SaveAttendance(ctx, emp.ID, records); err != nil {
		return err
	}

	return saveLeaves(ctx, h, emp.ID, []ledger.MonthEvents{
		{Month: core.YearMonth{Year: 2024, Month: time.February}, Credit: decimal.NewFromFloat(1.5)},
		{Month: ScenarioMonth, Credit: decimal.NewFromFloat(1.5)},
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) savePolicy(ctx context.Context, id core.EmployeeID, policyJSON string) error {
	policy, err := h.Policies.ParsePolicy(policyJSON)
	if err != nil {
		return fmt.Errorf("policy: %w", err)
	}
	return h.Store.SaveSalaryConfig(ctx, id, policy.ForMonth(ScenarioMonth))
}

func saveLeaves(ctx context.Context, h *Handler, id core.EmployeeID, months []ledger.MonthEvents) error {
	for _, m := range months {
		if err := h.Store.SaveLeaveMonth(ctx, id, m); err != nil {
			return err
		}
	}
	return nil
}

func buildMonth(month core.YearMonth, day func(core.Date) attendance.RawRecord) []attendance.RawRecord {
	days := month.Days()
	out := make([]attendance.RawRecord, len(days))
	for i, d := range days {
		out[i] = day(d)
	}
	return out
}

func offDay(d core.Date, status attendance.Status) attendance.RawRecord {
	return attendance.RawRecord{Date: d.String(), Status: string(status)}
}

func workDay(d core.Date, in, out, hours string, late bool) attendance.RawRecord {
	lateIn := "00:00"
	if late {
		lateIn = "00:15"
	}
	return attendance.RawRecord{
		Date:         d.String(),
		Status:       string(attendance.StatusPresent),
		PunchInTime:  in,
		PunchOutTime: out,
		HoursWorked:  attendance.RawHours(hours),
		LateIn:       &lateIn,
	}
}
