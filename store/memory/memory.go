// Package memory provides an in-memory payslip.Store (for testing/dev).
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/warp/payslip-engine/attendance"
	"github.com/warp/payslip-engine/core"
	"github.com/warp/payslip-engine/ledger"
	"github.com/warp/payslip-engine/payroll"
	"github.com/warp/payslip-engine/report"
)

// =============================================================================
// MEMORY STORE
// =============================================================================

type Store struct {
	mu         sync.RWMutex
	employees  map[core.EmployeeID]report.Employee
	salaries   map[core.EmployeeID]payroll.SalaryConfig
	attendance map[core.EmployeeID]map[string]attendance.RawRecord // keyed by date
	leaves     map[core.EmployeeID][]ledger.MonthEvents            // sorted by month
}

func New() *Store {
	return &Store{
		employees:  make(map[core.EmployeeID]report.Employee),
		salaries:   make(map[core.EmployeeID]payroll.SalaryConfig),
		attendance: make(map[core.EmployeeID]map[string]attendance.RawRecord),
		leaves:     make(map[core.EmployeeID][]ledger.MonthEvents),
	}
}

func (s *Store) Close() error { return nil }

func (s *Store) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.employees = make(map[core.EmployeeID]report.Employee)
	s.salaries = make(map[core.EmployeeID]payroll.SalaryConfig)
	s.attendance = make(map[core.EmployeeID]map[string]attendance.RawRecord)
	s.leaves = make(map[core.EmployeeID][]ledger.MonthEvents)
	return nil
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (s *Store) SaveEmployee(_ context.Context, emp report.Employee) (report.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if emp.ID == "" {
		emp.ID = core.EmployeeID(uuid.New().String())
	}
	s.employees[emp.ID] = emp
	return emp, nil
}

func (s *Store) GetEmployee(_ context.Context, id core.EmployeeID) (report.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	emp, ok := s.employees[id]
	if !ok {
		return report.Employee{}, core.ErrEmployeeNotFound
	}
	return emp, nil
}

// ListEmployees returns employees ordered by name, then ID.
func (s *Store) ListEmployees(_ context.Context) ([]report.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]report.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// DeleteEmployee removes the employee and everything recorded against them.
func (s *Store) DeleteEmployee(_ context.Context, id core.EmployeeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[id]; !ok {
		return core.ErrEmployeeNotFound
	}
	delete(s.employees, id)
	delete(s.salaries, id)
	delete(s.attendance, id)
	delete(s.leaves, id)
	return nil
}

// =============================================================================
// SALARY CONFIG
// =============================================================================

func (s *Store) SaveSalaryConfig(_ context.Context, id core.EmployeeID, cfg payroll.SalaryConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[id]; !ok {
		return core.ErrEmployeeNotFound
	}
	s.salaries[id] = cfg
	return nil
}

func (s *Store) GetSalaryConfig(_ context.Context, id core.EmployeeID) (payroll.SalaryConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg, ok := s.salaries[id]
	if !ok {
		return payroll.SalaryConfig{}, core.ErrSalaryConfigNotFound
	}
	return cfg, nil
}

// =============================================================================
// ATTENDANCE
// =============================================================================

// SaveAttendance upserts by date. Records must carry a parseable date.
func (s *Store) SaveAttendance(_ context.Context, id core.EmployeeID, records []attendance.RawRecord) error {
	keyed := make(map[string]attendance.RawRecord, len(records))
	for _, r := range records {
		d, err := recordDate(r)
		if err != nil {
			return err
		}
		r.Date = d.String()
		r.AttendanceDate = ""
		keyed[r.Date] = r
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[id]; !ok {
		return core.ErrEmployeeNotFound
	}
	days := s.attendance[id]
	if days == nil {
		days = make(map[string]attendance.RawRecord)
		s.attendance[id] = days
	}
	for k, r := range keyed {
		days[k] = r
	}
	return nil
}

func (s *Store) LoadAttendance(_ context.Context, id core.EmployeeID, month core.YearMonth) ([]attendance.RawRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix := month.String()
	var out []attendance.RawRecord
	for date, r := range s.attendance[id] {
		if len(date) >= len(prefix) && date[:len(prefix)] == prefix {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// =============================================================================
// LEAVE EVENTS
// =============================================================================

// SaveLeaveMonth replaces one month's credit and debit dates, keeping the
// per-employee list sorted by month.
func (s *Store) SaveLeaveMonth(_ context.Context, id core.EmployeeID, ev ledger.MonthEvents) error {
	if err := ev.Month.Validate(); err != nil {
		return err
	}
	ev.DebitDates = append([]core.Date(nil), ev.DebitDates...)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[id]; !ok {
		return core.ErrEmployeeNotFound
	}
	months := s.leaves[id]
	i := sort.Search(len(months), func(i int) bool {
		return !months[i].Month.Before(ev.Month)
	})
	if i < len(months) && months[i].Month == ev.Month {
		months[i] = ev
	} else {
		months = append(months, ledger.MonthEvents{})
		copy(months[i+1:], months[i:])
		months[i] = ev
	}
	s.leaves[id] = months
	return nil
}

func (s *Store) LoadLeaveHistory(_ context.Context, id core.EmployeeID, through core.YearMonth) ([]ledger.MonthEvents, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []ledger.MonthEvents
	for _, m := range s.leaves[id] {
		if through.Before(m.Month) {
			break
		}
		m.DebitDates = append([]core.Date(nil), m.DebitDates...)
		out = append(out, m)
	}
	return out, nil
}

func recordDate(r attendance.RawRecord) (core.Date, error) {
	if r.Date != "" {
		return core.ParseDate(r.Date)
	}
	return core.ParseDate(r.AttendanceDate)
}
